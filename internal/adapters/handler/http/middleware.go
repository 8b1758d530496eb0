package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/userauth/internal/core/domain"
	"github.com/vncsmyrnk/userauth/internal/core/ports"
	"github.com/vncsmyrnk/userauth/internal/logging"
	"github.com/vncsmyrnk/userauth/internal/metrics"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	identityKey contextKey = "identity"
)

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}

// Recorder receives auth outcomes. *metrics.Metrics satisfies it.
type Recorder interface {
	SignUp(outcome string)
	Login(method, outcome string)
	Authorization(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) SignUp(string) {}

func (nopRecorder) Login(string, string) {}

func (nopRecorder) Authorization(string) {}

// AuthMiddleware gates protected routes on a valid session token.
type AuthMiddleware struct {
	sessions ports.SessionService
	log      logging.Logger
	rec      Recorder
}

func NewAuthMiddleware(sessions ports.SessionService, log logging.Logger, rec Recorder) *AuthMiddleware {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &AuthMiddleware{sessions: sessions, log: log, rec: rec}
}

// Authorize resolves the Authorization header to an identity. A missing or
// rejected token is ErrAccessDenied; store failures come back unchanged.
func (m *AuthMiddleware) Authorize(ctx context.Context, header http.Header) (*domain.Identity, error) {
	token := bearerToken(header.Get("Authorization"))
	if token == "" {
		return nil, domain.ErrAccessDenied
	}

	identity, err := m.sessions.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, domain.ErrAccessDenied
	}
	return identity, nil
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.Authorize(r.Context(), r.Header)
		if err != nil {
			outcome := metrics.OutcomeRejected
			if status, _ := errorBody(err); status == http.StatusInternalServerError {
				outcome = metrics.OutcomeError
			}
			m.rec.Authorization(outcome)
			writeError(w, r, m.log, err)
			return
		}
		m.rec.Authorization(metrics.OutcomeSuccess)

		ctx := context.WithValue(r.Context(), UserIDKey, identity.UserID)
		ctx = context.WithValue(ctx, identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken strips an optional, case-insensitive "Bearer " prefix. A header
// without the prefix is taken as the raw token; a bare scheme carries none.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	const scheme = "bearer"
	if strings.EqualFold(header, scheme) {
		return ""
	}
	if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) && header[len(scheme)] == ' ' {
		return strings.TrimSpace(header[len(scheme):])
	}
	return header
}

func requestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info(r.Context(), "http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
