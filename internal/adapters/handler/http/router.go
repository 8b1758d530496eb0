package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vncsmyrnk/userauth/internal/logging"
	"github.com/vncsmyrnk/userauth/internal/metrics"
)

type RouterConfig struct {
	Auth           *AuthHandler
	Users          *UserHandler
	Gate           *AuthMiddleware
	Logger         logging.Logger
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
}

func NewHandler(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Instrument)
	}
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Post("/signup", cfg.Auth.SignUp)
	r.Post("/login", cfg.Auth.Login)
	r.Post("/login/google", cfg.Auth.GoogleLogin)

	r.Group(func(r chi.Router) {
		r.Use(cfg.Gate.Handler)

		r.Get("/users", cfg.Users.ListUsers)
		r.Get("/me", cfg.Users.GetMe)
		r.Post("/logout", cfg.Users.Logout)
	})

	return r
}
