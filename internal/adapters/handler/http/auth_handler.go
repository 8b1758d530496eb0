package http

import (
	"errors"
	"mime"
	"net/http"

	"github.com/vncsmyrnk/userauth/internal/core/domain"
	"github.com/vncsmyrnk/userauth/internal/core/ports"
	"github.com/vncsmyrnk/userauth/internal/logging"
	"github.com/vncsmyrnk/userauth/internal/metrics"
)

type AuthHandler struct {
	signUp ports.SignUpService
	auth   ports.AuthService
	log    logging.Logger
	rec    Recorder
}

func NewAuthHandler(signUp ports.SignUpService, auth ports.AuthService, log logging.Logger, rec Recorder) *AuthHandler {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &AuthHandler{
		signUp: signUp,
		auth:   auth,
		log:    log,
		rec:    rec,
	}
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
}

// SignUp godoc
// @Summary      Registers a new user
// @Description  Creates the user and returns a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      409
// @Router       /signup [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.failSignUp(w, r, err)
		return
	}

	if err := validateCredentials(req.Email,
		requiredField{"name", req.Name},
		requiredField{"email", req.Email},
		requiredField{"password", req.Password},
	); err != nil {
		h.failSignUp(w, r, err)
		return
	}
	if err := validateNewPassword(req.Password); err != nil {
		h.failSignUp(w, r, err)
		return
	}

	token, err := h.signUp.Register(r.Context(), domain.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.failSignUp(w, r, err)
		return
	}

	h.rec.SignUp(metrics.OutcomeSuccess)
	h.log.Info(r.Context(), "user registered", "email", req.Email)
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *AuthHandler) failSignUp(w http.ResponseWriter, r *http.Request, err error) {
	h.rec.SignUp(outcomeOf(err))
	writeError(w, r, h.log, err)
}

// Login godoc
// @Summary      Logs a user in
// @Description  Exchanges email and password for a session token. Unknown emails and wrong passwords get the same 401.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      401
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.failLogin(w, r, "password", err)
		return
	}

	if err := validateCredentials(req.Email,
		requiredField{"email", req.Email},
		requiredField{"password", req.Password},
	); err != nil {
		h.failLogin(w, r, "password", err)
		return
	}

	token, err := h.auth.Authenticate(r.Context(), domain.AuthInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.failLogin(w, r, "password", err)
		return
	}
	if token == "" {
		h.failLogin(w, r, "password", domain.ErrUnauthorized)
		return
	}

	h.rec.Login("password", metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// GoogleLogin godoc
// @Summary      Logs a user in with a Google ID token
// @Description  Accepts the credential as a form field or JSON. Unknown users are created on first sign-in.
// @Tags         auth
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      401
// @Router       /login/google [post]
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	credential, err := googleCredential(w, r)
	if err != nil {
		h.failLogin(w, r, "google", err)
		return
	}
	if credential == "" {
		h.failLogin(w, r, "google", domain.MissingParamError("credential"))
		return
	}

	token, err := h.auth.LoginWithGoogle(r.Context(), credential)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.log.Warn(r.Context(), "google login rejected", "error", err)
		}
		h.failLogin(w, r, "google", err)
		return
	}

	h.rec.Login("google", metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, method string, err error) {
	h.rec.Login(method, outcomeOf(err))
	writeError(w, r, h.log, err)
}

func googleCredential(w http.ResponseWriter, r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req googleLoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return "", err
		}
		return req.Credential, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return "", domain.InvalidParamError("body")
	}
	return r.FormValue("credential"), nil
}

func outcomeOf(err error) string {
	if status, _ := errorBody(err); status == http.StatusInternalServerError {
		return metrics.OutcomeError
	}
	return metrics.OutcomeRejected
}
