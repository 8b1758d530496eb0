package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vncsmyrnk/userauth/internal/core/domain"
)

func TestSignUp(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		setup      func(app *testApp)
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name: "success",
			body: signUpRequest{Name: "Ann", Email: "ann@x.com", Password: "pw1"},
			setup: func(app *testApp) {
				app.signUp.On("Register", mock.Anything, domain.SignUpInput{Name: "Ann", Email: "ann@x.com", Password: "pw1"}).
					Return("T1", nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"token": "T1"},
		},
		{
			name:       "missing name is reported first",
			body:       signUpRequest{Email: "not-an-email"},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "missing_param", "param": "name", "message": "missing param: name"},
		},
		{
			name:       "missing password",
			body:       signUpRequest{Name: "Ann", Email: "ann@x.com"},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "missing_param", "param": "password", "message": "missing param: password"},
		},
		{
			name:       "invalid email",
			body:       signUpRequest{Name: "Ann", Email: "ann", Password: "pw1"},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "invalid_param", "param": "email", "message": "invalid param: email"},
		},
		{
			name:       "password too long for bcrypt",
			body:       signUpRequest{Name: "Ann", Email: "ann@x.com", Password: strings.Repeat("x", 73)},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "invalid_param", "param": "password", "message": "invalid param: password"},
		},
		{
			name:       "malformed body",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "invalid_param", "param": "body", "message": "invalid param: body"},
		},
		{
			name: "email taken",
			body: signUpRequest{Name: "Ann", Email: "ann@x.com", Password: "pw1"},
			setup: func(app *testApp) {
				app.signUp.On("Register", mock.Anything, mock.Anything).Return("", domain.ConflictError("email"))
			},
			wantStatus: http.StatusConflict,
			wantBody:   map[string]any{"error": "conflict", "param": "email", "message": "already exists: email"},
		},
		{
			name: "store failure",
			body: signUpRequest{Name: "Ann", Email: "ann@x.com", Password: "pw1"},
			setup: func(app *testApp) {
				app.signUp.On("Register", mock.Anything, mock.Anything).Return("", errors.New("failed to create user: connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"error": "server_error", "message": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			if tt.setup != nil {
				tt.setup(app)
			}

			rec := app.do(t, http.MethodPost, "/signup", tt.body, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, decodeBody(t, rec))
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		setup      func(app *testApp)
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name: "success",
			body: loginRequest{Email: "ann@x.com", Password: "pw1"},
			setup: func(app *testApp) {
				app.auth.On("Authenticate", mock.Anything, domain.AuthInput{Email: "ann@x.com", Password: "pw1"}).Return("T2", nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"token": "T2"},
		},
		{
			name: "rejected credentials",
			body: loginRequest{Email: "ann@x.com", Password: "wrong"},
			setup: func(app *testApp) {
				app.auth.On("Authenticate", mock.Anything, mock.Anything).Return("", nil)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   map[string]any{"error": "unauthorized", "message": "unauthorized"},
		},
		{
			name:       "missing email",
			body:       loginRequest{Password: "pw1"},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "missing_param", "param": "email", "message": "missing param: email"},
		},
		{
			name:       "missing password",
			body:       loginRequest{Email: "ann@x.com"},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "missing_param", "param": "password", "message": "missing param: password"},
		},
		{
			name:       "invalid email",
			body:       loginRequest{Email: "ann.x.com", Password: "pw1"},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "invalid_param", "param": "email", "message": "invalid param: email"},
		},
		{
			name: "user store failure",
			body: loginRequest{Email: "ann@x.com", Password: "pw1"},
			setup: func(app *testApp) {
				app.auth.On("Authenticate", mock.Anything, domain.AuthInput{Email: "ann@x.com", Password: "pw1"}).
					Return("", errors.New("failed to get user: connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"error": "server_error", "message": "internal server error"},
		},
		{
			name:       "trailing data",
			body:       `{"email":"ann@x.com","password":"pw1"} {}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "invalid_param", "param": "body", "message": "invalid param: body"},
		},
		{
			name: "hasher failure",
			body: loginRequest{Email: "ann@x.com", Password: "pw1"},
			setup: func(app *testApp) {
				app.auth.On("Authenticate", mock.Anything, mock.Anything).Return("", errors.New("failed to compare password: bad digest"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"error": "server_error", "message": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			if tt.setup != nil {
				tt.setup(app)
			}

			rec := app.do(t, http.MethodPost, "/login", tt.body, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, decodeBody(t, rec))
		})
	}
}

func TestLogin_RecordsOutcome(t *testing.T) {
	app := newTestApp(t)
	app.auth.On("Authenticate", mock.Anything, mock.Anything).Return("", nil).Twice()

	app.do(t, http.MethodPost, "/login", loginRequest{Email: "ghost@x.com", Password: "pw"}, nil)
	app.do(t, http.MethodPost, "/login", loginRequest{Email: "ann@x.com", Password: "wrong"}, nil)

	rec := app.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Contains(t, rec.Body.String(), `userauth_logins_total{method="password",outcome="rejected"} 2`)
}

func TestGoogleLogin(t *testing.T) {
	t.Run("form credential", func(t *testing.T) {
		app := newTestApp(t)
		app.auth.On("LoginWithGoogle", mock.Anything, "id-token").Return("T3", nil)

		form := url.Values{"credential": {"id-token"}}
		req := httptest.NewRequest(http.MethodPost, "/login/google", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		app.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"token": "T3"}, decodeBody(t, rec))
	})

	t.Run("json credential", func(t *testing.T) {
		app := newTestApp(t)
		app.auth.On("LoginWithGoogle", mock.Anything, "id-token").Return("T3", nil)

		rec := app.do(t, http.MethodPost, "/login/google", googleLoginRequest{Credential: "id-token"}, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing credential", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(t, http.MethodPost, "/login/google", googleLoginRequest{}, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "credential", decodeBody(t, rec)["param"])
	})

	t.Run("rejected token does not leak the cause", func(t *testing.T) {
		app := newTestApp(t)
		app.auth.On("LoginWithGoogle", mock.Anything, "forged").
			Return("", errors.Join(errors.New("invalid google token: audience mismatch"), domain.ErrUnauthorized))

		rec := app.do(t, http.MethodPost, "/login/google", googleLoginRequest{Credential: "forged"}, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, map[string]any{"error": "unauthorized", "message": "unauthorized"}, decodeBody(t, rec))
	})
}
