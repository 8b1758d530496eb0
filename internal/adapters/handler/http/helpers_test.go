package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/userauth/internal/logging"
	"github.com/vncsmyrnk/userauth/internal/metrics"
)

type testApp struct {
	handler  http.Handler
	signUp   *mockSignUpService
	auth     *mockAuthService
	sessions *mockSessionService
	users    *mockUserService
	metrics  *metrics.Metrics
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	app := &testApp{
		signUp:   new(mockSignUpService),
		auth:     new(mockAuthService),
		sessions: new(mockSessionService),
		users:    new(mockUserService),
		metrics:  metrics.New(),
	}
	log := logging.Nop()
	app.handler = NewHandler(RouterConfig{
		Auth:    NewAuthHandler(app.signUp, app.auth, log, app.metrics),
		Users:   NewUserHandler(app.users, app.sessions, log),
		Gate:    NewAuthMiddleware(app.sessions, log, app.metrics),
		Logger:  log,
		Metrics: app.metrics,
	})
	t.Cleanup(func() {
		app.signUp.AssertExpectations(t)
		app.auth.AssertExpectations(t)
		app.sessions.AssertExpectations(t)
		app.users.AssertExpectations(t)
	})
	return app
}

func (a *testApp) do(t *testing.T, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}
