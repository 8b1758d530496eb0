package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vncsmyrnk/userauth/internal/core/domain"
	"github.com/vncsmyrnk/userauth/internal/logging"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the domain error taxonomy onto status codes. Anything it
// does not recognise is logged and answered with a generic 500 body.
func writeError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	status, body := errorBody(err)
	if status == http.StatusInternalServerError {
		log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, body)
}

func errorBody(err error) (int, errorResponse) {
	param := domain.ParamOf(err)
	switch {
	case errors.Is(err, domain.ErrMissingParam):
		return http.StatusBadRequest, errorResponse{Error: "missing_param", Param: param, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidParam):
		return http.StatusBadRequest, errorResponse{Error: "invalid_param", Param: param, Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		msg := domain.ErrConflict.Error()
		if param != "" {
			msg = domain.ConflictError(param).Error()
		}
		return http.StatusConflict, errorResponse{Error: "conflict", Param: param, Message: msg}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: domain.ErrUnauthorized.Error()}
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, errorResponse{Error: "access_denied", Message: domain.ErrAccessDenied.Error()}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "server_error", Message: domain.ErrInternal.Error()}
	}
}

// decodeJSON reads a single JSON object. Malformed or oversized bodies are
// reported as an invalid "body" param.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return domain.InvalidParamError("body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.InvalidParamError("body")
	}
	return nil
}
