package http

import (
	"net/http"

	"github.com/vncsmyrnk/userauth/internal/core/domain"
	"github.com/vncsmyrnk/userauth/internal/core/ports"
	"github.com/vncsmyrnk/userauth/internal/logging"
)

type UserHandler struct {
	users    ports.UserService
	sessions ports.SessionService
	log      logging.Logger
}

func NewUserHandler(users ports.UserService, sessions ports.SessionService, log logging.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		sessions: sessions,
		log:      log,
	}
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
}

// ListUsers godoc
// @Summary      Lists registered users
// @Tags         users
// @Produce      json
// @Success      200
// @Failure      403
// @Router       /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FetchUsers(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	writeJSON(w, http.StatusOK, usersResponse{Users: users})
}

// GetMe godoc
// @Summary      Returns the authenticated user
// @Tags         users
// @Produce      json
// @Success      200
// @Failure      403
// @Failure      404
// @Router       /me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, domain.ErrAccessDenied)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "user not found"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout godoc
// @Summary      Ends the authenticated user's session
// @Tags         auth
// @Produce      json
// @Success      200
// @Failure      403
// @Router       /logout [post]
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, domain.ErrAccessDenied)
		return
	}

	if err := h.sessions.Logout(r.Context(), userID); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.Info(r.Context(), "user logged out", "user_id", userID)
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
