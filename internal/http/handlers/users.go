package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/myrent-be/internal/apperr"
	"github.com/hongminglow/myrent-be/internal/http/respond"
	"github.com/hongminglow/myrent-be/internal/middleware"
	"github.com/hongminglow/myrent-be/internal/models/dto"
	"github.com/hongminglow/myrent-be/internal/storage"
)

// UserHandler serves the caller's own profile.
type UserHandler struct {
	users storage.UserStore
}

// NewUserHandler constructs the handler.
func NewUserHandler(users storage.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// Register attaches the profile route.
func (h *UserHandler) Register(r *mux.Router, gate *middleware.Gate) {
	r.Handle("/api/users/me", protect(gate, h.handleMe)).Methods(http.MethodGet)
}

func (h *UserHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByID(r.Context(), caller(r).ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Failure(w, apperr.NotFound("user not found"))
			return
		}
		respond.Failure(w, apperr.Internal("failed to load profile", err))
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.NewProfile(user))
}
