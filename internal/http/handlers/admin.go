package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/myrent-be/internal/apperr"
	"github.com/hongminglow/myrent-be/internal/http/respond"
	"github.com/hongminglow/myrent-be/internal/middleware"
	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/models/dto"
	"github.com/hongminglow/myrent-be/internal/storage"
)

// AdminHandler serves the admin-only verification and user listing endpoints.
type AdminHandler struct {
	users  storage.UserStore
	props  storage.PropertyStore
	ledger storage.VerificationStore
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(users storage.UserStore, props storage.PropertyStore, ledger storage.VerificationStore) *AdminHandler {
	return &AdminHandler{users: users, props: props, ledger: ledger}
}

// Register attaches the admin routes behind the admin role gate.
func (h *AdminHandler) Register(r *mux.Router, gate *middleware.Gate) {
	r.Handle("/api/admin/properties/{id:[0-9]+}/verify", protect(gate, h.handleVerify, models.RoleAdmin)).Methods(http.MethodPatch)
	r.Handle("/api/admin/properties/{id:[0-9]+}/verifications", protect(gate, h.handleVerifications, models.RoleAdmin)).Methods(http.MethodGet)
	r.Handle("/api/admin/users", protect(gate, h.handleUsers, models.RoleAdmin)).Methods(http.MethodGet)
}

func (h *AdminHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	var req dto.VerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Failure(w, err)
		return
	}
	if req.Verified == nil {
		respond.Failure(w, apperr.Validation("verified must be a boolean"))
		return
	}
	rec, err := h.ledger.SetVerification(r.Context(), id, caller(r).ID, *req.Verified)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Failure(w, apperr.NotFound("property not found"))
			return
		}
		respond.Failure(w, apperr.Internal("failed to update verification", err))
		return
	}
	respond.JSON(w, http.StatusOK, "Property verification updated", rec)
}

func (h *AdminHandler) handleVerifications(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	if _, err := h.props.GetProperty(r.Context(), id); err != nil {
		respond.Failure(w, propertyLookupError(err))
		return
	}
	records, err := h.ledger.ListVerifications(r.Context(), id)
	if err != nil {
		respond.Failure(w, apperr.Internal("failed to fetch verification history", err))
		return
	}
	respond.JSON(w, http.StatusOK, "ok", records)
}

func (h *AdminHandler) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respond.Failure(w, apperr.Internal("failed to fetch users", err))
		return
	}
	out := make([]models.Principal, 0, len(users))
	for _, u := range users {
		out = append(out, u.Principal())
	}
	respond.JSON(w, http.StatusOK, "ok", out)
}
