package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/myrent-be/internal/auth"
	"github.com/hongminglow/myrent-be/internal/http/respond"
	"github.com/hongminglow/myrent-be/internal/models/dto"
)

// AuthHandler owns the signup and login endpoints.
type AuthHandler struct {
	svc *auth.Service
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/auth/signup", h.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.handleLogin).Methods(http.MethodPost)
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Failure(w, err)
		return
	}
	signup, err := auth.ParseSignup(req)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	id, err := h.svc.Signup(r.Context(), signup)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "User registered successfully", dto.SignupResponse{UserID: id})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Failure(w, err)
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "Login successful", dto.LoginResponse{Token: res.Token, User: res.User})
}
