package common

import (
	"net/http"
	"time"

	"family-finance-go/internal/domain/access"
	identitydomain "family-finance-go/internal/domain/identity"
	"family-finance-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"is_active"`
}

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, err := h.Identity.Register(r.Context(), principal, identitydomain.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      access.Role(req.Role),
	})
	if err != nil {
		WriteServiceError(w, r, h.log, "users.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	user, err := h.Identity.GetUser(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		WriteServiceError(w, r, h.log, "users.get", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := identitydomain.UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		IsActive:  req.IsActive,
	}
	if req.Role != nil {
		role := access.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.Identity.UpdateUser(r.Context(), principal, chi.URLParam(r, "id"), input)
	if err != nil {
		WriteServiceError(w, r, h.log, "users.update", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Identity.DeleteUser(r.Context(), principal, id); err != nil {
		WriteServiceError(w, r, h.log, "users.delete", err)
		return
	}

	h.log.Info("users.delete: user removed", "user_id", id, "by", principal.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func toUserResponse(user *identitydomain.User) userResponse {
	return userResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       string(user.Role),
		IsActive:   user.IsActive,
		DateJoined: user.DateJoined.UTC(),
	}
}
