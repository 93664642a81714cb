package common

import (
	"net/http"
	"strings"
	"time"

	"family-finance-go/internal/auth"
	"family-finance-go/internal/transport/httpserver/middleware"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type tokenResponse struct {
	Access           string        `json:"access"`
	Refresh          string        `json:"refresh"`
	AccessExpiresAt  time.Time     `json:"access_expires_at"`
	RefreshExpiresAt time.Time     `json:"refresh_expires_at"`
	User             *userResponse `json:"user,omitempty"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	user, err := h.Identity.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, r, h.log, "auth.login", err)
		return
	}

	pair, err := h.Tokens.IssuePair(*user)
	if err != nil {
		WriteServiceError(w, r, h.log, "auth.login: issue tokens", err)
		return
	}

	h.log.Info("auth.login: signed in", "user_id", user.ID)
	userResp := toUserResponse(user)
	writeJSON(w, http.StatusOK, toTokenResponse(pair, &userResp))
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Refresh) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "refresh is required")
		return
	}

	pair, user, err := h.Tokens.Refresh(r.Context(), req.Refresh, h.Identity)
	if err != nil {
		WriteServiceError(w, r, h.log, "auth.refresh", err)
		return
	}

	userResp := toUserResponse(user)
	writeJSON(w, http.StatusOK, toTokenResponse(pair, &userResp))
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	user, err := h.Identity.GetUser(r.Context(), principal, principal.UserID)
	if err != nil {
		WriteServiceError(w, r, h.log, "auth.me", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func toTokenResponse(pair auth.Pair, user *userResponse) tokenResponse {
	return tokenResponse{
		Access:           pair.Access,
		Refresh:          pair.Refresh,
		AccessExpiresAt:  pair.AccessExpiresAt.UTC(),
		RefreshExpiresAt: pair.RefreshExpiresAt.UTC(),
		User:             user,
	}
}
