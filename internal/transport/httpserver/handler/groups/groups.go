package groups

import (
	"net/http"
	"time"

	"family-finance-go/internal/domain/access"
	familydomain "family-finance-go/internal/domain/family"
	"family-finance-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type groupRequest struct {
	Name string `json:"name"`
}

type setGrantRequest struct {
	UserID      string            `json:"user_id"`
	Permissions map[string]string `json:"permissions"`
}

type groupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AdminID   string    `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type grantResponse struct {
	GroupID     string            `json:"group_id"`
	UserID      string            `json:"user_id"`
	Permissions map[string]string `json:"permissions"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groups, err := h.Families.ListGroups(r.Context(), principal)
	if err != nil {
		h.fail(w, r, "groups.list", err)
		return
	}

	response := make([]groupResponse, 0, len(groups))
	for i := range groups {
		response = append(response, toGroupResponse(&groups[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	group, err := h.Families.CreateGroup(r.Context(), principal, req.Name)
	if err != nil {
		h.fail(w, r, "groups.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	group, err := h.Families.GetGroup(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "groups.get", err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handlers) RenameGroup(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	group, err := h.Families.RenameGroup(r.Context(), principal, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		h.fail(w, r, "groups.rename", err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handlers) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Families.DeleteGroup(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "groups.delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListGrants(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	grants, err := h.Families.ListGrants(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "permissions.list", err)
		return
	}

	writeJSON(w, http.StatusOK, toGrantResponses(grants))
}

func (h *Handlers) SetGrant(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req setGrantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	groupID := chi.URLParam(r, "id")
	grant, err := h.Families.SetGrant(r.Context(), principal, groupID, req.UserID, req.Permissions)
	if err != nil {
		h.fail(w, r, "permissions.set", err)
		return
	}

	h.log.Info("permissions.set: grant stored", "group_id", groupID, "user_id", grant.UserID, "by", principal.UserID)
	writeJSON(w, http.StatusOK, toGrantResponse(grant))
}

func (h *Handlers) GetGrant(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	grant, err := h.Families.GetGrant(r.Context(), principal, chi.URLParam(r, "id"), chi.URLParam(r, "user_id"))
	if err != nil {
		h.fail(w, r, "permissions.get", err)
		return
	}

	writeJSON(w, http.StatusOK, toGrantResponse(grant))
}

func (h *Handlers) ListMyGrants(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	grants, err := h.Families.ListMyGrants(r.Context(), principal)
	if err != nil {
		h.fail(w, r, "permissions.mine", err)
		return
	}

	writeJSON(w, http.StatusOK, toGrantResponses(grants))
}

func toGroupResponse(group *familydomain.Group) groupResponse {
	return groupResponse{
		ID:        group.ID,
		Name:      group.Name,
		AdminID:   group.AdminID,
		CreatedAt: group.CreatedAt.UTC(),
		UpdatedAt: group.UpdatedAt.UTC(),
	}
}

func toGrantResponse(grant *familydomain.Grant) grantResponse {
	return grantResponse{
		GroupID:     grant.GroupID,
		UserID:      grant.UserID,
		Permissions: permissionsMap(grant.Levels()),
		CreatedAt:   grant.CreatedAt.UTC(),
		UpdatedAt:   grant.UpdatedAt.UTC(),
	}
}

func toGrantResponses(grants []familydomain.Grant) []grantResponse {
	response := make([]grantResponse, 0, len(grants))
	for i := range grants {
		response = append(response, toGrantResponse(&grants[i]))
	}
	return response
}

func permissionsMap(permissions access.Permissions) map[string]string {
	result := make(map[string]string, len(permissions))
	for category, level := range permissions {
		result[string(category)] = string(level)
	}
	return result
}
