package finance

import (
	"net/http"
	"time"

	assetsdomain "family-finance-go/internal/domain/assets"
	commonhandler "family-finance-go/internal/transport/httpserver/handler/common"
	"family-finance-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createAssetRequest struct {
	GroupID   string          `json:"group_id"`
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	APISource *string         `json:"api_source"`
}

type updateAssetRequest struct {
	Type      *string                              `json:"type"`
	Name      *string                              `json:"name"`
	Value     *decimal.Decimal                     `json:"value"`
	APISource commonhandler.OptionalNullableString `json:"api_source"`
}

type assetResponse struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Value       string    `json:"value"`
	APISource   *string   `json:"api_source"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

func (h *Handlers) ListAssets(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	items, err := h.Assets.List(r.Context(), principal)
	if err != nil {
		h.fail(w, r, "assets.list", err)
		return
	}

	response := make([]assetResponse, 0, len(items))
	for i := range items {
		response = append(response, toAssetResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetAsset(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	asset, err := h.Assets.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "assets.get", err)
		return
	}

	writeJSON(w, http.StatusOK, toAssetResponse(asset))
}

func (h *Handlers) CreateAsset(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	asset, err := h.Assets.Create(r.Context(), principal, assetsdomain.CreateInput{
		GroupID:   req.GroupID,
		Type:      assetsdomain.Type(req.Type),
		Name:      req.Name,
		Value:     req.Value,
		APISource: req.APISource,
	})
	if err != nil {
		h.fail(w, r, "assets.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssetResponse(asset))
}

func (h *Handlers) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := assetsdomain.UpdateInput{
		Name:  req.Name,
		Value: req.Value,
		APISource: assetsdomain.OptionalNullableString{
			Set:   req.APISource.Set,
			Value: req.APISource.Value,
		},
	}
	if req.Type != nil {
		assetType := assetsdomain.Type(*req.Type)
		input.Type = &assetType
	}

	asset, err := h.Assets.Update(r.Context(), principal, chi.URLParam(r, "id"), input)
	if err != nil {
		h.fail(w, r, "assets.update", err)
		return
	}

	writeJSON(w, http.StatusOK, toAssetResponse(asset))
}

func toAssetResponse(asset *assetsdomain.Asset) assetResponse {
	return assetResponse{
		ID:          asset.ID,
		GroupID:     asset.GroupID,
		Type:        string(asset.Type),
		Name:        asset.Name,
		Value:       commonhandler.Money(asset.Value),
		APISource:   asset.APISource,
		CreatedAt:   asset.CreatedAt.UTC(),
		LastUpdated: asset.LastUpdated.UTC(),
	}
}
