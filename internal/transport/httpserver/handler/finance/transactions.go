package finance

import (
	"net/http"
	"strings"
	"time"

	transactionsdomain "family-finance-go/internal/domain/transactions"
	commonhandler "family-finance-go/internal/transport/httpserver/handler/common"
	"family-finance-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createTransactionRequest struct {
	GroupID     string           `json:"group_id"`
	AssetID     string           `json:"asset_id"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Description string           `json:"description"`
	Date        *string          `json:"date"`
	IsUnusual   bool             `json:"is_unusual"`
}

type updateTransactionRequest struct {
	Amount      *decimal.Decimal                     `json:"amount"`
	Category    commonhandler.OptionalNullableString `json:"category"`
	Description *string                              `json:"description"`
	Date        *string                              `json:"date"`
	IsUnusual   *bool                                `json:"is_unusual"`
}

type transactionResponse struct {
	ID          string    `json:"id"`
	AssetID     string    `json:"asset_id"`
	GroupID     string    `json:"group_id"`
	Amount      string    `json:"amount"`
	Category    *string   `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	IsUnusual   bool      `json:"is_unusual"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	items, err := h.Transactions.List(r.Context(), principal)
	if err != nil {
		h.fail(w, r, "transactions.list", err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponses(items))
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	item, err := h.Transactions.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "transactions.get", err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(item))
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	date, ok := parseOptionalTime(req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	item, err := h.Transactions.Create(r.Context(), principal, transactionsdomain.CreateInput{
		GroupID:     req.GroupID,
		AssetID:     req.AssetID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		IsUnusual:   req.IsUnusual,
	})
	if err != nil {
		h.fail(w, r, "transactions.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(item))
}

func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	date, ok := parseOptionalTime(req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	item, err := h.Transactions.Update(r.Context(), principal, chi.URLParam(r, "id"), transactionsdomain.UpdateInput{
		Amount: req.Amount,
		Category: transactionsdomain.OptionalNullableString{
			Set:   req.Category.Set,
			Value: req.Category.Value,
		},
		Description: req.Description,
		Date:        date,
		IsUnusual:   req.IsUnusual,
	})
	if err != nil {
		h.fail(w, r, "transactions.update", err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(item))
}

func parseOptionalTime(value *string) (*time.Time, bool) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, true
	}
	parsed, err := commonhandler.ParseTime(*value)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

func toTransactionResponse(item *transactionsdomain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          item.ID,
		AssetID:     item.AssetID,
		GroupID:     item.GroupID,
		Amount:      commonhandler.Money(item.Amount),
		Category:    item.Category,
		Description: item.Description,
		Date:        item.Date.UTC(),
		IsUnusual:   item.IsUnusual,
		CreatedAt:   item.CreatedAt.UTC(),
	}
}

func toTransactionResponses(items []transactionsdomain.Transaction) []transactionResponse {
	response := make([]transactionResponse, 0, len(items))
	for i := range items {
		response = append(response, toTransactionResponse(&items[i]))
	}
	return response
}
