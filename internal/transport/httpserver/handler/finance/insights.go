package finance

import (
	"net/http"
	"time"

	commonhandler "family-finance-go/internal/transport/httpserver/handler/common"
	"family-finance-go/internal/transport/httpserver/middleware"
)

type budgetResponse struct {
	TotalIncome       string `json:"total_income"`
	TotalExpense      string `json:"total_expense"`
	RecommendedBudget string `json:"recommended_budget"`
}

type notificationSummary struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type dashboardResponse struct {
	TotalAssetValue     string                `json:"total_asset_value"`
	RecentTransactions  []transactionResponse `json:"recent_transactions"`
	UnreadNotifications []notificationSummary `json:"unread_notifications"`
}

func (h *Handlers) Budget(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	budget, err := h.Insights.Budget(r.Context(), principal)
	if err != nil {
		h.fail(w, r, "insights.budget", err)
		return
	}

	writeJSON(w, http.StatusOK, budgetResponse{
		TotalIncome:       commonhandler.Money(budget.TotalIncome),
		TotalExpense:      commonhandler.Money(budget.TotalExpense),
		RecommendedBudget: commonhandler.Money(budget.RecommendedBudget),
	})
}

func (h *Handlers) Trends(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	trend, err := h.Insights.Trend(r.Context(), principal)
	if err != nil {
		h.fail(w, r, "insights.trends", err)
		return
	}

	response := make(map[string]map[string]string, len(trend))
	for category, months := range trend {
		byMonth := make(map[string]string, len(months))
		for month, total := range months {
			byMonth[month] = commonhandler.Money(total)
		}
		response[category] = byMonth
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	dashboard, err := h.Insights.Dashboard(r.Context(), principal)
	if err != nil {
		h.fail(w, r, "dashboard.get", err)
		return
	}

	notifications := make([]notificationSummary, 0, len(dashboard.UnreadNotifications))
	for _, item := range dashboard.UnreadNotifications {
		notifications = append(notifications, notificationSummary{
			ID:        item.ID,
			Message:   item.Message,
			Type:      string(item.Type),
			CreatedAt: item.CreatedAt.UTC(),
		})
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalAssetValue:     commonhandler.Money(dashboard.TotalAssetValue),
		RecentTransactions:  toTransactionResponses(dashboard.RecentTransactions),
		UnreadNotifications: notifications,
	})
}
