package finance

import (
	"net/http"

	assetsdomain "family-finance-go/internal/domain/assets"
	insightsdomain "family-finance-go/internal/domain/insights"
	transactionsdomain "family-finance-go/internal/domain/transactions"
	commonhandler "family-finance-go/internal/transport/httpserver/handler/common"
	"family-finance-go/pkg/logger"
)

// Handlers serves assets, transactions and the aggregated insights.
type Handlers struct {
	Assets       *assetsdomain.Service
	Transactions *transactionsdomain.Service
	Insights     *insightsdomain.Service
	log          logger.Logger
}

func New(assets *assetsdomain.Service, transactions *transactionsdomain.Service, insights *insightsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Assets:       assets,
		Transactions: transactions,
		Insights:     insights,
		log:          log,
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	commonhandler.WriteServiceError(w, r, h.log, op, err)
}
