package documents

import (
	"net/http"

	documentsdomain "family-finance-go/internal/domain/documents"
	commonhandler "family-finance-go/internal/transport/httpserver/handler/common"
	"family-finance-go/pkg/logger"
)

type Handlers struct {
	Documents *documentsdomain.Service
	log       logger.Logger
}

func New(documents *documentsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Documents: documents,
		log:       log,
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
