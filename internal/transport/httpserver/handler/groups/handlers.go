package groups

import (
	"net/http"

	familydomain "family-finance-go/internal/domain/family"
	commonhandler "family-finance-go/internal/transport/httpserver/handler/common"
	"family-finance-go/pkg/logger"
)

type Handlers struct {
	Families *familydomain.Service
	log      logger.Logger
}

func New(families *familydomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Families: families,
		log:      log,
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
