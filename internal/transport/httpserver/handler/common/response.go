package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"family-finance-go/internal/domain/apperr"
	"family-finance-go/pkg/logger"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst)
}

// WriteServiceError maps a domain error kind onto a status code and the error
// envelope. Expected failures are logged as business errors, the rest as internal.
func WriteServiceError(w http.ResponseWriter, r *http.Request, fallback logger.Logger, op string, err error) {
	log := logger.FromContext(r.Context(), fallback)

	switch {
	case errors.Is(err, apperr.ErrValidation):
		log.BusinessError(op+": invalid input", err)
		body := errorBody{Code: "validation_error", Message: err.Error()}
		if verr, ok := apperr.AsValidation(err); ok {
			body.Message = verr.Reason
			body.Field = verr.Field
		}
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: body})
	case errors.Is(err, apperr.ErrNotFound):
		log.BusinessError(op+": not found", err)
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		log.BusinessError(op+": forbidden", err)
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, apperr.ErrConflict):
		log.BusinessError(op+": conflict", err)
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, apperr.ErrUnauthenticated):
		log.BusinessError(op+": unauthenticated", err)
		writeError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, apperr.ErrStorageUnavailable):
		log.InternalError(op+": storage unavailable", err)
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "storage unavailable")
	default:
		log.InternalError(op+": unexpected error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
