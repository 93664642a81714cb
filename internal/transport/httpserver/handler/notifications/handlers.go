package notifications

import (
	"net/http"
	"time"

	notificationsdomain "family-finance-go/internal/domain/notifications"
	commonhandler "family-finance-go/internal/transport/httpserver/handler/common"
	"family-finance-go/internal/transport/httpserver/middleware"
	"family-finance-go/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	Notifications *notificationsdomain.Service
	log           logger.Logger
}

func New(notifications *notificationsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Notifications: notifications,
		log:           log,
	}
}

type sendRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type markRequest struct {
	IsRead *bool `json:"is_read"`
}

type notificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		commonhandler.WriteError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	unreadOnly, err := commonhandler.ParseBoolParam(r.URL.Query().Get("unread"), false)
	if err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid unread flag")
		return
	}

	items, err := h.Notifications.List(r.Context(), principal, unreadOnly)
	if err != nil {
		commonhandler.WriteServiceError(w, r, h.log, "notifications.list", err)
		return
	}

	response := make([]notificationResponse, 0, len(items))
	for i := range items {
		response = append(response, toNotificationResponse(&items[i]))
	}
	commonhandler.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) SendNotification(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		commonhandler.WriteError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req sendRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	item, err := h.Notifications.Send(r.Context(), principal, req.UserID, req.Message, notificationsdomain.Type(req.Type))
	if err != nil {
		commonhandler.WriteServiceError(w, r, h.log, "notifications.send", err)
		return
	}

	commonhandler.WriteJSON(w, http.StatusCreated, toNotificationResponse(item))
}

func (h *Handlers) MarkNotification(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		commonhandler.WriteError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req markRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	read := true
	if req.IsRead != nil {
		read = *req.IsRead
	}

	item, err := h.Notifications.MarkRead(r.Context(), principal, chi.URLParam(r, "id"), read)
	if err != nil {
		commonhandler.WriteServiceError(w, r, h.log, "notifications.mark", err)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, toNotificationResponse(item))
}

func toNotificationResponse(item *notificationsdomain.Notification) notificationResponse {
	return notificationResponse{
		ID:        item.ID,
		UserID:    item.UserID,
		Message:   item.Message,
		Type:      string(item.Type),
		IsRead:    item.IsRead,
		CreatedAt: item.CreatedAt.UTC(),
	}
}
