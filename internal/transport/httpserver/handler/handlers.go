package handler

import (
	commonhandler "family-finance-go/internal/transport/httpserver/handler/common"
	documentshandler "family-finance-go/internal/transport/httpserver/handler/documents"
	financehandler "family-finance-go/internal/transport/httpserver/handler/finance"
	groupshandler "family-finance-go/internal/transport/httpserver/handler/groups"
	notificationshandler "family-finance-go/internal/transport/httpserver/handler/notifications"
)

type Handlers struct {
	Common        *commonhandler.Handlers
	Groups        *groupshandler.Handlers
	Finance       *financehandler.Handlers
	Documents     *documentshandler.Handlers
	Notifications *notificationshandler.Handlers
}

func New(
	common *commonhandler.Handlers,
	groups *groupshandler.Handlers,
	finance *financehandler.Handlers,
	documents *documentshandler.Handlers,
	notifications *notificationshandler.Handlers,
) *Handlers {
	return &Handlers{
		Common:        common,
		Groups:        groups,
		Finance:       finance,
		Documents:     documents,
		Notifications: notifications,
	}
}
