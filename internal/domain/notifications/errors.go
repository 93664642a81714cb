package notifications

import "family-finance-go/internal/domain/apperr"

var (
	ErrNotificationNotFound = apperr.NotFound("notification")
	ErrUserNotFound         = apperr.NotFound("user")
	ErrAdminOnly            = apperr.Forbidden("admin role required")
)
