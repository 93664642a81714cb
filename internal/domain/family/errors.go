package family

import "family-finance-go/internal/domain/apperr"

var (
	ErrGroupNotFound = apperr.NotFound("family group")
	ErrGrantNotFound = apperr.NotFound("permission grant")
	ErrUserNotFound  = apperr.NotFound("user")
	ErrAdminOnly     = apperr.Forbidden("admin role required")
	ErrNotGroupAdmin = apperr.Forbidden("only the group admin can manage this group")
	ErrNoGroupAccess = apperr.Forbidden("no access to this group")
)
