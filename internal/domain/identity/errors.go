package identity

import "family-finance-go/internal/domain/apperr"

var (
	ErrUserNotFound       = apperr.NotFound("user")
	ErrEmailTaken         = apperr.Conflict("email already registered")
	ErrInvalidCredentials = apperr.Unauthenticated("invalid email or password")
	ErrAccountDisabled    = apperr.Unauthenticated("user account is disabled")
	ErrAdminOnly          = apperr.Forbidden("admin role required")
	ErrNotSelf            = apperr.Forbidden("permission denied")
)
