package transactions

import (
	"context"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/assets"
	"family-finance-go/internal/domain/notifications"
)

type Repository interface {
	// List returns transactions in scope, most recent first.
	List(ctx context.Context, scope access.Scope) ([]Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	Create(ctx context.Context, transaction *Transaction) error
	Update(ctx context.Context, transaction *Transaction) error
}

type AssetLookup interface {
	GetByID(ctx context.Context, id string) (*assets.Asset, error)
}

type GroupLookup interface {
	GroupAdminID(ctx context.Context, groupID string) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, message string, kind notifications.Type) (*notifications.Notification, error)
}
