package insights

import (
	"context"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/notifications"
	"family-finance-go/internal/domain/transactions"
	"github.com/shopspring/decimal"
)

type Repository interface {
	TransactionAmounts(ctx context.Context, scope access.Scope) ([]AmountRow, error)
	AssetValues(ctx context.Context, scope access.Scope) ([]decimal.Decimal, error)
	RecentTransactions(ctx context.Context, scope access.Scope, limit int) ([]transactions.Transaction, error)
}

type NotificationLister interface {
	List(ctx context.Context, caller access.Principal, unreadOnly bool) ([]notifications.Notification, error)
}
