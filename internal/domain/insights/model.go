package insights

import (
	"time"

	"family-finance-go/internal/domain/notifications"
	"family-finance-go/internal/domain/transactions"
	"github.com/shopspring/decimal"
)

// UncategorizedBucket collects transactions without a category in trends.
const UncategorizedBucket = "uncategorized"

const recentTransactionsLimit = 5

// AmountRow is the slice of a transaction the aggregations need.
type AmountRow struct {
	Amount   decimal.Decimal
	Category *string
	Date     time.Time
}

type Budget struct {
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	RecommendedBudget decimal.Decimal
}

// Trend maps category to month ("YYYY-MM") to the summed amount. Months and
// categories without transactions are absent.
type Trend map[string]map[string]decimal.Decimal

type Dashboard struct {
	TotalAssetValue     decimal.Decimal
	RecentTransactions  []transactions.Transaction
	UnreadNotifications []notifications.Notification
}
