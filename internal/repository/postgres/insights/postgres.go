package insights

import (
	"context"
	"time"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/assets"
	domain "family-finance-go/internal/domain/insights"
	"family-finance-go/internal/domain/transactions"
	"family-finance-go/internal/repository/postgres/pgutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// TransactionAmounts loads the raw rows; sums are taken in Go so they stay exact
// on every driver.
func (r *PostgresRepository) TransactionAmounts(ctx context.Context, scope access.Scope) ([]domain.AmountRow, error) {
	var rows []struct {
		Amount   decimal.Decimal `gorm:"column:amount"`
		Category *string         `gorm:"column:category"`
		Date     time.Time       `gorm:"column:date"`
	}

	query := pgutil.Scoped(r.db.WithContext(ctx).Model(&transactions.Transaction{}), scope, "group_id")
	if err := query.Select("amount, category, date").Order("date asc").Scan(&rows).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}

	result := make([]domain.AmountRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.AmountRow{
			Amount:   row.Amount,
			Category: row.Category,
			Date:     row.Date,
		})
	}
	return result, nil
}

func (r *PostgresRepository) AssetValues(ctx context.Context, scope access.Scope) ([]decimal.Decimal, error) {
	var values []decimal.Decimal
	query := pgutil.Scoped(r.db.WithContext(ctx).Model(&assets.Asset{}), scope, "group_id")
	if err := query.Pluck("value", &values).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}
	return values, nil
}

func (r *PostgresRepository) RecentTransactions(ctx context.Context, scope access.Scope, limit int) ([]transactions.Transaction, error) {
	var items []transactions.Transaction
	query := pgutil.Scoped(r.db.WithContext(ctx), scope, "group_id")
	if err := query.Order("date desc").Order("created_at desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}
	return items, nil
}
