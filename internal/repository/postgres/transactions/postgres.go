package transactions

import (
	"context"

	"family-finance-go/internal/domain/access"
	domain "family-finance-go/internal/domain/transactions"
	"family-finance-go/internal/repository/postgres/pgutil"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, scope access.Scope) ([]domain.Transaction, error) {
	var items []domain.Transaction
	query := pgutil.Scoped(r.db.WithContext(ctx), scope, "group_id")
	if err := query.Order("date desc").Order("created_at desc").Find(&items).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}
	return items, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var item domain.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, pgutil.Translate(err, domain.ErrTransactionNotFound, nil)
	}
	return &item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	return pgutil.Wrap(r.db.WithContext(ctx).Create(transaction).Error)
}

func (r *PostgresRepository) Update(ctx context.Context, transaction *domain.Transaction) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id = ?", transaction.ID).
		Select("amount", "category", "description", "date", "is_unusual", "updated_at").
		Updates(transaction)
	if result.Error != nil {
		return pgutil.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}
