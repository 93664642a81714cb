package documents

import (
	"context"
	"time"

	"family-finance-go/internal/domain/access"
	domain "family-finance-go/internal/domain/documents"
	"family-finance-go/internal/repository/postgres/pgutil"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, scope access.Scope) ([]domain.Document, error) {
	var items []domain.Document
	query := pgutil.Scoped(r.db.WithContext(ctx), scope, "group_id")
	if err := query.Order("uploaded_at desc").Find(&items).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}
	return items, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var item domain.Document
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, pgutil.Translate(err, domain.ErrDocumentNotFound, nil)
	}
	return &item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, document *domain.Document) error {
	return pgutil.Wrap(r.db.WithContext(ctx).Create(document).Error)
}

func (r *PostgresRepository) Update(ctx context.Context, document *domain.Document) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", document.ID).
		Select("name", "type", "expiry_date", "reminded_at", "updated_at").
		Updates(document)
	if result.Error != nil {
		return pgutil.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *PostgresRepository) ListExpiring(ctx context.Context, from, until time.Time) ([]domain.Document, error) {
	var items []domain.Document
	if err := r.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL AND reminded_at IS NULL").
		Where("expiry_date >= ? AND expiry_date <= ?", from, until).
		Order("expiry_date asc").
		Find(&items).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}
	return items, nil
}

func (r *PostgresRepository) MarkReminded(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", id).
		Update("reminded_at", at)
	if result.Error != nil {
		return pgutil.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
