package assets

import (
	"context"

	"family-finance-go/internal/domain/access"
	domain "family-finance-go/internal/domain/assets"
	"family-finance-go/internal/repository/postgres/pgutil"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, scope access.Scope) ([]domain.Asset, error) {
	var items []domain.Asset
	query := pgutil.Scoped(r.db.WithContext(ctx), scope, "group_id")
	if err := query.Order("name asc").Order("id asc").Find(&items).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}
	return items, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	var asset domain.Asset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, pgutil.Translate(err, domain.ErrAssetNotFound, nil)
	}
	return &asset, nil
}

func (r *PostgresRepository) Create(ctx context.Context, asset *domain.Asset) error {
	return pgutil.Wrap(r.db.WithContext(ctx).Create(asset).Error)
}

func (r *PostgresRepository) Update(ctx context.Context, asset *domain.Asset) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Asset{}).
		Where("id = ?", asset.ID).
		Select("type", "name", "value", "api_source", "last_updated").
		Updates(asset)
	if result.Error != nil {
		return pgutil.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}
