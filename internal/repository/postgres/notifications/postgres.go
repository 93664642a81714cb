package notifications

import (
	"context"

	"family-finance-go/internal/domain/identity"
	domain "family-finance-go/internal/domain/notifications"
	"family-finance-go/internal/repository/postgres/pgutil"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var items []domain.Notification
	if err := query.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}
	return items, nil
}

func (r *PostgresRepository) GetForUser(ctx context.Context, id, userID string) (*domain.Notification, error) {
	var item domain.Notification
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error; err != nil {
		return nil, pgutil.Translate(err, domain.ErrNotificationNotFound, nil)
	}
	return &item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return pgutil.Wrap(r.db.WithContext(ctx).Create(notification).Error)
}

func (r *PostgresRepository) SetRead(ctx context.Context, id, userID string, read bool) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", read)
	if result.Error != nil {
		return pgutil.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		if pgutil.IsInvalidID(err) {
			return false, nil
		}
		return false, pgutil.Wrap(err)
	}
	return count > 0, nil
}
