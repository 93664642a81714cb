package identity

import (
	"context"
	"strings"

	familydomain "family-finance-go/internal/domain/family"
	domain "family-finance-go/internal/domain/identity"
	"family-finance-go/internal/domain/notifications"
	"family-finance-go/internal/repository/postgres/cascade"
	"family-finance-go/internal/repository/postgres/pgutil"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
	return pgutil.Wrap(err)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, pgutil.Translate(err, domain.ErrUserNotFound, nil)
	}
	return &user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		return nil, pgutil.Translate(err, domain.ErrUserNotFound, nil)
	}
	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	return pgutil.Translate(err, nil, domain.ErrEmailTaken)
}

func (r *PostgresRepository) Update(ctx context.Context, user *domain.User) error {
	result := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", user.ID).
		Select("first_name", "last_name", "password_hash", "role", "is_active", "updated_at").
		Updates(user)
	if result.Error != nil {
		return pgutil.Translate(result.Error, nil, domain.ErrEmailTaken)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes the user, the groups they administer with everything inside
// them, their grants elsewhere and their notifications.
func (r *PostgresRepository) Delete(ctx context.Context, id string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []string
		if err := tx.Model(&familydomain.Group{}).Where("admin_id = ?", id).Pluck("id", &owned).Error; err != nil {
			return err
		}

		var err error
		keys, err = cascade.DocumentKeys(tx, owned)
		if err != nil {
			return err
		}
		if _, err := cascade.PurgeGroups(tx, owned); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&familydomain.Grant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&notifications.Notification{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&domain.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, pgutil.Wrap(err)
	}
	return keys, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error; err != nil {
		return 0, pgutil.Wrap(err)
	}
	return count, nil
}
