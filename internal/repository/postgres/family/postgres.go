package family

import (
	"context"
	"errors"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/apperr"
	familydomain "family-finance-go/internal/domain/family"
	"family-finance-go/internal/domain/identity"
	"family-finance-go/internal/repository/postgres/cascade"
	"family-finance-go/internal/repository/postgres/pgutil"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
	return pgutil.Wrap(err)
}

func (r *PostgresRepository) GetGroup(ctx context.Context, id string) (*familydomain.Group, error) {
	var group familydomain.Group
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		return nil, pgutil.Translate(err, familydomain.ErrGroupNotFound, nil)
	}
	return &group, nil
}

func (r *PostgresRepository) ListGroups(ctx context.Context) ([]familydomain.Group, error) {
	var groups []familydomain.Group
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&groups).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}
	return groups, nil
}

func (r *PostgresRepository) ListGroupsForUser(ctx context.Context, userID string) ([]familydomain.Group, error) {
	granted := r.db.Model(&familydomain.Grant{}).Select("group_id").Where("user_id = ?", userID)

	var groups []familydomain.Group
	if err := r.db.WithContext(ctx).
		Where("admin_id = ? OR id IN (?)", userID, granted).
		Order("created_at asc").
		Find(&groups).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}
	return groups, nil
}

func (r *PostgresRepository) CreateGroup(ctx context.Context, group *familydomain.Group) error {
	err := r.db.WithContext(ctx).Create(group).Error
	return pgutil.Translate(err, nil, apperr.Conflict("family group already exists"))
}

func (r *PostgresRepository) UpdateGroupName(ctx context.Context, id, name string) error {
	result := r.db.WithContext(ctx).
		Model(&familydomain.Group{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return pgutil.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrGroupNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteGroup(ctx context.Context, id string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		keys, err = cascade.DocumentKeys(tx, []string{id})
		if err != nil {
			return err
		}
		removed, err := cascade.PurgeGroups(tx, []string{id})
		if err != nil {
			return err
		}
		if removed == 0 {
			return familydomain.ErrGroupNotFound
		}
		return nil
	})
	if err != nil {
		return nil, pgutil.Wrap(err)
	}
	return keys, nil
}

func (r *PostgresRepository) GetGrant(ctx context.Context, groupID, userID string) (*familydomain.Grant, error) {
	var grant familydomain.Grant
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&grant).Error; err != nil {
		return nil, pgutil.Translate(err, familydomain.ErrGrantNotFound, nil)
	}
	return &grant, nil
}

func (r *PostgresRepository) ListGrants(ctx context.Context, groupID string) ([]familydomain.Grant, error) {
	var grants []familydomain.Grant
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at asc").
		Find(&grants).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}
	return grants, nil
}

func (r *PostgresRepository) ListGrantsByUser(ctx context.Context, userID string) ([]familydomain.Grant, error) {
	var grants []familydomain.Grant
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&grants).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}
	return grants, nil
}

// UpsertGrant inserts or replaces the (group, user) grant in one statement and
// reloads the stored row.
func (r *PostgresRepository) UpsertGrant(ctx context.Context, grant *familydomain.Grant) error {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"permissions", "updated_at"}),
	}).Create(grant).Error
	if err != nil {
		return pgutil.Wrap(err)
	}

	err = db.Where("group_id = ? AND user_id = ?", grant.GroupID, grant.UserID).First(grant).Error
	return pgutil.Translate(err, familydomain.ErrGrantNotFound, nil)
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

// GrantPermissions implements access.GrantSource. It always reads the store.
func (r *PostgresRepository) GrantPermissions(ctx context.Context, userID, groupID string) (access.Permissions, bool, error) {
	grant, err := r.GetGrant(ctx, groupID, userID)
	if errors.Is(err, familydomain.ErrGrantNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return grant.Levels(), true, nil
}

func (r *PostgresRepository) GrantsByUser(ctx context.Context, userID string) (map[string]access.Permissions, error) {
	grants, err := r.ListGrantsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make(map[string]access.Permissions, len(grants))
	for _, grant := range grants {
		result[grant.GroupID] = grant.Levels()
	}
	return result, nil
}
