package identity

import (
	"context"
	"testing"
	"time"

	"family-finance-go/internal/db/dbtest"
	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/assets"
	"family-finance-go/internal/domain/documents"
	familydomain "family-finance-go/internal/domain/family"
	domain "family-finance-go/internal/domain/identity"
	"family-finance-go/internal/domain/notifications"
	"family-finance-go/internal/domain/transactions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newUser(id, email string) *domain.User {
	return &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hash",
		Role:         access.RoleFamilyMember,
		IsActive:     true,
	}
}

func TestCreateAndLookup(t *testing.T) {
	repo := NewPostgres(dbtest.Open(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("u-1", "jane@example.com")))

	user, err := repo.GetByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	require.Equal(t, "u-1", user.ID)

	err = repo.Create(ctx, newUser("u-2", "jane@example.com"))
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestUpdateUser(t *testing.T) {
	repo := NewPostgres(dbtest.Open(t))
	ctx := context.Background()

	user := newUser("u-1", "jane@example.com")
	require.NoError(t, repo.Create(ctx, user))

	user.FirstName = "Jane"
	user.IsActive = false
	require.NoError(t, repo.Update(ctx, user))

	stored, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, "Jane", stored.FirstName)
	require.False(t, stored.IsActive)

	require.ErrorIs(t, repo.Update(ctx, newUser("ghost", "ghost@example.com")), domain.ErrUserNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("owner", "owner@example.com")))
	require.NoError(t, repo.Create(ctx, newUser("other", "other@example.com")))

	require.NoError(t, db.Create(&familydomain.Group{ID: "grp-owned", Name: "Owned", AdminID: "owner"}).Error)
	require.NoError(t, db.Create(&familydomain.Group{ID: "grp-other", Name: "Other", AdminID: "other"}).Error)

	ownGrant := familydomain.NewGrant("grp-owned", "other", access.Permissions{access.CategoryAssets: access.LevelRead})
	require.NoError(t, db.Create(&ownGrant).Error)
	elsewhere := familydomain.NewGrant("grp-other", "owner", access.Permissions{access.CategoryAssets: access.LevelRead})
	require.NoError(t, db.Create(&elsewhere).Error)

	require.NoError(t, db.Create(&assets.Asset{ID: "asset-1", GroupID: "grp-owned", Type: assets.TypeProperty, Name: "House", Value: decimal.NewFromInt(1)}).Error)
	require.NoError(t, db.Create(&transactions.Transaction{ID: "tx-1", AssetID: "asset-1", GroupID: "grp-owned", Amount: decimal.NewFromInt(1), Description: "rent", Date: time.Now().UTC()}).Error)
	require.NoError(t, db.Create(&documents.Document{ID: "doc-1", GroupID: "grp-owned", Name: "Deed", FileKey: "documents/grp-owned/doc-1.pdf", ContentType: "application/pdf", Size: 1, Type: documents.TypePolicy}).Error)
	require.NoError(t, db.Create(&notifications.Notification{ID: "n-1", UserID: "owner", Message: "hi", Type: notifications.TypeAlert}).Error)
	require.NoError(t, db.Create(&notifications.Notification{ID: "n-2", UserID: "other", Message: "hi", Type: notifications.TypeAlert}).Error)

	keys, err := repo.Delete(ctx, "owner")
	require.NoError(t, err)
	require.Equal(t, []string{"documents/grp-owned/doc-1.pdf"}, keys)

	counts := map[string]any{
		"groups":        &familydomain.Group{},
		"grants":        &familydomain.Grant{},
		"assets":        &assets.Asset{},
		"transactions":  &transactions.Transaction{},
		"documents":     &documents.Document{},
		"notifications": &notifications.Notification{},
	}
	expected := map[string]int64{
		"groups":        1,
		"grants":        0,
		"assets":        0,
		"transactions":  0,
		"documents":     0,
		"notifications": 1,
	}
	for name, model := range counts {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		require.Equal(t, expected[name], count, name)
	}

	_, err = repo.Delete(ctx, "owner")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
