package transactions

import (
	"context"
	"testing"
	"time"

	"family-finance-go/internal/db/dbtest"
	"family-finance-go/internal/domain/access"
	domain "family-finance-go/internal/domain/transactions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCreateGetAndUpdate(t *testing.T) {
	repo := NewPostgres(dbtest.Open(t))
	ctx := context.Background()

	item := &domain.Transaction{
		ID:          "tx-1",
		AssetID:     "asset-1",
		GroupID:     "grp-1",
		Amount:      decimal.RequireFromString("-42.50"),
		Description: "Groceries",
		Date:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, item))

	loaded, err := repo.GetByID(ctx, "tx-1")
	require.NoError(t, err)
	require.True(t, loaded.Amount.Equal(decimal.RequireFromString("-42.5")))
	require.False(t, loaded.IsUnusual)

	category := "food"
	loaded.Category = &category
	loaded.IsUnusual = true
	require.NoError(t, repo.Update(ctx, loaded))

	reloaded, err := repo.GetByID(ctx, "tx-1")
	require.NoError(t, err)
	require.True(t, reloaded.IsUnusual)
	require.Equal(t, "food", *reloaded.Category)
	require.Equal(t, "grp-1", reloaded.GroupID)

	_, err = repo.GetByID(ctx, "tx-404")
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	ghost := *loaded
	ghost.ID = "tx-404"
	require.ErrorIs(t, repo.Update(ctx, &ghost), domain.ErrTransactionNotFound)
}

func TestListNewestFirstWithinScope(t *testing.T) {
	repo := NewPostgres(dbtest.Open(t))
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, groupID := range []string{"grp-1", "grp-1", "grp-2"} {
		require.NoError(t, repo.Create(ctx, &domain.Transaction{
			ID:          []string{"old", "new", "other"}[i],
			AssetID:     "asset-" + groupID,
			GroupID:     groupID,
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Description: "entry",
			Date:        base.AddDate(0, i, 0),
		}))
	}

	items, err := repo.List(ctx, access.Scope{GroupIDs: []string{"grp-1"}})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "new", items[0].ID)
	require.Equal(t, "old", items[1].ID)
}
