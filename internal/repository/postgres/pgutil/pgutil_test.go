package pgutil

import (
	"errors"
	"fmt"
	"testing"

	"family-finance-go/internal/db/dbtest"
	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/apperr"
	"family-finance-go/internal/domain/assets"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	errThingNotFound = apperr.NotFound("thing")
	errThingTaken    = apperr.Conflict("thing exists")
)

func TestTranslate(t *testing.T) {
	require.NoError(t, Translate(nil, errThingNotFound, errThingTaken))
	require.ErrorIs(t, Translate(gorm.ErrRecordNotFound, errThingNotFound, nil), errThingNotFound)
	require.ErrorIs(t, Translate(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), nil, errThingTaken), errThingTaken)

	malformed := &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}
	require.ErrorIs(t, Translate(fmt.Errorf("select: %w", malformed), errThingNotFound, nil), errThingNotFound)
	require.True(t, IsInvalidID(fmt.Errorf("count: %w", malformed)))
	require.False(t, IsInvalidID(&pgconn.PgError{Code: "23505"}))

	err := Translate(errors.New("connection refused"), errThingNotFound, errThingTaken)
	require.ErrorIs(t, err, apperr.ErrStorageUnavailable)
	require.Contains(t, err.Error(), "connection refused")

	// Without a notFound mapping a missing row is a storage failure.
	require.ErrorIs(t, Translate(gorm.ErrRecordNotFound, nil, nil), apperr.ErrStorageUnavailable)
}

func TestWrapKeepsDomainKinds(t *testing.T) {
	require.ErrorIs(t, Wrap(errThingNotFound), apperr.ErrNotFound)
	require.NotErrorIs(t, Wrap(errThingNotFound), apperr.ErrStorageUnavailable)
	require.ErrorIs(t, Wrap(apperr.Validation("name", "required")), apperr.ErrValidation)
	require.ErrorIs(t, Wrap(errors.New("boom")), apperr.ErrStorageUnavailable)
	require.NoError(t, Wrap(nil))
}

func TestScoped(t *testing.T) {
	db := dbtest.Open(t)
	for _, item := range []assets.Asset{
		{ID: "a-1", GroupID: "grp-1", Type: assets.TypeBankAccount, Name: "One", Value: decimal.NewFromInt(1)},
		{ID: "a-2", GroupID: "grp-2", Type: assets.TypeBankAccount, Name: "Two", Value: decimal.NewFromInt(2)},
	} {
		require.NoError(t, db.Create(&item).Error)
	}

	count := func(scope access.Scope) int64 {
		var n int64
		require.NoError(t, Scoped(db.Model(&assets.Asset{}), scope, "group_id").Count(&n).Error)
		return n
	}

	require.Equal(t, int64(2), count(access.Scope{All: true}))
	require.Equal(t, int64(1), count(access.Scope{GroupIDs: []string{"grp-2"}}))
	require.Equal(t, int64(0), count(access.Scope{}))
}
