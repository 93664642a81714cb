// Package dbtest opens throwaway SQLite databases carrying the full schema.
package dbtest

import (
	"testing"

	"family-finance-go/internal/domain/assets"
	"family-finance-go/internal/domain/documents"
	"family-finance-go/internal/domain/family"
	"family-finance-go/internal/domain/identity"
	"family-finance-go/internal/domain/notifications"
	"family-finance-go/internal/domain/transactions"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&identity.User{},
		&family.Group{},
		&family.Grant{},
		&assets.Asset{},
		&transactions.Transaction{},
		&documents.Document{},
		&notifications.Notification{},
	}
}

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

// FailQueries makes every subsequent SELECT on db fail with err, standing in
// for driver errors SQLite never produces.
func FailQueries(t *testing.T, db *gorm.DB, err error) {
	t.Helper()
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("dbtest:fail_queries", func(tx *gorm.DB) {
		_ = tx.AddError(err)
	}))
}
