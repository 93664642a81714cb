package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"family-finance-go/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.HTTPPort)
	require.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	require.True(t, cfg.Insights.BudgetRatio.Equal(decimal.RequireFromString("0.8")))
	require.Equal(t, devJWTSecret, cfg.Auth.JWTSecret)
	require.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
}

func TestLoadRequiresSecretOutsideDevelopment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load(logger.NewNop())
	require.Error(t, err)
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := chdirTemp(t)
	content := "JWT_SECRET=from-file\nHTTP_PORT=9090\nBUDGET_RATIO=0.75\nCORS_ALLOWED_ORIGINS=https://a.test, https://b.test\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	t.Setenv("ENV", "production")
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BUDGET_RATIO", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	// t.Setenv with an empty value still counts as set; drop them so the file applies.
	for _, key := range []string{"JWT_SECRET", "BUDGET_RATIO", "CORS_ALLOWED_ORIGINS"} {
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)
	require.Equal(t, "7070", cfg.HTTPPort)
	require.Equal(t, "from-file", cfg.Auth.JWTSecret)
	require.True(t, cfg.Insights.BudgetRatio.Equal(decimal.RequireFromString("0.75")))
	require.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoadRejectsUnknownStorageDriver(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENV", "development")
	t.Setenv("STORAGE_DRIVER", "ftp")

	_, err := Load(logger.NewNop())
	require.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	cfg := DBConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", TimeZone: "UTC"}
	require.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.GetDSN())

	cfg.DSN = "postgres://override"
	require.Equal(t, "postgres://override", cfg.GetDSN())
}
