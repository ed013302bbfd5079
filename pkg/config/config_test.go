package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Variables vacías cuentan como no definidas.
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("LEDGER_APPROVAL_POLICY", "")
	t.Setenv("HTTP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "auto", cfg.Ledger.ApprovalPolicy)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "FAC", cfg.Ledger.InvoicePrefix)
	assert.True(t, cfg.DB.Migrate)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LEDGER_APPROVAL_POLICY", "MANUAL")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("LEDGER_INVOICE_PREFIX", "POS")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "manual", cfg.Ledger.ApprovalPolicy)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.DB.Migrate)
	assert.Equal(t, "POS", cfg.Ledger.InvoicePrefix)
	assert.Equal(t, "DEV", cfg.Ledger.ReturnPrefix)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("LEDGER_APPROVAL_POLICY", "auto")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/ledger?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestHTTPConfig_Addr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8080", HTTPConfig{Host: "0.0.0.0", Port: 8080}.Addr())
}
