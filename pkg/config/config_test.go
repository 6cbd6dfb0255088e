package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.App.Store)
	assert.Equal(t, 15*time.Minute, cfg.Inventory.ReservationTTL)
	assert.Equal(t, time.Minute, cfg.Inventory.ReservationSweepInterval)
	assert.False(t, cfg.Inventory.DeferredAdjustmentComplete)
	assert.Equal(t, 5000, cfg.DB.LockTimeoutMS)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_STORE", "memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("INVENTORY_RESERVATION_TTL_SECONDS", "120")
	t.Setenv("INVENTORY_DEFERRED_ADJUSTMENT_COMPLETION", "true")
	t.Setenv("DB_LOCK_TIMEOUT_MS", "250")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.App.Store)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Minute, cfg.Inventory.ReservationTTL)
	assert.True(t, cfg.Inventory.DeferredAdjustmentComplete)
	assert.Equal(t, 250, cfg.DB.LockTimeoutMS)
}

func TestLoad_Invalidos(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_STORE", "redis")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("APP_STORE", "memory")
	t.Setenv("INVENTORY_RESERVATION_TTL_SECONDS", "0")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/inv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://x@y/z"
	assert.Equal(t, "postgresql://x@y/z", c.ConnectionString())
}
