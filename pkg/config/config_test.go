package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_STORE", "")
	t.Setenv("LOW_STOCK_THRESHOLD", "")
	t.Setenv("DASHBOARD_RECENT_MOVEMENTS", "")
	t.Setenv("CART_TTL_MINUTES", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 5, cfg.Inventory.RecentMovements)
	assert.Equal(t, 12*time.Hour, cfg.Cart.TTL)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("APP_STORE", "memory")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CART_TTL_MINUTES", "30")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.UseMemoryStore())
	assert.Equal(t, 3, cfg.Inventory.LowStockThreshold)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Minute, cfg.Cart.TTL)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss/word", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%2Fword@db:5432/pos?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
