package cartstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/cart"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/cartstore"
	"github.com/jhoicas/pos-inventario/pkg/config"
)

// ── Comportamiento común ─────────────────────────────────────────────────────

func exerciseStore(t *testing.T, store cart.Store) {
	ctx := context.Background()
	session := "sesion-" + uuid.New().String()

	c, err := store.Load(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, session, c.SessionID)
	assert.Empty(t, c.Lines)

	price := decimal.RequireFromString("2.50")
	c.Lines = append(c.Lines, &entity.CartLine{StockItemID: "lote-1", Quantity: 3, SalePrice: &price})
	require.NoError(t, store.Save(ctx, c))

	// La copia devuelta no comparte estado con lo guardado.
	c.Lines[0].Quantity = 99

	got, err := store.Load(ctx, session)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 3, got.Lines[0].Quantity)
	assert.True(t, got.Total().Equal(decimal.RequireFromString("7.50")))

	require.NoError(t, store.Delete(ctx, session))
	got, err = store.Load(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func exerciseLock(t *testing.T, store cart.Store) {
	ctx := context.Background()
	session := "sesion-" + uuid.New().String()

	unlock, err := store.Lock(ctx, session)
	require.NoError(t, err)

	_, err = store.Lock(ctx, session)
	assert.ErrorIs(t, err, domain.ErrConflict, "la segunda petición no obtiene el candado")

	require.NoError(t, unlock(ctx))
	unlock2, err := store.Lock(ctx, session)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

// ── Memoria ──────────────────────────────────────────────────────────────────

func TestMemoryStore_GuardaYCarga(t *testing.T) {
	exerciseStore(t, cartstore.NewMemoryStore(0))
}

func TestMemoryStore_CandadoPorSesion(t *testing.T) {
	exerciseLock(t, cartstore.NewMemoryStore(20*time.Millisecond))
}

func TestMemoryStore_SesionesIndependientes(t *testing.T) {
	store := cartstore.NewMemoryStore(20 * time.Millisecond)
	ctx := context.Background()

	unlockA, err := store.Lock(ctx, "a")
	require.NoError(t, err)
	unlockB, err := store.Lock(ctx, "b")
	require.NoError(t, err, "otra sesión no espera")
	require.NoError(t, unlockA(ctx))
	require.NoError(t, unlockB(ctx))
}

func TestMemoryStore_UnlockDobleNoBloquea(t *testing.T) {
	store := cartstore.NewMemoryStore(20 * time.Millisecond)
	ctx := context.Background()

	unlock, err := store.Lock(ctx, "s")
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx))

	again, err := store.Lock(ctx, "s")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestMemoryStore_LockRespetaContexto(t *testing.T) {
	store := cartstore.NewMemoryStore(time.Minute)
	unlock, err := store.Lock(context.Background(), "s")
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Lock(ctx, "s")
	assert.ErrorIs(t, err, context.Canceled)
}

// ── Redis (requiere POS_TEST_REDIS_ADDR) ─────────────────────────────────────

func redisStore(t *testing.T) *cartstore.RedisStore {
	t.Helper()
	addr := os.Getenv("POS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("POS_TEST_REDIS_ADDR no definido")
	}
	rdb, err := cartstore.NewRedisClient(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return cartstore.NewRedisStore(rdb, time.Minute)
}

func TestRedisStore_GuardaYCarga(t *testing.T) {
	exerciseStore(t, redisStore(t))
}

func TestRedisStore_CandadoPorSesion(t *testing.T) {
	exerciseLock(t, redisStore(t))
}
