package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-inventario/pkg/config"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

// openPool abre la base indicada en POS_TEST_DATABASE_URL y aplica las migraciones.
// Sin la variable el test se omite.
func openPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("POS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("POS_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

type fixture struct {
	pool   *pgxpool.Pool
	ledger *inventory.StockLedgerUseCase
	sales  *sales.SaleUseCase
	items  *postgres.StockItemRepo
	track  *postgres.TrackingRepo
}

func newFixture(t *testing.T) fixture {
	pool := openPool(t)
	tx := postgres.NewTxRunner(pool)
	items := postgres.NewStockItemRepository(pool)
	track := postgres.NewTrackingRepository(pool)
	ledger := inventory.NewStockLedgerUseCase(tx, items, track,
		postgres.NewLocationRepository(pool), postgres.NewSupplierRepository(pool), nil, 0)
	return fixture{
		pool:   pool,
		ledger: ledger,
		sales:  sales.NewSaleUseCase(tx, ledger, postgres.NewSaleRepository(pool), nil),
		items:  items,
		track:  track,
	}
}

func (f fixture) product(t *testing.T) *entity.Product {
	price := decimal.RequireFromString("2.00")
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      "Alimento perro",
		SKU:       "SKU-" + uuid.New().String()[:8],
		Barcode:   "BAR-" + uuid.New().String()[:10],
		SalePrice: &price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, postgres.NewProductRepository(f.pool).Create(context.Background(), p))
	return p
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestPostgres_LibroCuadraTrasOperaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t)

	item, err := f.ledger.Create(ctx, inventory.CreateStockInput{ProductID: p.ID, Quantity: 10})
	require.NoError(t, err)
	_, err = f.ledger.AdjustQuantity(ctx, item.ID, 7, "", "")
	require.NoError(t, err)
	_, err = f.sales.CreateSale(ctx, sales.CreateSaleInput{
		Lines: []sales.SaleLine{{StockItemID: item.ID, Quantity: 3, UnitPrice: decimal.RequireFromString("2.00")}},
	})
	require.NoError(t, err)

	rec, err := f.ledger.Reconcile(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent())
	assert.Equal(t, 4, rec.Quantity)
	assert.Equal(t, 3, rec.Entries)
}

func TestPostgres_ApplyMovementNoDejaNegativo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t)

	item, err := f.ledger.Create(ctx, inventory.CreateStockInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	id := item.ID
	_, err = f.items.ApplyMovement(ctx, &entity.StockItemTracking{
		ID: uuid.New().String(), StockItemID: &id, MovementType: entity.MovementRemove,
		Quantity: 3, CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	history, err := f.track.ListByStockItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "solo la fila ADD")
}

func TestPostgres_VentasConcurrentesNoSobrevenden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t)

	item, err := f.ledger.Create(ctx, inventory.CreateStockInput{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sales.CreateSale(ctx, sales.CreateSaleInput{
				Lines: []sales.SaleLine{{StockItemID: item.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("2.00")}},
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	got, err := f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestPostgres_BorrarLoteConservaHistorial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t)

	item, err := f.ledger.Create(ctx, inventory.CreateStockInput{ProductID: p.ID, Quantity: 4})
	require.NoError(t, err)
	before, err := f.track.ListByStockItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, before, 1)

	require.NoError(t, f.ledger.Delete(ctx, item.ID, ""))

	got, err := f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var ref *string
	err = f.pool.QueryRow(ctx, `SELECT stock_item_id FROM stock_item_tracking WHERE id = $1`, before[0].ID).Scan(&ref)
	require.NoError(t, err)
	assert.Nil(t, ref, "la fila ADD sigue existiendo sin lote")

	var removed int
	err = f.pool.QueryRow(ctx, `
		SELECT quantity FROM stock_item_tracking
		WHERE stock_item_id IS NULL AND movement_type = 'stock_removed' AND notes LIKE '%' || $1 || '%'`,
		item.BatchNumber).Scan(&removed)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)
}
