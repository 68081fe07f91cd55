package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	ledger   *inventory.StockLedgerUseCase
	tracking *memory.TrackingRepo
	product  *entity.Product
	bodega   *entity.StockLocation
	vitrina  *entity.StockLocation
}

// newFixture arma el libro sobre un store en memoria. wrap (opcional) envuelve el runner.
func newFixture(t *testing.T, wrap func(*memory.TxRunner) inventory.TxRunner) *fixture {
	t.Helper()
	store := memory.NewStore()
	var tx inventory.TxRunner = memory.NewTxRunner(store)
	if wrap != nil {
		tx = wrap(memory.NewTxRunner(store))
	}
	f := &fixture{
		ctx:      context.Background(),
		store:    store,
		tracking: memory.NewTrackingRepository(store),
	}
	f.ledger = inventory.NewStockLedgerUseCase(
		tx,
		memory.NewStockItemRepository(store),
		f.tracking,
		memory.NewLocationRepository(store),
		memory.NewSupplierRepository(store),
		logger.Nop(),
		5,
	)

	price := decimal.RequireFromString("2500")
	f.product = &entity.Product{
		ID: uuid.NewString(), Name: "Arroz 500g", SKU: "SKU-ARROZ", Barcode: "7700001", SalePrice: &price,
	}
	require.NoError(t, memory.NewProductRepository(store).Create(f.ctx, f.product))

	locations := memory.NewLocationRepository(store)
	f.bodega = &entity.StockLocation{ID: uuid.NewString(), Name: "Bodega"}
	f.vitrina = &entity.StockLocation{ID: uuid.NewString(), Name: "Vitrina"}
	require.NoError(t, locations.Create(f.ctx, f.bodega))
	require.NoError(t, locations.Create(f.ctx, f.vitrina))
	return f
}

func (f *fixture) createItem(t *testing.T, qty int, location *entity.StockLocation) *entity.StockItem {
	t.Helper()
	in := inventory.CreateStockInput{ProductID: f.product.ID, Quantity: qty, Actor: "cajero-1"}
	if location != nil {
		in.LocationID = &location.ID
	}
	item, err := f.ledger.Create(f.ctx, in)
	require.NoError(t, err)
	return item
}

func (f *fixture) assertConsistent(t *testing.T, id string) inventory.ReconcileResult {
	t.Helper()
	rec, err := f.ledger.Reconcile(f.ctx, id)
	require.NoError(t, err)
	assert.True(t, rec.Consistent(), "cantidad %d, historial %d", rec.Quantity, rec.LedgerQuantity)
	return rec
}

// failingTx envuelve el runner en memoria y hace fallar la escritura indicada
// dentro de la transacción.
type failingTx struct {
	inner      *memory.TxRunner
	failCreate bool
	failApply  int // n-ésimo ApplyMovement que falla (1 = el primero); 0 = ninguno
}

var errInjected = errors.New("fallo inyectado")

func (f *failingTx) Run(ctx context.Context, fn func(repository.StockItemRepository, repository.ProductRepository) error) error {
	return f.inner.Run(ctx, func(s repository.StockItemRepository, p repository.ProductRepository) error {
		return fn(&failingStock{StockItemRepository: s, tx: f}, p)
	})
}

type failingStock struct {
	repository.StockItemRepository
	tx      *failingTx
	applied int
}

func (s *failingStock) Create(ctx context.Context, item *entity.StockItem, entry *entity.StockItemTracking) error {
	if s.tx.failCreate {
		return errInjected
	}
	return s.StockItemRepository.Create(ctx, item, entry)
}

func (s *failingStock) ApplyMovement(ctx context.Context, entry *entity.StockItemTracking) (*entity.StockItem, error) {
	s.applied++
	if s.applied == s.tx.failApply {
		return nil, errInjected
	}
	return s.StockItemRepository.ApplyMovement(ctx, entry)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EscribeFilaADD(t *testing.T) {
	f := newFixture(t, nil)
	item := f.createItem(t, 10, f.bodega)

	assert.Equal(t, 10, item.Quantity)
	require.NotNil(t, item.SalePrice, "hereda el precio del producto")
	assert.True(t, item.SalePrice.Equal(decimal.RequireFromString("2500")))
	assert.Contains(t, item.BatchNumber, "SKU-ARROZ-")

	history, err := f.ledger.History(f.ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.MovementAdd, history[0].MovementType)
	assert.Equal(t, 10, history[0].Quantity)
	require.NotNil(t, history[0].CreatedBy)
	assert.Equal(t, "cajero-1", *history[0].CreatedBy)
	f.assertConsistent(t, item.ID)
}

func TestCreate_CantidadNegativa(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.ledger.Create(f.ctx, inventory.CreateStockInput{ProductID: f.product.ID, Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	recent, err := f.tracking.ListRecent(f.ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent, "un rechazo no escribe historial")
}

func TestCreate_LoteDuplicado(t *testing.T) {
	f := newFixture(t, nil)
	in := inventory.CreateStockInput{ProductID: f.product.ID, Quantity: 3, BatchNumber: "L-001"}
	_, err := f.ledger.Create(f.ctx, in)
	require.NoError(t, err)

	_, err = f.ledger.Create(f.ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicateBatch)

	recent, err := f.tracking.ListRecent(f.ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestCreate_ReferenciasInexistentes(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.ledger.Create(f.ctx, inventory.CreateStockInput{ProductID: uuid.NewString(), Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	missing := uuid.NewString()
	_, err = f.ledger.Create(f.ctx, inventory.CreateStockInput{ProductID: f.product.ID, Quantity: 1, LocationID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_PrecioNegativo(t *testing.T) {
	f := newFixture(t, nil)
	neg := decimal.NewFromInt(-1)
	_, err := f.ledger.Create(f.ctx, inventory.CreateStockInput{ProductID: f.product.ID, Quantity: 1, SalePrice: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestCreate_RedondeaPreciosACentavos(t *testing.T) {
	f := newFixture(t, nil)
	purchase := decimal.RequireFromString("1.234")
	sale := decimal.RequireFromString("2.345")
	item, err := f.ledger.Create(f.ctx, inventory.CreateStockInput{
		ProductID: f.product.ID, Quantity: 1, PurchasePrice: &purchase, SalePrice: &sale,
	})
	require.NoError(t, err)
	require.NotNil(t, item.PurchasePrice)
	require.NotNil(t, item.SalePrice)
	assert.Equal(t, "1.23", item.PurchasePrice.String())
	assert.Equal(t, "2.35", item.SalePrice.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// AdjustQuantity / UpdateAttributes
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustQuantity_IncreaseYDecrease(t *testing.T) {
	f := newFixture(t, nil)
	item := f.createItem(t, 10, nil)

	up, err := f.ledger.AdjustQuantity(f.ctx, item.ID, 15, "conteo", "")
	require.NoError(t, err)
	assert.Equal(t, 15, up.Quantity)

	down, err := f.ledger.AdjustQuantity(f.ctx, item.ID, 12, "", "")
	require.NoError(t, err)
	assert.Equal(t, 12, down.Quantity)

	same, err := f.ledger.AdjustQuantity(f.ctx, item.ID, 12, "", "")
	require.NoError(t, err)
	assert.Equal(t, 12, same.Quantity)

	history, err := f.ledger.History(f.ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 3, "sin cambio no se escribe fila")
	assert.Equal(t, entity.MovementIncrease, history[1].MovementType)
	assert.Equal(t, 5, history[1].Quantity)
	assert.Contains(t, history[1].Notes, "conteo")
	assert.Equal(t, entity.MovementDecrease, history[2].MovementType)
	assert.Equal(t, 3, history[2].Quantity)

	rec := f.assertConsistent(t, item.ID)
	assert.Equal(t, 12, rec.LedgerQuantity)
}

func TestAdjustQuantity_Invalida(t *testing.T) {
	f := newFixture(t, nil)
	item := f.createItem(t, 4, nil)

	_, err := f.ledger.AdjustQuantity(f.ctx, item.ID, -1, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.ledger.AdjustQuantity(f.ctx, uuid.NewString(), 1, "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustQuantity_ACero(t *testing.T) {
	f := newFixture(t, nil)
	item := f.createItem(t, 4, nil)

	zero, err := f.ledger.AdjustQuantity(f.ctx, item.ID, 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, 0, zero.Quantity)
	f.assertConsistent(t, item.ID)
}

func TestUpdateAttributes_NoCambiaCantidad(t *testing.T) {
	f := newFixture(t, nil)
	item := f.createItem(t, 7, f.bodega)

	price := decimal.RequireFromString("3000")
	updated, err := f.ledger.UpdateAttributes(f.ctx, item.ID, inventory.StockAttributes{
		SalePrice:  &price,
		LocationID: &f.vitrina.ID,
	}, "", "")
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)
	require.NotNil(t, updated.LocationID)
	assert.Equal(t, f.vitrina.ID, *updated.LocationID)

	// mismos valores: no escribe nada
	_, err = f.ledger.UpdateAttributes(f.ctx, item.ID, inventory.StockAttributes{SalePrice: &price}, "", "")
	require.NoError(t, err)

	history, err := f.ledger.History(f.ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.MovementUpdate, history[1].MovementType)
	assert.Equal(t, 7, history[1].Quantity)
	f.assertConsistent(t, item.ID)
}

func TestUpdateAttributes_CambioMenorAUnCentavoNoEscribe(t *testing.T) {
	f := newFixture(t, nil)
	item := f.createItem(t, 3, nil)

	almost := decimal.RequireFromString("2500.004")
	updated, err := f.ledger.UpdateAttributes(f.ctx, item.ID, inventory.StockAttributes{
		SalePrice: &almost,
	}, "", "")
	require.NoError(t, err)
	require.NotNil(t, updated.SalePrice)
	assert.True(t, updated.SalePrice.Equal(decimal.NewFromInt(2500)))

	history, err := f.ledger.History(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "sin cambio real no hay fila UPDATE")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_IdaYVueltaConservaUnidades(t *testing.T) {
	f := newFixture(t, nil)
	source := f.createItem(t, 10, f.bodega)

	dest, err := f.ledger.Transfer(f.ctx, source.ID, 4, f.vitrina.ID, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, source.ID, dest.ID, "sin lote en destino se crea uno nuevo")
	assert.Equal(t, 4, dest.Quantity)
	require.NotNil(t, dest.LocationID)
	assert.Equal(t, f.vitrina.ID, *dest.LocationID)

	src, err := f.ledger.Get(f.ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, src.Quantity)

	// vuelta: se suma al lote original de la bodega
	back, err := f.ledger.Transfer(f.ctx, dest.ID, 4, f.bodega.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, source.ID, back.ID)
	assert.Equal(t, 10, back.Quantity)

	emptied, err := f.ledger.Get(f.ctx, dest.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, emptied.Quantity)

	f.assertConsistent(t, source.ID)
	f.assertConsistent(t, dest.ID)

	history, err := f.ledger.History(f.ctx, source.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entity.MovementTransfer, history[1].MovementType)
	require.NotNil(t, history[1].LocationFromID)
	assert.Equal(t, f.bodega.ID, *history[1].LocationFromID)
	assert.Equal(t, entity.MovementIncrease, history[2].MovementType)
}

func TestTransfer_Rechazos(t *testing.T) {
	f := newFixture(t, nil)
	item := f.createItem(t, 3, f.bodega)

	_, err := f.ledger.Transfer(f.ctx, item.ID, 4, f.vitrina.ID, "", "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.ledger.Transfer(f.ctx, item.ID, 0, f.vitrina.ID, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.ledger.Transfer(f.ctx, item.ID, 1, f.bodega.ID, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.Transfer(f.ctx, item.ID, 1, uuid.NewString(), "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.ledger.Get(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	f.assertConsistent(t, item.ID)
}

func TestTransfer_FallaEntradaDestino_NoEscribeNada(t *testing.T) {
	var tx *failingTx
	f := newFixture(t, func(inner *memory.TxRunner) inventory.TxRunner {
		tx = &failingTx{inner: inner}
		return tx
	})
	source := f.createItem(t, 10, f.bodega)

	tx.failCreate = true
	_, err := f.ledger.Transfer(f.ctx, source.ID, 4, f.vitrina.ID, "", "")
	require.ErrorIs(t, err, errInjected)

	got, err := f.ledger.Get(f.ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity, "la salida del origen se deshace")

	recent, err := f.tracking.ListRecent(f.ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1, "solo la fila ADD original")
	f.assertConsistent(t, source.ID)
}

func TestAdjustQuantity_FallaEscritura_Rollback(t *testing.T) {
	store := memory.NewStore()
	tx := &failingTx{inner: memory.NewTxRunner(store)}
	ctx := context.Background()
	ledger := inventory.NewStockLedgerUseCase(tx, memory.NewStockItemRepository(store), memory.NewTrackingRepository(store),
		memory.NewLocationRepository(store), memory.NewSupplierRepository(store), nil, 0)
	p := &entity.Product{ID: uuid.NewString(), Name: "Sal", SKU: "SKU-SAL"}
	require.NoError(t, memory.NewProductRepository(store).Create(ctx, p))
	item, err := ledger.Create(ctx, inventory.CreateStockInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	tx.failApply = 1
	_, err = ledger.AdjustQuantity(ctx, item.ID, 9, "", "")
	require.ErrorIs(t, err, errInjected)

	got, err := ledger.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, inventory.DefaultLowStockThreshold, ledger.LowStockThreshold())
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete / LowStock / fold
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_ConservaHistorial(t *testing.T) {
	f := newFixture(t, nil)
	item := f.createItem(t, 4, f.bodega)

	require.NoError(t, f.ledger.Delete(f.ctx, item.ID, "admin"))

	_, err := f.ledger.Get(f.ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	recent, err := f.tracking.ListRecent(f.ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	removal := recent[0]
	assert.Equal(t, entity.MovementRemove, removal.MovementType)
	assert.Equal(t, 4, removal.Quantity)
	assert.Nil(t, removal.StockItemID, "la referencia queda en NULL")
	assert.Contains(t, removal.Notes, item.BatchNumber)
	assert.Nil(t, recent[1].StockItemID)

	assert.ErrorIs(t, f.ledger.Delete(f.ctx, item.ID, ""), domain.ErrNotFound)
}

func TestLowStock_PorLote(t *testing.T) {
	f := newFixture(t, nil)
	low := f.createItem(t, 2, nil)
	f.createItem(t, 50, nil)
	zero := f.createItem(t, 0, nil)

	items, err := f.ledger.LowStock(f.ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, zero.ID, items[0].ID)
	assert.Equal(t, low.ID, items[1].ID)
}

func TestFold_CoincideTrasSecuenciaMixta(t *testing.T) {
	f := newFixture(t, nil)
	a := f.createItem(t, 20, f.bodega)

	_, err := f.ledger.AdjustQuantity(f.ctx, a.ID, 25, "", "")
	require.NoError(t, err)
	b, err := f.ledger.Transfer(f.ctx, a.ID, 8, f.vitrina.ID, "", "")
	require.NoError(t, err)
	_, err = f.ledger.AdjustQuantity(f.ctx, b.ID, 6, "", "")
	require.NoError(t, err)
	exp := time.Now().AddDate(0, 6, 0)
	_, err = f.ledger.UpdateAttributes(f.ctx, a.ID, inventory.StockAttributes{ExpirationDate: &exp}, "", "")
	require.NoError(t, err)

	recA := f.assertConsistent(t, a.ID)
	recB := f.assertConsistent(t, b.ID)
	assert.Equal(t, 17, recA.Quantity)
	assert.Equal(t, 6, recB.Quantity)
}
