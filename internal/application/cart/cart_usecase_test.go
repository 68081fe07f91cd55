package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/cart"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/cartstore"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	ctx      context.Context
	stock    *memory.StockItemRepo
	products *memory.ProductRepo
	ledger   *inventory.StockLedgerUseCase
	sales    *sales.SaleUseCase
	cart     *cart.CartUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	stockRepo := memory.NewStockItemRepository(store)
	f := &fixture{ctx: context.Background(), stock: stockRepo, products: memory.NewProductRepository(store)}
	f.ledger = inventory.NewStockLedgerUseCase(runner, stockRepo, memory.NewTrackingRepository(store),
		memory.NewLocationRepository(store), memory.NewSupplierRepository(store), logger.Nop(), 0)
	f.sales = sales.NewSaleUseCase(runner, f.ledger, memory.NewSaleRepository(store), logger.Nop())
	f.cart = cart.NewCartUseCase(stockRepo, f.products, f.sales, cartstore.NewMemoryStore(0), logger.Nop())
	return f
}

func (f *fixture) product(t *testing.T, barcode, salePrice string) *entity.Product {
	t.Helper()
	p := &entity.Product{ID: uuid.NewString(), Name: "Producto " + barcode, SKU: "SKU-" + barcode, Barcode: barcode}
	if salePrice != "" {
		d := decimal.RequireFromString(salePrice)
		p.SalePrice = &d
	}
	require.NoError(t, f.products.Create(f.ctx, p))
	return p
}

func (f *fixture) batch(t *testing.T, p *entity.Product, qty int) *entity.StockItem {
	t.Helper()
	item, err := f.ledger.Create(f.ctx, inventory.CreateStockInput{ProductID: p.ID, Quantity: qty})
	require.NoError(t, err)
	return item
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	item, err := f.ledger.Get(f.ctx, id)
	require.NoError(t, err)
	return item.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// AddItem
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_MismoCodigoAcumulaEnUnaLinea(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "7701", "2.00")
	item := f.batch(t, p, 10)
	c := entity.NewCart("s1")

	_, err := f.cart.AddItem(f.ctx, c, "7701", 2)
	require.NoError(t, err)
	line, err := f.cart.AddItem(f.ctx, c, "7701", 2)
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 4, line.Quantity)
	assert.Equal(t, item.ID, line.StockItemID)
	assert.Equal(t, 10, line.AvailableQuantity)
	assert.True(t, c.Total().Equal(decimal.RequireFromString("8")))
	assert.Equal(t, 4, c.ItemCount())
}

func TestAddItem_LoteMasAntiguoConStockSuficiente(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "7702", "1")
	old := f.batch(t, p, 1)
	newer := f.batch(t, p, 10)

	c := entity.NewCart("s1")
	line, err := f.cart.AddItem(f.ctx, c, "7702", 1)
	require.NoError(t, err)
	assert.Equal(t, old.ID, line.StockItemID)

	other := entity.NewCart("s2")
	line, err = f.cart.AddItem(f.ctx, other, "7702", 2)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, line.StockItemID, "el lote antiguo no alcanza")
}

func TestAddItem_Rechazos(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "7703", "1")
	f.batch(t, p, 5)
	c := entity.NewCart("s1")

	_, err := f.cart.AddItem(f.ctx, c, "no-existe", 1)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	_, err = f.cart.AddItem(f.ctx, c, "7703", 6)
	assert.ErrorIs(t, err, domain.ErrOutOfStock, "ningún lote tiene 6")

	_, err = f.cart.AddItem(f.ctx, c, "7703", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.cart.AddItem(f.ctx, c, "7703", 3)
	require.NoError(t, err)
	_, err = f.cart.AddItem(f.ctx, c, "7703", 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, c.Lines[0].Quantity, "la línea no cambia tras el rechazo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición de líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateQuantity(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "7704", "1")
	item := f.batch(t, p, 5)
	c := entity.NewCart("s1")
	_, err := f.cart.AddItem(f.ctx, c, "7704", 1)
	require.NoError(t, err)

	require.NoError(t, f.cart.UpdateQuantity(f.ctx, c, item.ID, 5))
	assert.Equal(t, 5, c.Lines[0].Quantity)

	assert.ErrorIs(t, f.cart.UpdateQuantity(f.ctx, c, item.ID, 6), domain.ErrInsufficientStock)
	assert.ErrorIs(t, f.cart.UpdateQuantity(f.ctx, c, item.ID, 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, f.cart.UpdateQuantity(f.ctx, c, uuid.NewString(), 1), domain.ErrItemNotFound)
	assert.Equal(t, 5, c.Lines[0].Quantity)
}

func TestRemoveItemYClear(t *testing.T) {
	f := newFixture(t)
	a := f.batch(t, f.product(t, "7705", "1"), 5)
	f.batch(t, f.product(t, "7706", "1"), 5)
	c := entity.NewCart("s1")
	_, err := f.cart.AddItem(f.ctx, c, "7705", 1)
	require.NoError(t, err)
	_, err = f.cart.AddItem(f.ctx, c, "7706", 1)
	require.NoError(t, err)

	f.cart.RemoveItem(c, uuid.NewString()) // no está: no pasa nada
	require.Len(t, c.Lines, 2)

	f.cart.RemoveItem(c, a.ID)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "7706", c.Lines[0].Barcode)

	f.cart.Clear(c)
	assert.Empty(t, c.Lines)
}

// ──────────────────────────────────────────────────────────────────────────────
// Precio manual y Finalize
// ──────────────────────────────────────────────────────────────────────────────

func TestPrecioManual_BloqueaFinalizeHastaFijarlo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "7707", "")
	item := f.batch(t, p, 5)
	c := entity.NewCart("s1")

	line, err := f.cart.AddItem(f.ctx, c, "7707", 2)
	require.NoError(t, err)
	assert.True(t, line.NeedsManualPrice)
	assert.Nil(t, line.SalePrice)

	_, err = f.cart.Finalize(f.ctx, c, "", decimal.Zero, "")
	assert.ErrorIs(t, err, domain.ErrPricingIncomplete)
	require.Len(t, c.Lines, 1, "el carrito queda intacto")

	assert.ErrorIs(t, f.cart.SetManualPrice(c, item.ID, decimal.Zero), domain.ErrInvalidPrice)
	require.NoError(t, f.cart.SetManualPrice(c, item.ID, decimal.RequireFromString("3.499")))
	assert.True(t, c.Lines[0].SalePrice.Equal(decimal.RequireFromString("3.50")))
	assert.ErrorIs(t, f.cart.SetManualPrice(c, item.ID, decimal.NewFromInt(4)), domain.ErrInvalidPrice, "ya tiene precio")

	sale, err := f.cart.Finalize(f.ctx, c, "cajero-1", decimal.Zero, "")
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("7.00")))
	assert.Empty(t, c.Lines)
	assert.Equal(t, 3, f.quantity(t, item.ID))
}

func TestFinalize_CarritoVacio(t *testing.T) {
	f := newFixture(t)
	_, err := f.cart.Finalize(f.ctx, entity.NewCart("s1"), "", decimal.Zero, "")
	assert.ErrorIs(t, err, domain.ErrEmptySale)
}

func TestFinalize_StockConsumidoPorOtraVenta_ConservaCarrito(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "7708", "1")
	item := f.batch(t, p, 3)
	c := entity.NewCart("s1")
	_, err := f.cart.AddItem(f.ctx, c, "7708", 3)
	require.NoError(t, err)

	// otra caja vende 2 unidades del mismo lote
	_, err = f.sales.CreateSale(f.ctx, sales.CreateSaleInput{
		Lines: []sales.SaleLine{{StockItemID: item.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	_, err = f.cart.Finalize(f.ctx, c, "", decimal.Zero, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	assert.Equal(t, 1, f.quantity(t, item.ID))
}

func TestFinalize_ConDescuento(t *testing.T) {
	f := newFixture(t)
	f.batch(t, f.product(t, "7709", "2.00"), 10)
	c := entity.NewCart("s1")
	_, err := f.cart.AddItem(f.ctx, c, "7709", 3)
	require.NoError(t, err)

	sale, err := f.cart.Finalize(f.ctx, c, "", decimal.RequireFromString("0.50"), "cliente frecuente")
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("5.50")))
	assert.True(t, sale.SubTotal().Equal(decimal.RequireFromString("6")))
	assert.Equal(t, "cliente frecuente", sale.Notes)
}

// ──────────────────────────────────────────────────────────────────────────────
// WithSession
// ──────────────────────────────────────────────────────────────────────────────

func TestWithSession_SesionesIndependientes(t *testing.T) {
	f := newFixture(t)
	f.batch(t, f.product(t, "7710", "1"), 10)

	a, err := f.cart.WithSession(f.ctx, "caja-1", func(c *entity.Cart) error {
		_, err := f.cart.AddItem(f.ctx, c, "7710", 2)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, a.ItemCount())

	b, err := f.cart.WithSession(f.ctx, "caja-2", func(*entity.Cart) error { return nil })
	require.NoError(t, err)
	assert.Empty(t, b.Lines)

	again, err := f.cart.WithSession(f.ctx, "caja-1", func(*entity.Cart) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 2, again.ItemCount(), "el carrito se guardó entre peticiones")
}

func TestWithSession_ErrorNoGuarda(t *testing.T) {
	f := newFixture(t)
	f.batch(t, f.product(t, "7711", "1"), 10)
	boom := errors.New("boom")

	_, err := f.cart.WithSession(f.ctx, "caja-1", func(c *entity.Cart) error {
		if _, err := f.cart.AddItem(f.ctx, c, "7711", 1); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := f.cart.WithSession(f.ctx, "caja-1", func(*entity.Cart) error { return nil })
	require.NoError(t, err)
	assert.Empty(t, got.Lines)

	_, err = f.cart.WithSession(f.ctx, "", func(*entity.Cart) error { return nil })
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// failingSaveStore falla Save mientras fail esté activo y anota los Delete.
type failingSaveStore struct {
	cart.Store
	fail    bool
	deleted []string
}

func (s *failingSaveStore) Save(ctx context.Context, c *entity.Cart) error {
	if s.fail {
		return errors.New("redis caído")
	}
	return s.Store.Save(ctx, c)
}

func (s *failingSaveStore) Delete(ctx context.Context, sessionID string) error {
	s.deleted = append(s.deleted, sessionID)
	return s.Store.Delete(ctx, sessionID)
}

func TestWithSession_FalloAlGuardarTrasFinalize_BorraSesion(t *testing.T) {
	f := newFixture(t)
	item := f.batch(t, f.product(t, "7712", "1.50"), 10)
	store := &failingSaveStore{Store: cartstore.NewMemoryStore(0)}
	uc := cart.NewCartUseCase(f.stock, f.products, f.sales, store, logger.Nop())

	_, err := uc.WithSession(f.ctx, "caja-1", func(c *entity.Cart) error {
		_, err := uc.AddItem(f.ctx, c, "7712", 2)
		return err
	})
	require.NoError(t, err)

	store.fail = true
	// con líneas el error se propaga y la sesión no se toca
	_, err = uc.WithSession(f.ctx, "caja-1", func(c *entity.Cart) error {
		_, err := uc.AddItem(f.ctx, c, "7712", 1)
		return err
	})
	require.Error(t, err)
	assert.Empty(t, store.deleted)

	var sale *entity.Sale
	_, err = uc.WithSession(f.ctx, "caja-1", func(c *entity.Cart) error {
		s, err := uc.Finalize(f.ctx, c, "", decimal.Zero, "")
		sale = s
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.Equal(t, []string{"caja-1"}, store.deleted)
	assert.Equal(t, 8, f.quantity(t, item.ID))

	store.fail = false
	got, err := uc.WithSession(f.ctx, "caja-1", func(*entity.Cart) error { return nil })
	require.NoError(t, err)
	assert.Empty(t, got.Lines, "el carrito confirmado no se puede volver a cobrar")
}
