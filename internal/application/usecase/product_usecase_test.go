package usecase_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newProductUC(store *memory.Store) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(
		memory.NewTxRunner(store),
		memory.NewProductRepository(store),
		memory.NewCategoryRepository(store),
		memory.NewPriceHistoryRepository(store),
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_GeneraSKUYCodigo(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC(memory.NewStore())

	out, err := uc.Create(ctx, dto.CreateProductRequest{Name: "  Café 250g ", SalePrice: dec("12.345")})
	require.NoError(t, err)
	assert.Equal(t, "Café 250g", out.Name)
	assert.Regexp(t, regexp.MustCompile(`^SKU-[0-9A-F]{8}$`), out.SKU)
	assert.Regexp(t, regexp.MustCompile(`^BAR-[0-9A-F]{10}$`), out.Barcode)
	require.NotNil(t, out.SalePrice)
	assert.True(t, out.SalePrice.Equal(decimal.RequireFromString("12.35")))
	assert.Nil(t, out.CostPrice)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, out.SKU, got.SKU)

	missing, err := uc.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductCreate_Rechazos(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC(memory.NewStore())

	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "X", CostPrice: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	missing := uuid.NewString()
	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "X", CategoryID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "A", Barcode: "770"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "B", Barcode: "770"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUpdatePrices_RegistraHistorial(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC(memory.NewStore())
	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Pan", CostPrice: dec("1"), SalePrice: dec("2")})
	require.NoError(t, err)

	updated, err := uc.UpdatePrices(ctx, p.ID, dto.UpdatePricesRequest{CostPrice: dec("1"), SalePrice: dec("2.50")}, "admin")
	require.NoError(t, err)
	assert.True(t, updated.SalePrice.Equal(decimal.RequireFromString("2.5")))

	// mismos precios: sin fila nueva
	_, err = uc.UpdatePrices(ctx, p.ID, dto.UpdatePricesRequest{CostPrice: dec("1.00"), SalePrice: dec("2.5")}, "admin")
	require.NoError(t, err)

	history, err := uc.PriceHistory(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].OldSalePrice.Equal(decimal.NewFromInt(2)))
	assert.True(t, history[0].NewSalePrice.Equal(decimal.RequireFromString("2.5")))
	require.NotNil(t, history[0].CreatedBy)
	assert.Equal(t, "admin", *history[0].CreatedBy)

	_, err = uc.UpdatePrices(ctx, uuid.NewString(), dto.UpdatePricesRequest{}, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.UpdatePrices(ctx, p.ID, dto.UpdatePricesRequest{SalePrice: dec("-3")}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestCategorias(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC(memory.NewStore())

	lacteos, err := uc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Lácteos"})
	require.NoError(t, err)
	_, err = uc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Aseo"})
	require.NoError(t, err)
	_, err = uc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Aseo", list[0].Name)

	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Queso", CategoryID: &lacteos.ID})
	require.NoError(t, err)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, lacteos.ID, *p.CategoryID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ubicaciones y proveedores
// ──────────────────────────────────────────────────────────────────────────────

func TestLocations_ResumenYBorrado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	locations := usecase.NewLocationUseCase(memory.NewLocationRepository(store))
	products := newProductUC(store)
	ledger := inventory.NewStockLedgerUseCase(memory.NewTxRunner(store), memory.NewStockItemRepository(store),
		memory.NewTrackingRepository(store), memory.NewLocationRepository(store), memory.NewSupplierRepository(store),
		logger.Nop(), 0)

	bodega, err := locations.Create(ctx, dto.CreateLocationRequest{Name: "Bodega"})
	require.NoError(t, err)
	_, err = locations.Create(ctx, dto.CreateLocationRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "Jabón"})
	require.NoError(t, err)
	for _, qty := range []int{3, 4} {
		_, err := ledger.Create(ctx, inventory.CreateStockInput{ProductID: p.ID, Quantity: qty, LocationID: &bodega.ID})
		require.NoError(t, err)
	}

	list, err := locations.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ItemCount)
	assert.Equal(t, 7, list[0].TotalQuantity)

	require.NoError(t, locations.Delete(ctx, bodega.ID))
	low, err := ledger.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	for _, it := range low {
		assert.Nil(t, it.LocationID, "los lotes quedan sin ubicación")
	}
	assert.ErrorIs(t, locations.Delete(ctx, bodega.ID), domain.ErrNotFound)
}

func TestSuppliers_Crear(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewSupplierUseCase(memory.NewSupplierRepository(memory.NewStore()))

	out, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: "Alpina", Email: "ventas@alpina.test"})
	require.NoError(t, err)
	assert.Equal(t, "Alpina", out.Name)

	_, err = uc.Create(ctx, dto.CreateSupplierRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].ItemCount)
}
