// Package bootstrap arma los casos de uso sobre un backend de persistencia (Postgres o memoria).
package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	appanalytics "github.com/jhoicas/pos-inventario/internal/application/analytics"
	"github.com/jhoicas/pos-inventario/internal/application/cart"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/cartstore"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// TxRunner las tres formas de transacción que usan los casos de uso.
type TxRunner interface {
	inventory.TxRunner
	sales.SaleTxRunner
	usecase.CatalogTxRunner
}

// Repos repositorios fuera de transacción más el TxRunner del mismo backend.
type Repos struct {
	Tx           TxRunner
	Products     repository.ProductRepository
	Categories   repository.CategoryRepository
	Suppliers    repository.SupplierRepository
	Locations    repository.LocationRepository
	PriceHistory repository.PriceHistoryRepository
	Stock        repository.StockItemRepository
	Tracking     repository.StockTrackingRepository
	Sales        repository.SaleRepository
	Analytics    repository.AnalyticsRepository
}

// PostgresRepos repositorios sobre el pool.
func PostgresRepos(pool *pgxpool.Pool) Repos {
	return Repos{
		Tx:           postgres.NewTxRunner(pool),
		Products:     postgres.NewProductRepository(pool),
		Categories:   postgres.NewCategoryRepository(pool),
		Suppliers:    postgres.NewSupplierRepository(pool),
		Locations:    postgres.NewLocationRepository(pool),
		PriceHistory: postgres.NewPriceHistoryRepository(pool),
		Stock:        postgres.NewStockItemRepository(pool),
		Tracking:     postgres.NewTrackingRepository(pool),
		Sales:        postgres.NewSaleRepository(pool),
		Analytics:    postgres.NewAnalyticsRepository(pool),
	}
}

// MemoryRepos repositorios en memoria sobre store.
func MemoryRepos(store *memory.Store) Repos {
	return Repos{
		Tx:           memory.NewTxRunner(store),
		Products:     memory.NewProductRepository(store),
		Categories:   memory.NewCategoryRepository(store),
		Suppliers:    memory.NewSupplierRepository(store),
		Locations:    memory.NewLocationRepository(store),
		PriceHistory: memory.NewPriceHistoryRepository(store),
		Stock:        memory.NewStockItemRepository(store),
		Tracking:     memory.NewTrackingRepository(store),
		Sales:        memory.NewSaleRepository(store),
		Analytics:    memory.NewAnalyticsRepository(store),
	}
}

// Options parámetros de negocio.
type Options struct {
	LowStockThreshold int
	RecentMovements   int
	StoreName         string
	Receipts          sales.ReceiptGenerator // nil = sin recibos PDF
	Carts             cart.Store // nil = carritos en memoria del proceso
	Log               *logger.Logger
}

// Services casos de uso listos para el transporte.
type Services struct {
	Products  *usecase.ProductUseCase
	Locations *usecase.LocationUseCase
	Suppliers *usecase.SupplierUseCase
	Stock     *inventory.StockLedgerUseCase
	Sales     *sales.SaleUseCase
	Receipts  *sales.ReceiptUseCase
	Cart      *cart.CartUseCase
	Dashboard *appanalytics.DashboardUseCase
}

// Build arma los casos de uso sobre r.
func Build(r Repos, opt Options) *Services {
	log := logger.OrNop(opt.Log)
	stock := inventory.NewStockLedgerUseCase(r.Tx, r.Stock, r.Tracking, r.Locations, r.Suppliers, log, opt.LowStockThreshold)
	saleUC := sales.NewSaleUseCase(r.Tx, stock, r.Sales, log)
	carts := opt.Carts
	if carts == nil {
		carts = cartstore.NewMemoryStore(cartstore.DefaultLockWait)
	}
	svc := &Services{
		Products:  usecase.NewProductUseCase(r.Tx, r.Products, r.Categories, r.PriceHistory),
		Locations: usecase.NewLocationUseCase(r.Locations),
		Suppliers: usecase.NewSupplierUseCase(r.Suppliers),
		Stock:     stock,
		Sales:     saleUC,
		Cart:      cart.NewCartUseCase(r.Stock, r.Products, saleUC, carts, log),
		Dashboard: appanalytics.NewDashboardUseCase(r.Analytics, r.Tracking, stock.LowStockThreshold(), opt.RecentMovements),
	}
	if opt.Receipts != nil {
		svc.Receipts = sales.NewReceiptUseCase(saleUC, opt.Receipts, opt.StoreName)
	}
	return svc
}
