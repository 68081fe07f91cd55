package memory

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var (
	_ inventory.TxRunner      = (*TxRunner)(nil)
	_ sales.SaleTxRunner      = (*TxRunner)(nil)
	_ usecase.CatalogTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks sobre una copia del store que se confirma solo si fn no falla.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run transacción del libro de stock.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockItemRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update(func(st *state) error {
		acc := inTx(st)
		return fn(&StockItemRepo{acc: acc}, &ProductRepo{acc: acc})
	})
}

// RunSale transacción de ventas (stock + ventas).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	stockRepo repository.StockItemRepository,
	saleRepo repository.SaleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update(func(st *state) error {
		acc := inTx(st)
		return fn(&StockItemRepo{acc: acc}, &SaleRepo{acc: acc})
	})
}

// RunCatalog transacción de catálogo (productos + historial de precios).
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	historyRepo repository.PriceHistoryRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update(func(st *state) error {
		acc := inTx(st)
		return fn(&ProductRepo{acc: acc}, &PriceHistoryRepo{acc: acc})
	})
}
