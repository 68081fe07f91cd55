package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetInventoryCounts productos, lotes bajo el umbral, lotes agotados y unidades totales.
func (r *AnalyticsRepo) GetInventoryCounts(ctx context.Context, lowStockThreshold int) (repository.InventoryCounts, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products)                                            AS total_products,
	    COUNT(*) FILTER (WHERE si.quantity <= $1)                                  AS low_stock,
	    COUNT(*) FILTER (WHERE si.quantity = 0)                                    AS out_of_stock,
	    COALESCE(SUM(si.quantity), 0)                                              AS total_quantity
	FROM stock_items si`
	var c repository.InventoryCounts
	if err := r.q.QueryRow(ctx, query, lowStockThreshold).Scan(
		&c.TotalProducts, &c.LowStock, &c.OutOfStock, &c.TotalQuantity,
	); err != nil {
		return c, fmt.Errorf("analytics: inventario: %w", err)
	}
	return c, nil
}

// GetSalesTotals cantidad e ingresos de las ventas en [from, to).
func (r *AnalyticsRepo) GetSalesTotals(ctx context.Context, from, to time.Time) (repository.SalesTotals, error) {
	const query = `
	SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
	FROM sales
	WHERE created_at >= $1 AND created_at < $2`
	var t repository.SalesTotals
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&t.Count, &t.Revenue); err != nil {
		return t, fmt.Errorf("analytics: ventas: %w", err)
	}
	return t, nil
}

// GetSupplierTotals proveedores, lotes con proveedor y sus unidades.
func (r *AnalyticsRepo) GetSupplierTotals(ctx context.Context) (repository.SupplierTotals, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM suppliers),
	    COUNT(si.id),
	    COALESCE(SUM(si.quantity), 0)
	FROM stock_items si
	WHERE si.supplier_id IS NOT NULL`
	var t repository.SupplierTotals
	if err := r.q.QueryRow(ctx, query).Scan(&t.Suppliers, &t.SuppliedItems, &t.SuppliedUnits); err != nil {
		return t, fmt.Errorf("analytics: proveedores: %w", err)
	}
	return t, nil
}
