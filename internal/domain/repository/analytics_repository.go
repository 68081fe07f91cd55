package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryCounts métricas de inventario para el dashboard.
type InventoryCounts struct {
	TotalProducts int
	LowStock      int // lotes con cantidad <= umbral
	OutOfStock    int // lotes con cantidad 0
	TotalQuantity int
}

// SalesTotals cantidad de ventas e ingresos (post-descuento) en un rango.
type SalesTotals struct {
	Count   int
	Revenue decimal.Decimal
}

// SupplierTotals métricas de proveedores.
type SupplierTotals struct {
	Suppliers     int
	SuppliedItems int
	SuppliedUnits int
}

// AnalyticsRepository consultas read-only de agregados para el dashboard.
type AnalyticsRepository interface {
	GetInventoryCounts(ctx context.Context, lowStockThreshold int) (InventoryCounts, error)
	GetSalesTotals(ctx context.Context, from, to time.Time) (SalesTotals, error)
	GetSupplierTotals(ctx context.Context) (SupplierTotals, error)
}
