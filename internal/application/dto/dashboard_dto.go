package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	// Inventario
	TotalProducts      int `json:"total_products"`
	LowStockItems      int `json:"low_stock_items"` // lotes con cantidad <= LowStockThreshold
	OutOfStockItems    int `json:"out_of_stock_items"`
	TotalStockQuantity int `json:"total_stock_quantity"`
	LowStockThreshold  int `json:"low_stock_threshold"`

	// Ventas de hoy y de los últimos 7 días (ingresos netos de descuento)
	SalesTodayCount      int             `json:"sales_today_count"`
	SalesTodayRevenue    decimal.Decimal `json:"sales_today_revenue"`
	SalesLastWeekCount   int             `json:"sales_last_week_count"`
	SalesLastWeekRevenue decimal.Decimal `json:"sales_last_week_revenue"`

	// Proveedores
	TotalSuppliers     int `json:"total_suppliers"`
	SupplierStockItems int `json:"supplier_stock_items"`
	SupplierQuantity   int `json:"supplier_quantity"`

	RecentMovements []MovementResponse `json:"recent_movements"`
	DateLabel       string             `json:"date_label"` // ej: "Febrero 2026"
}
