package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de una venta directa.
type SaleLineRequest struct {
	StockItemID string          `json:"stock_item_id" validate:"required,uuid"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest venta directa (sin carrito).
type CreateSaleRequest struct {
	Lines          []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	Notes          string            `json:"notes"`
}

// ReturnLineRequest unidades devueltas de una línea.
type ReturnLineRequest struct {
	SaleItemID string `json:"sale_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity"`
}

// ReturnSaleRequest devolución parcial o total.
type ReturnSaleRequest struct {
	Lines []ReturnLineRequest `json:"lines" validate:"required,min=1,dive"`
	Notes string              `json:"notes"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ID               string          `json:"id"`
	StockItemID      *string         `json:"stock_item_id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         int             `json:"quantity"`
	ReturnedQuantity int             `json:"returned_quantity"`
	SalePrice        decimal.Decimal `json:"sale_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// SaleResponse venta con líneas.
type SaleResponse struct {
	ID              string             `json:"id"`
	SubTotal        decimal.Decimal    `json:"sub_total"`
	DiscountApplied bool               `json:"discount_applied"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes"`
	CreatedBy       *string            `json:"created_by"`
	CreatedAt       time.Time          `json:"created_at"`
	Items           []SaleItemResponse `json:"items"`
}
