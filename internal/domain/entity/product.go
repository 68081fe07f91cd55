package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El stock vive en sus lotes (StockItem).
type Product struct {
	ID          string
	Name        string
	Description string
	SKU         string // único cuando está presente
	Barcode     string // único cuando está presente
	CostPrice   *decimal.Decimal
	SalePrice   *decimal.Decimal
	CategoryID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasSalePrice indica si el producto define un precio de venta utilizable (> 0).
func (p *Product) HasSalePrice() bool {
	return p != nil && p.SalePrice != nil && p.SalePrice.IsPositive()
}
