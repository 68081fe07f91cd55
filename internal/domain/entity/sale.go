package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusCompleted         = "completed"
	SaleStatusPartiallyReturned = "partially_returned"
	SaleStatusFullyReturned     = "fully_returned"
)

// Sale venta confirmada. TotalAmount ya descuenta DiscountAmount.
type Sale struct {
	ID              string
	TotalAmount     decimal.Decimal
	DiscountApplied bool
	DiscountAmount  decimal.Decimal
	Status          string
	Notes           string
	CreatedBy       *string
	CreatedAt       time.Time
	Items           []*SaleItem
}

// SubTotal total antes del descuento.
func (s *Sale) SubTotal() decimal.Decimal {
	if s.DiscountApplied {
		return s.TotalAmount.Add(s.DiscountAmount)
	}
	return s.TotalAmount
}

// SaleItem línea de una venta. SalePrice es una foto del precio unitario al momento de vender.
type SaleItem struct {
	ID               string
	SaleID           string
	StockItemID      *string // nil si el lote fue borrado después
	ProductID        string
	ProductName      string
	Quantity         int
	SalePrice        decimal.Decimal
	ReturnedQuantity int
}

// LineTotal cantidad × precio unitario.
func (i *SaleItem) LineTotal() decimal.Decimal {
	return i.SalePrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Returnable unidades que aún pueden devolverse.
func (i *SaleItem) Returnable() int {
	return i.Quantity - i.ReturnedQuantity
}
