package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistory registra un cambio de precios de un producto.
type PriceHistory struct {
	ID           string
	ProductID    string
	OldCostPrice *decimal.Decimal
	NewCostPrice *decimal.Decimal
	OldSalePrice *decimal.Decimal
	NewSalePrice *decimal.Decimal
	CreatedBy    *string
	CreatedAt    time.Time
}
