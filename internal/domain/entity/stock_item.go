package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem es un lote: una cantidad de un producto con metadatos comunes de compra,
// vencimiento, ubicación y proveedor.
//
// Quantity es un caché del fold de su StockItemTracking; solo cambia a través de
// StockItemRepository.ApplyMovement (o al crearse, junto con su fila ADD).
type StockItem struct {
	ID             string
	ProductID      string
	Quantity       int
	ExpirationDate *time.Time
	BatchNumber    string
	PurchasePrice  *decimal.Decimal
	SalePrice      *decimal.Decimal
	LocationID     *string
	SupplierID     *string
	CreatedBy      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Solo lectura, cargados por los repositorios para mostrar/validar.
	ProductName    string
	ProductBarcode string
}

// EffectiveSalePrice devuelve el precio del lote, o el del producto si el lote no lo define.
// nil cuando ninguno define un precio positivo.
func (s *StockItem) EffectiveSalePrice(product *Product) *decimal.Decimal {
	if s.SalePrice != nil && s.SalePrice.IsPositive() {
		p := *s.SalePrice
		return &p
	}
	if product.HasSalePrice() {
		p := *product.SalePrice
		return &p
	}
	return nil
}
