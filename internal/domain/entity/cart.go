package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart carrito de una sesión de caja. No se persiste en la BD de ventas; el estado
// se pasa explícitamente a cada operación y lo guarda un CartStore.
type Cart struct {
	SessionID string      `json:"session_id"`
	Lines     []*CartLine `json:"lines"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CartLine línea pendiente de venta, una por lote.
type CartLine struct {
	StockItemID       string           `json:"stock_item_id"`
	ProductID         string           `json:"product_id"`
	ProductName       string           `json:"product_name"`
	Barcode           string           `json:"barcode"`
	Quantity          int              `json:"quantity"`
	SalePrice         *decimal.Decimal `json:"sale_price,omitempty"`
	NeedsManualPrice  bool             `json:"needs_manual_price"`
	AvailableQuantity int              `json:"available_quantity"`
}

// NewCart crea un carrito vacío para la sesión.
func NewCart(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Lines: []*CartLine{}}
}

// Line devuelve la línea del lote o nil.
func (c *Cart) Line(stockItemID string) *CartLine {
	for _, l := range c.Lines {
		if l.StockItemID == stockItemID {
			return l
		}
	}
	return nil
}

// Total suma de las líneas con precio.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		if l.SalePrice != nil {
			total = total.Add(l.SalePrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
	}
	return total
}

// ItemCount unidades en el carrito.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
