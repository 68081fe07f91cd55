package dto

import "github.com/shopspring/decimal"

// AddCartItemRequest agregar por código de barras.
type AddCartItemRequest struct {
	Barcode  string `json:"barcode" validate:"required,max=100"`
	Quantity int    `json:"quantity"`
}

// UpdateCartItemRequest nueva cantidad de una línea.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// SetCartPriceRequest precio manual de una línea sin precio.
type SetCartPriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

// FinalizeCartRequest cierre del carrito.
type FinalizeCartRequest struct {
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Notes          string          `json:"notes"`
}

// CartLineResponse línea del carrito.
type CartLineResponse struct {
	StockItemID       string           `json:"stock_item_id"`
	ProductName       string           `json:"product_name"`
	Barcode           string           `json:"barcode"`
	Quantity          int              `json:"quantity"`
	SalePrice         *decimal.Decimal `json:"sale_price"`
	NeedsManualPrice  bool             `json:"needs_manual_price"`
	AvailableQuantity int              `json:"available_quantity"`
	LineTotal         *decimal.Decimal `json:"line_total"`
}

// CartResponse carrito de la sesión.
type CartResponse struct {
	SessionID string             `json:"session_id"`
	Lines     []CartLineResponse `json:"lines"`
	ItemCount int                `json:"item_count"`
	Total     decimal.Decimal    `json:"total"`
	Ready     bool               `json:"ready"` // sin líneas pendientes de precio
}
