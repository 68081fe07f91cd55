package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockRequest alta de un lote.
type CreateStockRequest struct {
	ProductID      string           `json:"product_id" validate:"required,uuid"`
	Quantity       int              `json:"quantity"`
	LocationID     *string          `json:"location_id" validate:"omitempty,uuid"`
	SupplierID     *string          `json:"supplier_id" validate:"omitempty,uuid"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	BatchNumber    string           `json:"batch_number" validate:"max=100"`
	ExpirationDate *time.Time       `json:"expiration_date"`
	Notes          string           `json:"notes"`
}

// AdjustQuantityRequest cantidad absoluta nueva.
type AdjustQuantityRequest struct {
	Quantity *int   `json:"quantity" validate:"required"`
	Notes    string `json:"notes"`
}

// UpdateStockRequest atributos a cambiar (omitidos = sin cambio).
type UpdateStockRequest struct {
	LocationID     *string          `json:"location_id" validate:"omitempty,uuid"`
	SupplierID     *string          `json:"supplier_id" validate:"omitempty,uuid"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	ExpirationDate *time.Time       `json:"expiration_date"`
	Notes          string           `json:"notes"`
}

// TransferStockRequest traslado a otra ubicación.
type TransferStockRequest struct {
	Quantity   int    `json:"quantity"`
	LocationID string `json:"location_id" validate:"required,uuid"`
	Notes      string `json:"notes"`
}

// StockItemResponse salida de un lote.
type StockItemResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	ProductName    string           `json:"product_name"`
	Quantity       int              `json:"quantity"`
	BatchNumber    string           `json:"batch_number"`
	ExpirationDate *time.Time       `json:"expiration_date"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	LocationID     *string          `json:"location_id"`
	SupplierID     *string          `json:"supplier_id"`
	CreatedBy      *string          `json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// MovementResponse una fila del libro de movimientos.
type MovementResponse struct {
	ID             string    `json:"id"`
	StockItemID    *string   `json:"stock_item_id"`
	MovementType   string    `json:"movement_type"`
	Quantity       int       `json:"quantity"`
	LocationFromID *string   `json:"location_from_id"`
	LocationToID   *string   `json:"location_to_id"`
	Notes          string    `json:"notes"`
	CreatedBy      *string   `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// StockHistoryResponse historial del lote y su conciliación.
type StockHistoryResponse struct {
	StockItemID    string             `json:"stock_item_id"`
	Quantity       int                `json:"quantity"`
	LedgerQuantity int                `json:"ledger_quantity"`
	Consistent     bool               `json:"consistent"`
	Movements      []MovementResponse `json:"movements"`
}
