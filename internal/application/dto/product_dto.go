package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. SKU y código de barras vacíos se generan.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description string           `json:"description" validate:"max=2000"`
	SKU         string           `json:"sku" validate:"max=100"`
	Barcode     string           `json:"barcode" validate:"max=100"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
}

// UpdatePricesRequest nuevos precios del producto (nil = sin precio).
type UpdatePricesRequest struct {
	CostPrice *decimal.Decimal `json:"cost_price"`
	SalePrice *decimal.Decimal `json:"sale_price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	SKU         string           `json:"sku"`
	Barcode     string           `json:"barcode"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	CategoryID  *string          `json:"category_id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// PriceHistoryResponse un cambio de precios.
type PriceHistoryResponse struct {
	OldCostPrice *decimal.Decimal `json:"old_cost_price"`
	NewCostPrice *decimal.Decimal `json:"new_cost_price"`
	OldSalePrice *decimal.Decimal `json:"old_sale_price"`
	NewSalePrice *decimal.Decimal `json:"new_sale_price"`
	CreatedBy    *string          `json:"created_by"`
	CreatedAt    time.Time        `json:"created_at"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id" validate:"omitempty,uuid"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}
