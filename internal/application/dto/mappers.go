package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// FromStockItem convierte un lote a su DTO.
func FromStockItem(s *entity.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:             s.ID,
		ProductID:      s.ProductID,
		ProductName:    s.ProductName,
		Quantity:       s.Quantity,
		BatchNumber:    s.BatchNumber,
		ExpirationDate: s.ExpirationDate,
		PurchasePrice:  s.PurchasePrice,
		SalePrice:      s.SalePrice,
		LocationID:     s.LocationID,
		SupplierID:     s.SupplierID,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// FromStockItems convierte una lista de lotes.
func FromStockItems(items []*entity.StockItem) []StockItemResponse {
	out := make([]StockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, FromStockItem(it))
	}
	return out
}

// FromMovements convierte filas de tracking.
func FromMovements(entries []*entity.StockItemTracking) []MovementResponse {
	out := make([]MovementResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, MovementResponse{
			ID:             e.ID,
			StockItemID:    e.StockItemID,
			MovementType:   e.MovementType,
			Quantity:       e.Quantity,
			LocationFromID: e.LocationFromID,
			LocationToID:   e.LocationToID,
			Notes:          e.Notes,
			CreatedBy:      e.CreatedBy,
			CreatedAt:      e.CreatedAt,
		})
	}
	return out
}

// FromSale convierte una venta con sus líneas.
func FromSale(s *entity.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ID:               it.ID,
			StockItemID:      it.StockItemID,
			ProductID:        it.ProductID,
			ProductName:      it.ProductName,
			Quantity:         it.Quantity,
			ReturnedQuantity: it.ReturnedQuantity,
			SalePrice:        it.SalePrice,
			LineTotal:        it.LineTotal(),
		})
	}
	return SaleResponse{
		ID:              s.ID,
		SubTotal:        s.SubTotal(),
		DiscountApplied: s.DiscountApplied,
		DiscountAmount:  s.DiscountAmount,
		TotalAmount:     s.TotalAmount,
		Status:          s.Status,
		Notes:           s.Notes,
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
		Items:           items,
	}
}

// FromCart convierte el carrito de la sesión.
func FromCart(c *entity.Cart) CartResponse {
	lines := make([]CartLineResponse, 0, len(c.Lines))
	ready := len(c.Lines) > 0
	for _, l := range c.Lines {
		var total *decimal.Decimal
		if l.SalePrice != nil {
			t := l.SalePrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
			total = &t
		}
		if l.NeedsManualPrice {
			ready = false
		}
		lines = append(lines, CartLineResponse{
			StockItemID:       l.StockItemID,
			ProductName:       l.ProductName,
			Barcode:           l.Barcode,
			Quantity:          l.Quantity,
			SalePrice:         l.SalePrice,
			NeedsManualPrice:  l.NeedsManualPrice,
			AvailableQuantity: l.AvailableQuantity,
			LineTotal:         total,
		})
	}
	return CartResponse{
		SessionID: c.SessionID,
		Lines:     lines,
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
		Ready:     ready,
	}
}
