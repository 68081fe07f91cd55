package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// ReturnLine unidades devueltas de una línea de venta.
type ReturnLine struct {
	SaleItemID string
	Quantity   int
}

// ReturnItems registra una devolución: suma las unidades al lote original (fila INCREASE) si
// todavía existe, acumula ReturnedQuantity y actualiza el estado de la venta.
func (uc *SaleUseCase) ReturnItems(ctx context.Context, saleID string, lines []ReturnLine, notes, actor string) (*entity.Sale, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: devolución sin líneas", domain.ErrInvalidInput)
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, l.Quantity)
		}
	}

	var result *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		stockRepo repository.StockItemRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		byID := make(map[string]*entity.SaleItem, len(sale.Items))
		for _, it := range sale.Items {
			byID[it.ID] = it
		}

		now := time.Now()
		for _, l := range lines {
			item, ok := byID[l.SaleItemID]
			if !ok {
				return fmt.Errorf("%w: línea %s no pertenece a la venta", domain.ErrNotFound, l.SaleItemID)
			}
			if l.Quantity > item.Returnable() {
				return fmt.Errorf("%w: se pueden devolver %d de %s, se pidieron %d",
					domain.ErrInvalidQuantity, item.Returnable(), item.ProductName, l.Quantity)
			}
			item.ReturnedQuantity += l.Quantity
			if err := saleRepo.UpdateItemReturned(ctx, item.ID, item.ReturnedQuantity); err != nil {
				return err
			}
			if item.StockItemID == nil {
				continue
			}
			batch, err := stockRepo.GetForUpdate(ctx, *item.StockItemID)
			if err != nil {
				return err
			}
			if batch == nil {
				continue
			}
			msg := fmt.Sprintf("Devolución de %d unidades de %s de la venta #%s", l.Quantity, item.ProductName, sale.ID)
			if notes != "" {
				msg = notes + ". " + msg
			}
			if _, err := uc.ledger.RestockInTx(ctx, stockRepo, batch.ID, l.Quantity, msg, actor, now); err != nil {
				return err
			}
		}

		sale.Status = returnStatus(sale.Items)
		if err := saleRepo.UpdateStatus(ctx, sale.ID, sale.Status); err != nil {
			return err
		}
		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_id", saleID).Str("status", result.Status).Msg("devolución registrada")
	return result, nil
}

func returnStatus(items []*entity.SaleItem) string {
	returned, full := 0, true
	for _, it := range items {
		returned += it.ReturnedQuantity
		if it.ReturnedQuantity < it.Quantity {
			full = false
		}
	}
	switch {
	case returned == 0:
		return entity.SaleStatusCompleted
	case full:
		return entity.SaleStatusFullyReturned
	default:
		return entity.SaleStatusPartiallyReturned
	}
}
