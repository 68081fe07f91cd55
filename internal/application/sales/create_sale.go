package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// SaleLine línea solicitada: lote, cantidad y precio unitario a cobrar.
type SaleLine struct {
	StockItemID string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// CreateSaleInput entrada de CreateSale. Actor vacío = venta sin usuario.
type CreateSaleInput struct {
	Actor          string
	Lines          []SaleLine
	DiscountAmount decimal.Decimal
	Notes          string
}

// SaleUseCase registra ventas: valida contra el stock persistido, calcula totales,
// guarda venta y líneas y descuenta cada lote, todo en una transacción.
type SaleUseCase struct {
	txRunner SaleTxRunner
	ledger   StockLedger
	saleRepo repository.SaleRepository
	log      *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner SaleTxRunner, ledger StockLedger, saleRepo repository.SaleRepository, log *logger.Logger) *SaleUseCase {
	return &SaleUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		saleRepo: saleRepo,
		log:      logger.OrNop(log).Component("sales"),
	}
}

// CreateSale registra una venta completa o no registra nada.
//
//  1. Sin líneas -> ErrEmptySale.
//  2. Por línea: cantidad < 1 -> ErrInvalidQuantity; cantidad > stock del lote, releído con
//     bloqueo dentro de la transacción -> ErrInsufficientStock.
//  3. total = Σ cantidad × precio, con precios y descuento redondeados a centavos.
//  4. descuento < 0 -> ErrInvalidDiscount; total - descuento < 0 -> ErrNegativeTotal.
//  5. Guarda la venta (completed) y por cada línea su SaleItem, el descuento del lote y la fila REMOVE.
func (uc *SaleUseCase) CreateSale(ctx context.Context, in CreateSaleInput) (*entity.Sale, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptySale
	}

	var created *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		stockRepo repository.StockItemRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Los importes se redondean a centavos antes de cualquier suma.
		lines := make([]SaleLine, len(in.Lines))
		requested := make(map[string]int, len(in.Lines))
		for i, l := range in.Lines {
			l.UnitPrice = l.UnitPrice.Round(2)
			lines[i] = l
			if l.Quantity < 1 {
				return fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrInvalidQuantity, i+1, l.Quantity)
			}
			if l.UnitPrice.IsNegative() {
				return fmt.Errorf("%w: línea %d con precio %s", domain.ErrInvalidPrice, i+1, l.UnitPrice.String())
			}
			requested[l.StockItemID] += l.Quantity
		}

		// Bloqueo en orden estable para que dos ventas con los mismos lotes no se crucen.
		ids := make([]string, 0, len(requested))
		for id := range requested {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		items := make(map[string]*entity.StockItem, len(ids))
		for _, id := range ids {
			item, err := stockRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
			}
			if requested[id] > item.Quantity {
				return fmt.Errorf("%w: %s (lote %s) tiene %d, se pidieron %d",
					domain.ErrInsufficientStock, item.ProductName, item.BatchNumber, item.Quantity, requested[id])
			}
			items[id] = item
		}

		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		discount := in.DiscountAmount.Round(2)
		if discount.IsNegative() {
			return fmt.Errorf("%w: %s", domain.ErrInvalidDiscount, discount.String())
		}
		total = total.Sub(discount)
		if total.IsNegative() {
			return fmt.Errorf("%w: %s", domain.ErrNegativeTotal, total.StringFixed(2))
		}

		now := time.Now()
		sale := &entity.Sale{
			ID:              uuid.New().String(),
			TotalAmount:     total,
			DiscountApplied: discount.IsPositive(),
			DiscountAmount:  discount,
			Status:          entity.SaleStatusCompleted,
			Notes:           in.Notes,
			CreatedBy:       actorPtr(in.Actor),
			CreatedAt:       now,
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		for _, l := range lines {
			item := items[l.StockItemID]
			stockItemID := item.ID
			saleItem := &entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				StockItemID: &stockItemID,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    l.Quantity,
				SalePrice:   l.UnitPrice,
			}
			if err := saleRepo.CreateItem(ctx, saleItem); err != nil {
				return err
			}
			updated, err := uc.ledger.RemoveForSaleInTx(ctx, stockRepo, item, l.Quantity, sale.ID, in.Notes, in.Actor, now)
			if err != nil {
				return err
			}
			items[l.StockItemID] = updated
			sale.Items = append(sale.Items, saleItem)
		}
		created = sale
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Int("lines", len(in.Lines)).Msg("venta rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", created.ID).
		Str("total", created.TotalAmount.StringFixed(2)).
		Int("lines", len(created.Items)).
		Msg("venta registrada")
	return created, nil
}

// GetSale devuelve la venta con sus líneas o domain.ErrNotFound.
func (uc *SaleUseCase) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	return sale, nil
}

// ListSales ventas en [from, to), más recientes primero.
func (uc *SaleUseCase) ListSales(ctx context.Context, from, to time.Time) ([]*entity.Sale, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: rango de fechas vacío", domain.ErrInvalidInput)
	}
	return uc.saleRepo.List(ctx, from, to)
}

func actorPtr(actor string) *string {
	if actor == "" {
		return nil
	}
	return &actor
}
