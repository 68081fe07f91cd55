package sales

import (
	"context"
	"time"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// SaleTxRunner ejecuta una función dentro de una transacción con repos de stock y ventas.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		stockRepo repository.StockItemRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// StockLedger integra ventas con el libro de stock. Los métodos *InTx usan los repositorios
// del caller (misma transacción); si retornan error el caller debe hacer rollback.
type StockLedger interface {
	RemoveForSaleInTx(
		ctx context.Context,
		stockRepo repository.StockItemRepository,
		item *entity.StockItem,
		quantity int,
		saleID, notes, actor string,
		now time.Time,
	) (*entity.StockItem, error)
	RestockInTx(
		ctx context.Context,
		stockRepo repository.StockItemRepository,
		stockItemID string,
		quantity int,
		notes, actor string,
		now time.Time,
	) (*entity.StockItem, error)
}

// ReceiptGenerator genera el comprobante de una venta en PDF.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, sale *entity.Sale, storeName string) ([]byte, error)
}
