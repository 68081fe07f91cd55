package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// DefaultLowStockThreshold umbral de stock bajo cuando la configuración no define otro.
const DefaultLowStockThreshold = 10

// StockLedgerUseCase agrupa las operaciones que mueven la cantidad de un lote.
// Cada operación corre en una sola transacción: la cantidad y su fila de tracking
// se confirman juntas o no se confirma ninguna.
type StockLedgerUseCase struct {
	txRunner          TxRunner
	stockRepo         repository.StockItemRepository
	trackingRepo      repository.StockTrackingRepository
	locationRepo      repository.LocationRepository
	supplierRepo      repository.SupplierRepository
	log               *logger.Logger
	lowStockThreshold int
}

// NewStockLedgerUseCase construye el caso de uso. threshold <= 0 usa DefaultLowStockThreshold.
func NewStockLedgerUseCase(
	txRunner TxRunner,
	stockRepo repository.StockItemRepository,
	trackingRepo repository.StockTrackingRepository,
	locationRepo repository.LocationRepository,
	supplierRepo repository.SupplierRepository,
	log *logger.Logger,
	lowStockThreshold int,
) *StockLedgerUseCase {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &StockLedgerUseCase{
		txRunner:          txRunner,
		stockRepo:         stockRepo,
		trackingRepo:      trackingRepo,
		locationRepo:      locationRepo,
		supplierRepo:      supplierRepo,
		log:               logger.OrNop(log).Component("stock_ledger"),
		lowStockThreshold: lowStockThreshold,
	}
}

// CreateStockInput datos para dar de alta un lote. Los punteros nil son "no informado".
type CreateStockInput struct {
	ProductID      string
	Quantity       int
	LocationID     *string
	SupplierID     *string
	PurchasePrice  *decimal.Decimal
	SalePrice      *decimal.Decimal // nil = precio del producto
	BatchNumber    string           // vacío = <SKU>-<8 hex>
	ExpirationDate *time.Time
	Notes          string
	Actor          string
}

// StockAttributes campos editables de un lote. Solo se aplican los no nil que difieren del valor actual.
type StockAttributes struct {
	LocationID     *string
	SupplierID     *string
	PurchasePrice  *decimal.Decimal
	SalePrice      *decimal.Decimal
	ExpirationDate *time.Time
}

// ReconcileResult compara la cantidad cacheada del lote con el fold de su historial.
type ReconcileResult struct {
	StockItemID    string
	Quantity       int
	LedgerQuantity int
	Entries        int
}

// Consistent indica si el lote y su historial coinciden.
func (r ReconcileResult) Consistent() bool { return r.Quantity == r.LedgerQuantity }

// Create da de alta un lote junto con su fila ADD.
func (uc *StockLedgerUseCase) Create(ctx context.Context, in CreateStockInput) (*entity.StockItem, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad inicial no puede ser negativa (%d)", domain.ErrInvalidQuantity, in.Quantity)
	}
	if err := validatePrice(in.PurchasePrice); err != nil {
		return nil, err
	}
	if err := validatePrice(in.SalePrice); err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, in.LocationID, in.SupplierID); err != nil {
		return nil, err
	}

	now := time.Now()
	actor := actorPtr(in.Actor)
	var created *entity.StockItem

	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockItemRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}

		salePrice := roundPrice(in.SalePrice)
		if salePrice == nil {
			salePrice = roundPrice(product.SalePrice)
		}
		batch := strings.TrimSpace(in.BatchNumber)
		if batch == "" {
			batch = domaininv.NewBatchNumber(product.SKU)
		}

		item := &entity.StockItem{
			ID:             uuid.New().String(),
			ProductID:      product.ID,
			Quantity:       in.Quantity,
			ExpirationDate: in.ExpirationDate,
			BatchNumber:    batch,
			PurchasePrice:  roundPrice(in.PurchasePrice),
			SalePrice:      salePrice,
			LocationID:     in.LocationID,
			SupplierID:     in.SupplierID,
			CreatedBy:      actor,
			CreatedAt:      now,
			UpdatedAt:      now,
			ProductName:    product.Name,
			ProductBarcode: product.Barcode,
		}
		notes := in.Notes
		if notes == "" {
			notes = fmt.Sprintf("Stock inicial de %s", product.Name)
		}
		entry := &entity.StockItemTracking{
			ID:           uuid.New().String(),
			MovementType: entity.MovementAdd,
			Quantity:     in.Quantity,
			LocationToID: in.LocationID,
			Notes:        notes,
			CreatedBy:    actor,
			CreatedAt:    now,
		}
		if err := stockRepo.Create(ctx, item, entry); err != nil {
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("product_id", in.ProductID).Msg("alta de lote rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("stock_item_id", created.ID).
		Str("batch", created.BatchNumber).
		Int("quantity", created.Quantity).
		Msg("lote creado")
	return created, nil
}

// AdjustQuantity fija la cantidad absoluta del lote. Sin cambio no escribe nada;
// si cambia, escribe una fila INCREASE o DECREASE por |nueva - actual|.
func (uc *StockLedgerUseCase) AdjustQuantity(ctx context.Context, stockItemID string, newQuantity int, notes, actor string) (*entity.StockItem, error) {
	if newQuantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa (%d)", domain.ErrInvalidQuantity, newQuantity)
	}
	var result *entity.StockItem
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockItemRepository,
		_ repository.ProductRepository,
	) error {
		item, err := lockItem(ctx, stockRepo, stockItemID)
		if err != nil {
			return err
		}
		if item.Quantity == newQuantity {
			result = item
			return nil
		}

		diff := newQuantity - item.Quantity
		movement := entity.MovementIncrease
		if diff < 0 {
			movement = entity.MovementDecrease
			diff = -diff
		}
		msg := fmt.Sprintf("Cantidad cambiada de %d a %d", item.Quantity, newQuantity)
		if notes != "" {
			msg = notes + ". " + msg
		}
		updated, err := stockRepo.ApplyMovement(ctx, &entity.StockItemTracking{
			ID:           uuid.New().String(),
			StockItemID:  &item.ID,
			MovementType: movement,
			Quantity:     diff,
			Notes:        msg,
			CreatedBy:    actorPtr(actor),
			CreatedAt:    time.Now(),
		})
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("stock_item_id", stockItemID).Int("quantity", result.Quantity).Msg("cantidad ajustada")
	return result, nil
}

// UpdateAttributes cambia atributos del lote (nunca la cantidad). Escribe una fila UPDATE
// con la lista de campos cambiados, solo si alguno cambió.
func (uc *StockLedgerUseCase) UpdateAttributes(ctx context.Context, stockItemID string, attrs StockAttributes, notes, actor string) (*entity.StockItem, error) {
	if err := validatePrice(attrs.PurchasePrice); err != nil {
		return nil, err
	}
	if err := validatePrice(attrs.SalePrice); err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, attrs.LocationID, attrs.SupplierID); err != nil {
		return nil, err
	}

	var result *entity.StockItem
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockItemRepository,
		_ repository.ProductRepository,
	) error {
		item, err := lockItem(ctx, stockRepo, stockItemID)
		if err != nil {
			return err
		}
		changes := applyAttributes(item, attrs)
		if len(changes) == 0 {
			result = item
			return nil
		}
		msg := "Cambios: " + strings.Join(changes, ", ")
		if notes != "" {
			msg = notes + ". " + msg
		}
		item.UpdatedAt = time.Now()
		entry := &entity.StockItemTracking{
			ID:           uuid.New().String(),
			StockItemID:  &item.ID,
			MovementType: entity.MovementUpdate,
			Quantity:     item.Quantity,
			Notes:        msg,
			CreatedBy:    actorPtr(actor),
			CreatedAt:    item.UpdatedAt,
		}
		if err := stockRepo.UpdateAttributes(ctx, item, entry); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Transfer mueve quantity unidades del lote a destinationLocationID. Si en el destino ya hay un
// lote del mismo producto se suma a ese; si no, se crea uno copiando los datos del origen.
// El origen registra una fila TRANSFER (desde/hacia) y el destino su entrada ADD o INCREASE.
// Devuelve el lote de destino.
func (uc *StockLedgerUseCase) Transfer(ctx context.Context, stockItemID string, quantity int, destinationLocationID, notes, actor string) (*entity.StockItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad a trasladar debe ser positiva (%d)", domain.ErrInvalidQuantity, quantity)
	}
	if destinationLocationID == "" {
		return nil, fmt.Errorf("%w: ubicación de destino requerida", domain.ErrInvalidInput)
	}
	dest, err := uc.locationRepo.GetByID(ctx, destinationLocationID)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, destinationLocationID)
	}

	var result *entity.StockItem
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockItemRepository,
		_ repository.ProductRepository,
	) error {
		source, err := lockItem(ctx, stockRepo, stockItemID)
		if err != nil {
			return err
		}
		if source.LocationID != nil && *source.LocationID == dest.ID {
			return fmt.Errorf("%w: el lote ya está en %s", domain.ErrInvalidInput, dest.Name)
		}
		if quantity > source.Quantity {
			return fmt.Errorf("%w: no se pueden trasladar %d unidades, solo hay %d",
				domain.ErrInsufficientStock, quantity, source.Quantity)
		}

		now := time.Now()
		actorID := actorPtr(actor)
		msg := notes
		if msg == "" {
			msg = fmt.Sprintf("Trasladado a %s", dest.Name)
		}
		if _, err := stockRepo.ApplyMovement(ctx, &entity.StockItemTracking{
			ID:             uuid.New().String(),
			StockItemID:    &source.ID,
			MovementType:   entity.MovementTransfer,
			Quantity:       quantity,
			LocationFromID: source.LocationID,
			LocationToID:   &dest.ID,
			Notes:          msg,
			CreatedBy:      actorID,
			CreatedAt:      now,
		}); err != nil {
			return err
		}

		target, err := stockRepo.FindForMergeForUpdate(ctx, source.ProductID, &dest.ID, source.ID)
		if err != nil {
			return err
		}
		receipt := &entity.StockItemTracking{
			ID:             uuid.New().String(),
			Quantity:       quantity,
			LocationFromID: source.LocationID,
			LocationToID:   &dest.ID,
			Notes:          fmt.Sprintf("Recibido por traslado desde el lote %s", source.BatchNumber),
			CreatedBy:      actorID,
			CreatedAt:      now,
		}
		if target == nil {
			receipt.MovementType = entity.MovementAdd
			target = &entity.StockItem{
				ID:             uuid.New().String(),
				ProductID:      source.ProductID,
				Quantity:       quantity,
				ExpirationDate: source.ExpirationDate,
				BatchNumber:    domaininv.NewBatchNumber(source.BatchNumber),
				PurchasePrice:  source.PurchasePrice,
				SalePrice:      source.SalePrice,
				LocationID:     &dest.ID,
				SupplierID:     source.SupplierID,
				CreatedBy:      actorID,
				CreatedAt:      now,
				UpdatedAt:      now,
				ProductName:    source.ProductName,
				ProductBarcode: source.ProductBarcode,
			}
			if err := stockRepo.Create(ctx, target, receipt); err != nil {
				return err
			}
			result = target
			return nil
		}

		receipt.MovementType = entity.MovementIncrease
		receipt.StockItemID = &target.ID
		merged, err := stockRepo.ApplyMovement(ctx, receipt)
		if err != nil {
			return err
		}
		result = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("source_id", stockItemID).
		Str("target_id", result.ID).
		Str("location_id", dest.ID).
		Int("quantity", quantity).
		Msg("traslado registrado")
	return result, nil
}

// Delete registra una fila REMOVE con la cantidad y el lote antes de borrarlo.
func (uc *StockLedgerUseCase) Delete(ctx context.Context, stockItemID, actor string) error {
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockItemRepository,
		productRepo repository.ProductRepository,
	) error {
		item, err := lockItem(ctx, stockRepo, stockItemID)
		if err != nil {
			return err
		}
		name := item.ProductName
		if name == "" {
			if p, err := productRepo.GetByID(ctx, item.ProductID); err == nil && p != nil {
				name = p.Name
			}
		}
		return stockRepo.Delete(ctx, item, &entity.StockItemTracking{
			ID:             uuid.New().String(),
			StockItemID:    &item.ID,
			MovementType:   entity.MovementRemove,
			Quantity:       item.Quantity,
			LocationFromID: item.LocationID,
			Notes:          fmt.Sprintf("Stock eliminado de %s (lote: %s, cantidad: %d)", name, item.BatchNumber, item.Quantity),
			CreatedBy:      actorPtr(actor),
			CreatedAt:      time.Now(),
		})
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("stock_item_id", stockItemID).Msg("lote eliminado")
	return nil
}

// RemoveForSaleInTx descuenta quantity del lote usando el repositorio del caller (misma
// transacción) y registra la fila REMOVE que referencia la venta; notes vacío deja la nota
// por defecto. Si retorna error el caller debe hacer rollback.
func (uc *StockLedgerUseCase) RemoveForSaleInTx(
	ctx context.Context,
	stockRepo repository.StockItemRepository,
	item *entity.StockItem,
	quantity int,
	saleID, notes, actor string,
	now time.Time,
) (*entity.StockItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}
	if notes == "" {
		notes = fmt.Sprintf("Vendidas %d unidades de %s en la venta #%s", quantity, item.ProductName, saleID)
	}
	return stockRepo.ApplyMovement(ctx, &entity.StockItemTracking{
		ID:             uuid.New().String(),
		StockItemID:    &item.ID,
		MovementType:   entity.MovementRemove,
		Quantity:       quantity,
		LocationFromID: item.LocationID,
		Notes:          notes,
		CreatedBy:      actorPtr(actor),
		CreatedAt:      now,
	})
}

// RestockInTx devuelve unidades al lote (fila INCREASE) dentro de la transacción del caller.
func (uc *StockLedgerUseCase) RestockInTx(
	ctx context.Context,
	stockRepo repository.StockItemRepository,
	stockItemID string,
	quantity int,
	notes, actor string,
	now time.Time,
) (*entity.StockItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}
	return stockRepo.ApplyMovement(ctx, &entity.StockItemTracking{
		ID:           uuid.New().String(),
		StockItemID:  &stockItemID,
		MovementType: entity.MovementIncrease,
		Quantity:     quantity,
		Notes:        notes,
		CreatedBy:    actorPtr(actor),
		CreatedAt:    now,
	})
}

// Get devuelve el lote o domain.ErrNotFound.
func (uc *StockLedgerUseCase) Get(ctx context.Context, stockItemID string) (*entity.StockItem, error) {
	item, err := uc.stockRepo.GetByID(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, stockItemID)
	}
	return item, nil
}

// History devuelve las filas de tracking del lote en orden cronológico.
func (uc *StockLedgerUseCase) History(ctx context.Context, stockItemID string) ([]*entity.StockItemTracking, error) {
	return uc.trackingRepo.ListByStockItem(ctx, stockItemID)
}

// Reconcile compara la cantidad del lote con el fold de su historial.
func (uc *StockLedgerUseCase) Reconcile(ctx context.Context, stockItemID string) (ReconcileResult, error) {
	item, err := uc.Get(ctx, stockItemID)
	if err != nil {
		return ReconcileResult{}, err
	}
	entries, err := uc.trackingRepo.ListByStockItem(ctx, stockItemID)
	if err != nil {
		return ReconcileResult{}, err
	}
	folded, err := domaininv.Fold(entries)
	if err != nil {
		return ReconcileResult{}, err
	}
	res := ReconcileResult{
		StockItemID:    item.ID,
		Quantity:       item.Quantity,
		LedgerQuantity: folded,
		Entries:        len(entries),
	}
	if !res.Consistent() {
		uc.log.Warn().
			Str("stock_item_id", item.ID).
			Int("quantity", item.Quantity).
			Int("ledger", folded).
			Msg("cantidad del lote no coincide con su historial")
	}
	return res, nil
}

// LowStock lotes con cantidad <= umbral configurado.
func (uc *StockLedgerUseCase) LowStock(ctx context.Context) ([]*entity.StockItem, error) {
	return uc.stockRepo.ListLowStock(ctx, uc.lowStockThreshold)
}

// LowStockThreshold umbral configurado.
func (uc *StockLedgerUseCase) LowStockThreshold() int { return uc.lowStockThreshold }

func (uc *StockLedgerUseCase) checkRefs(ctx context.Context, locationID, supplierID *string) error {
	if locationID != nil {
		loc, err := uc.locationRepo.GetByID(ctx, *locationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, *locationID)
		}
	}
	if supplierID != nil {
		sup, err := uc.supplierRepo.GetByID(ctx, *supplierID)
		if err != nil {
			return err
		}
		if sup == nil {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, *supplierID)
		}
	}
	return nil
}

func lockItem(ctx context.Context, stockRepo repository.StockItemRepository, id string) (*entity.StockItem, error) {
	item, err := stockRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
	}
	return item, nil
}

// applyAttributes copia en item los atributos informados que difieren y devuelve la lista de cambios.
func applyAttributes(item *entity.StockItem, attrs StockAttributes) []string {
	var changes []string
	if attrs.LocationID != nil && !sameString(item.LocationID, attrs.LocationID) {
		item.LocationID = copyString(attrs.LocationID)
		changes = append(changes, "location_id a "+*attrs.LocationID)
	}
	if attrs.SupplierID != nil && !sameString(item.SupplierID, attrs.SupplierID) {
		item.SupplierID = copyString(attrs.SupplierID)
		changes = append(changes, "supplier_id a "+*attrs.SupplierID)
	}
	if p := roundPrice(attrs.PurchasePrice); p != nil && !sameDecimal(item.PurchasePrice, p) {
		item.PurchasePrice = p
		changes = append(changes, "purchase_price a "+p.StringFixed(2))
	}
	if p := roundPrice(attrs.SalePrice); p != nil && !sameDecimal(item.SalePrice, p) {
		item.SalePrice = p
		changes = append(changes, "sale_price a "+p.StringFixed(2))
	}
	if attrs.ExpirationDate != nil && (item.ExpirationDate == nil || !item.ExpirationDate.Equal(*attrs.ExpirationDate)) {
		d := *attrs.ExpirationDate
		item.ExpirationDate = &d
		changes = append(changes, "expiration_date a "+d.Format("2006-01-02"))
	}
	return changes
}

func validatePrice(p *decimal.Decimal) error {
	if p != nil && p.IsNegative() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidPrice, p.String())
	}
	return nil
}

// roundPrice devuelve una copia redondeada a centavos.
func roundPrice(p *decimal.Decimal) *decimal.Decimal {
	if p == nil {
		return nil
	}
	r := p.Round(2)
	return &r
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameDecimal(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// actorPtr "" = sin actor (created_by NULL).
func actorPtr(actor string) *string {
	if actor == "" {
		return nil
	}
	return &actor
}
