// Package cart implementa el carrito de caja: líneas pendientes de venta por sesión que se
// confirman con SaleUseCase.CreateSale o se descartan. El estado viaja explícito en cada llamada.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// CartUseCase operaciones del carrito. No guarda estado propio.
type CartUseCase struct {
	stock    StockLookup
	products ProductLookup
	sales    SaleCreator
	store    Store
	log      *logger.Logger
}

// NewCartUseCase construye el caso de uso. store puede ser nil si solo se usan las
// operaciones sobre un *entity.Cart explícito.
func NewCartUseCase(stock StockLookup, products ProductLookup, sales SaleCreator, store Store, log *logger.Logger) *CartUseCase {
	return &CartUseCase{
		stock:    stock,
		products: products,
		sales:    sales,
		store:    store,
		log:      logger.OrNop(log).Component("cart"),
	}
}

// AddItem agrega quantity unidades del lote más antiguo del código de barras que tenga
// stock suficiente (FIFO). Si el lote ya está en el carrito, acumula.
func (uc *CartUseCase) AddItem(ctx context.Context, cart *entity.Cart, barcode string, quantity int) (*entity.CartLine, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}
	if barcode == "" {
		return nil, fmt.Errorf("%w: código de barras requerido", domain.ErrInvalidInput)
	}
	item, err := uc.stock.FindOldestByBarcode(ctx, barcode, quantity)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: código %s", domain.ErrOutOfStock, barcode)
	}

	if line := cart.Line(item.ID); line != nil {
		total := line.Quantity + quantity
		if total > item.Quantity {
			return nil, fmt.Errorf("%w: %s tiene %d disponibles, el carrito pediría %d",
				domain.ErrInsufficientStock, line.ProductName, item.Quantity, total)
		}
		line.Quantity = total
		line.AvailableQuantity = item.Quantity
		cart.UpdatedAt = time.Now()
		return line, nil
	}

	product, err := uc.products.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	name := item.ProductName
	if name == "" && product != nil {
		name = product.Name
	}
	price := item.EffectiveSalePrice(product)
	line := &entity.CartLine{
		StockItemID:       item.ID,
		ProductID:         item.ProductID,
		ProductName:       name,
		Barcode:           barcode,
		Quantity:          quantity,
		SalePrice:         price,
		NeedsManualPrice:  price == nil,
		AvailableQuantity: item.Quantity,
	}
	cart.Lines = append(cart.Lines, line)
	cart.UpdatedAt = time.Now()
	return line, nil
}

// UpdateQuantity fija la cantidad de una línea contra el stock actual del lote.
func (uc *CartUseCase) UpdateQuantity(ctx context.Context, cart *entity.Cart, stockItemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}
	line := cart.Line(stockItemID)
	if line == nil {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, stockItemID)
	}
	item, err := uc.stock.GetByID(ctx, stockItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: el lote %s ya no existe", domain.ErrOutOfStock, stockItemID)
	}
	if quantity > item.Quantity {
		return fmt.Errorf("%w: %s tiene %d disponibles, se pidieron %d",
			domain.ErrInsufficientStock, line.ProductName, item.Quantity, quantity)
	}
	line.Quantity = quantity
	line.AvailableQuantity = item.Quantity
	cart.UpdatedAt = time.Now()
	return nil
}

// SetManualPrice pone precio a una línea marcada como sin precio.
func (uc *CartUseCase) SetManualPrice(cart *entity.Cart, stockItemID string, price decimal.Decimal) error {
	line := cart.Line(stockItemID)
	if line == nil {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, stockItemID)
	}
	if !line.NeedsManualPrice {
		return fmt.Errorf("%w: %s ya tiene precio", domain.ErrInvalidPrice, line.ProductName)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: el precio debe ser mayor que cero (%s)", domain.ErrInvalidPrice, price.String())
	}
	p := price.Round(2)
	line.SalePrice = &p
	line.NeedsManualPrice = false
	cart.UpdatedAt = time.Now()
	return nil
}

// RemoveItem quita la línea del lote; no falla si no está.
func (uc *CartUseCase) RemoveItem(cart *entity.Cart, stockItemID string) {
	lines := cart.Lines[:0]
	for _, l := range cart.Lines {
		if l.StockItemID != stockItemID {
			lines = append(lines, l)
		}
	}
	cart.Lines = lines
	cart.UpdatedAt = time.Now()
}

// Clear vacía el carrito.
func (uc *CartUseCase) Clear(cart *entity.Cart) {
	cart.Lines = []*entity.CartLine{}
	cart.UpdatedAt = time.Now()
}

// Finalize confirma el carrito como venta. El carrito se vacía solo si la venta se confirmó.
func (uc *CartUseCase) Finalize(ctx context.Context, cart *entity.Cart, actor string, discount decimal.Decimal, notes string) (*entity.Sale, error) {
	if len(cart.Lines) == 0 {
		return nil, domain.ErrEmptySale
	}
	lines := make([]sales.SaleLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		if l.NeedsManualPrice || l.SalePrice == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrPricingIncomplete, l.ProductName)
		}
		lines = append(lines, sales.SaleLine{
			StockItemID: l.StockItemID,
			Quantity:    l.Quantity,
			UnitPrice:   *l.SalePrice,
		})
	}
	sale, err := uc.sales.CreateSale(ctx, sales.CreateSaleInput{
		Actor:          actor,
		Lines:          lines,
		DiscountAmount: discount,
		Notes:          notes,
	})
	if err != nil {
		return nil, err
	}
	uc.Clear(cart)
	uc.log.Info().Str("session_id", cart.SessionID).Str("sale_id", sale.ID).Msg("carrito confirmado")
	return sale, nil
}

// WithSession carga el carrito de la sesión bajo su candado, ejecuta fn y lo guarda si fn
// no devolvió error. Dos peticiones de la misma sesión (p. ej. un doble clic en "cobrar")
// se ejecutan una tras otra.
func (uc *CartUseCase) WithSession(ctx context.Context, sessionID string, fn func(cart *entity.Cart) error) (*entity.Cart, error) {
	if uc.store == nil {
		return nil, fmt.Errorf("carrito: store no configurado")
	}
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sesión requerida", domain.ErrInvalidInput)
	}
	unlock, err := uc.store.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			uc.log.Warn().Err(err).Str("session_id", sessionID).Msg("liberar candado del carrito")
		}
	}()

	cart, err := uc.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return cart, err
	}
	if err := uc.store.Save(ctx, cart); err != nil {
		if len(cart.Lines) > 0 {
			return nil, err
		}
		// Carrito vacío (p. ej. venta ya confirmada): borrar la sesión equivale a guardarla.
		if derr := uc.store.Delete(ctx, sessionID); derr != nil {
			return nil, errors.Join(err, derr)
		}
		uc.log.Warn().Err(err).Str("session_id", sessionID).Msg("guardar carrito vacío falló; sesión borrada")
	}
	return cart, nil
}
