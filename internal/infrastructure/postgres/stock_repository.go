package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
// Las lecturas *ForUpdate solo bloquean dentro de una transacción.
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

const stockItemSelect = `
	SELECT si.id, si.product_id, si.quantity, si.expiration_date, si.batch_number,
	       si.purchase_price, si.sale_price, si.location_id, si.supplier_id, si.created_by,
	       si.created_at, si.updated_at, p.name, COALESCE(p.barcode, '')
	FROM stock_items si
	JOIN products p ON p.id = si.product_id`

// Create inserta el lote y su fila ADD.
func (r *StockItemRepo) Create(ctx context.Context, item *entity.StockItem, entry *entity.StockItemTracking) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_items (id, product_id, quantity, expiration_date, batch_number, purchase_price,
		                         sale_price, location_id, supplier_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		item.ID, item.ProductID, item.Quantity, item.ExpirationDate, item.BatchNumber, item.PurchasePrice,
		item.SalePrice, item.LocationID, item.SupplierID, item.CreatedBy, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateBatch, item.BatchNumber)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, constraintName(err))
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	if entry == nil {
		return nil
	}
	id := item.ID
	entry.StockItemID = &id
	return insertTracking(ctx, r.q, entry)
}

// GetByID obtiene un lote con los datos de su producto.
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.getOne(ctx, stockItemSelect+` WHERE si.id = $1`, id)
}

// GetForUpdate lee el lote y bloquea su fila hasta el fin de la transacción.
func (r *StockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.getOne(ctx, stockItemSelect+` WHERE si.id = $1 FOR UPDATE OF si`, id)
}

// FindForMergeForUpdate lote más antiguo del producto en la ubicación, bloqueado.
func (r *StockItemRepo) FindForMergeForUpdate(ctx context.Context, productID string, locationID *string, excludeID string) (*entity.StockItem, error) {
	return r.getOne(ctx, stockItemSelect+`
		WHERE si.product_id = $1 AND si.location_id IS NOT DISTINCT FROM $2 AND si.id <> $3
		ORDER BY si.created_at, si.seq
		LIMIT 1
		FOR UPDATE OF si`, productID, locationID, excludeID)
}

// FindOldestByBarcode FIFO: lote más antiguo con al menos minQuantity unidades.
func (r *StockItemRepo) FindOldestByBarcode(ctx context.Context, barcode string, minQuantity int) (*entity.StockItem, error) {
	if barcode == "" {
		return nil, nil
	}
	return r.getOne(ctx, stockItemSelect+`
		WHERE p.barcode = $1 AND si.quantity >= $2
		ORDER BY si.created_at, si.seq
		LIMIT 1`, barcode, minQuantity)
}

// ApplyMovement aplica el delta del movimiento con un UPDATE condicionado y guarda la fila.
// Si la condición quantity + delta >= 0 no se cumple no se escribe nada.
func (r *StockItemRepo) ApplyMovement(ctx context.Context, entry *entity.StockItemTracking) (*entity.StockItem, error) {
	delta, err := inventory.EntryDelta(entry)
	if err != nil {
		return nil, err
	}
	if entry.StockItemID == nil {
		return nil, fmt.Errorf("%w: movimiento sin lote", domain.ErrInvalidInput)
	}
	id := *entry.StockItemID
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_items SET quantity = quantity + $2, updated_at = $3
		WHERE id = $1 AND quantity + $2 >= 0`, id, delta, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("apply movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: el lote %s tiene %d", domain.ErrInsufficientStock, current.BatchNumber, current.Quantity)
	}
	if err := insertTracking(ctx, r.q, entry); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// UpdateAttributes guarda los atributos editables (nunca la cantidad) y la fila UPDATE.
func (r *StockItemRepo) UpdateAttributes(ctx context.Context, item *entity.StockItem, entry *entity.StockItemTracking) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_items
		SET location_id = $2, supplier_id = $3, purchase_price = $4, sale_price = $5,
		    expiration_date = $6, updated_at = $7
		WHERE id = $1`,
		item.ID, item.LocationID, item.SupplierID, item.PurchasePrice, item.SalePrice,
		item.ExpirationDate, item.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, constraintName(err))
		}
		return fmt.Errorf("update stock item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: lote %s", domain.ErrNotFound, item.ID)
	}
	if entry == nil {
		return nil
	}
	return insertTracking(ctx, r.q, entry)
}

// Delete escribe la fila REMOVE y borra el lote. ON DELETE SET NULL desliga su historial.
func (r *StockItemRepo) Delete(ctx context.Context, item *entity.StockItem, entry *entity.StockItemTracking) error {
	if entry != nil {
		if err := insertTracking(ctx, r.q, entry); err != nil {
			return err
		}
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_items WHERE id = $1`, item.ID)
	if err != nil {
		return fmt.Errorf("delete stock item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: lote %s", domain.ErrNotFound, item.ID)
	}
	return nil
}

// ListLowStock lotes con cantidad <= threshold, de menor a mayor.
func (r *StockItemRepo) ListLowStock(ctx context.Context, threshold int) ([]*entity.StockItem, error) {
	rows, err := r.q.Query(ctx, stockItemSelect+`
		WHERE si.quantity <= $1
		ORDER BY si.quantity, si.created_at, si.seq`, threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		it, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *StockItemRepo) getOne(ctx context.Context, query string, args ...any) (*entity.StockItem, error) {
	it, err := scanStockItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return it, nil
}

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var s entity.StockItem
	err := row.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.ExpirationDate, &s.BatchNumber,
		&s.PurchasePrice, &s.SalePrice, &s.LocationID, &s.SupplierID, &s.CreatedBy,
		&s.CreatedAt, &s.UpdatedAt, &s.ProductName, &s.ProductBarcode)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
