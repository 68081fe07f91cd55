package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y sus líneas sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, total_amount, discount_applied, discount_amount, status, notes, created_by, created_at`

// Create inserta la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `INSERT INTO sales (`+saleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.TotalAmount, s.DiscountApplied, s.DiscountAmount, s.Status, s.Notes, s.CreatedBy, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: venta %s", domain.ErrDuplicate, s.ID)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem inserta una línea de venta.
func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_items (id, sale_id, stock_item_id, product_id, product_name, quantity, sale_price, returned_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		it.ID, it.SaleID, it.StockItemID, it.ProductID, it.ProductName, it.Quantity, it.SalePrice, it.ReturnedQuantity,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, constraintName(err))
		}
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID devuelve la venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getWithItems(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate como GetByID, bloqueando la cabecera (serializa devoluciones de la misma venta).
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getWithItems(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) getWithItems(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, stock_item_id, product_id, product_name, quantity, sale_price, returned_quantity
		FROM sale_items WHERE sale_id = $1 ORDER BY seq`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.StockItemID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.SalePrice, &it.ReturnedQuantity); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la venta.
func (r *SaleRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sales SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	return nil
}

// UpdateItemReturned fija las unidades devueltas de una línea.
func (r *SaleRepo) UpdateItemReturned(ctx context.Context, itemID string, returnedQuantity int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sale_items SET returned_quantity = $2 WHERE id = $1`, itemID, returnedQuantity)
	if err != nil {
		return fmt.Errorf("update sale item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, itemID)
	}
	return nil
}

// List ventas en [from, to), más recientes primero, con sus líneas.
func (r *SaleRepo) List(ctx context.Context, from, to time.Time) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales
		WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	// Las líneas se cargan después de cerrar rows: una tx no admite dos consultas abiertas.
	for _, s := range list {
		if s.Items, err = r.items(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.TotalAmount, &s.DiscountApplied, &s.DiscountAmount,
		&s.Status, &s.Notes, &s.CreatedBy, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
