package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var (
	_ repository.CategoryRepository     = (*CategoryRepo)(nil)
	_ repository.SupplierRepository     = (*SupplierRepo)(nil)
	_ repository.LocationRepository     = (*LocationRepo)(nil)
	_ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)
)

// ── Categorías ───────────────────────────────────────────────────────────────

// CategoryRepo categorías sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO categories (id, name, description, parent_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Description, c.ParentID, c.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría padre", domain.ErrNotFound)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx,
		`SELECT id, name, description, parent_id, created_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, parent_id, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// ── Proveedores ──────────────────────────────────────────────────────────────

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `s.id, s.name, s.description, s.email, s.phone, s.created_at, s.updated_at`

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO suppliers (id, name, description, email, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Description, s.Email, s.Phone, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers s WHERE s.id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Description, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	summaries, err := r.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Supplier, 0, len(summaries))
	for i := range summaries {
		list = append(list, &summaries[i].Supplier)
	}
	return list, nil
}

// Summaries proveedores con la cantidad de lotes y unidades que aportan.
func (r *SupplierRepo) Summaries(ctx context.Context) ([]entity.SupplierSummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+supplierColumns+`, COUNT(si.id), COALESCE(SUM(si.quantity), 0)
		FROM suppliers s
		LEFT JOIN stock_items si ON si.supplier_id = s.id
		GROUP BY s.id
		ORDER BY s.name`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var out []entity.SupplierSummary
	for rows.Next() {
		var sm entity.SupplierSummary
		s := &sm.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt,
			&sm.ItemCount, &sm.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// ── Ubicaciones ──────────────────────────────────────────────────────────────

// LocationRepo ubicaciones de stock sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.StockLocation) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO stock_locations (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.Name, l.Description, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.StockLocation, error) {
	var l entity.StockLocation
	err := r.q.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM stock_locations WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.StockLocation, error) {
	summaries, err := r.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.StockLocation, 0, len(summaries))
	for i := range summaries {
		list = append(list, &summaries[i].Location)
	}
	return list, nil
}

// Delete borra la ubicación; ON DELETE SET NULL deja los lotes y el tracking sin ubicación.
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
	}
	return nil
}

// Summaries ubicaciones con la cantidad de lotes y unidades.
func (r *LocationRepo) Summaries(ctx context.Context) ([]entity.LocationSummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT l.id, l.name, l.description, l.created_at, l.updated_at,
		       COUNT(si.id), COALESCE(SUM(si.quantity), 0)
		FROM stock_locations l
		LEFT JOIN stock_items si ON si.location_id = l.id
		GROUP BY l.id
		ORDER BY l.name`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var out []entity.LocationSummary
	for rows.Next() {
		var sm entity.LocationSummary
		l := &sm.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt,
			&sm.ItemCount, &sm.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// ── Historial de precios ─────────────────────────────────────────────────────

// PriceHistoryRepo historial de precios sobre PostgreSQL.
type PriceHistoryRepo struct {
	q Querier
}

// NewPriceHistoryRepository construye el adaptador.
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

func (r *PriceHistoryRepo) Create(ctx context.Context, h *entity.PriceHistory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO price_history (id, product_id, old_cost_price, new_cost_price, old_sale_price, new_sale_price, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		h.ID, h.ProductID, h.OldCostPrice, h.NewCostPrice, h.OldSalePrice, h.NewSalePrice, h.CreatedBy, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert price history: %w", err)
	}
	return nil
}

func (r *PriceHistoryRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.PriceHistory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, old_cost_price, new_cost_price, old_sale_price, new_sale_price, created_by, created_at
		FROM price_history WHERE product_id = $1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceHistory
	for rows.Next() {
		var h entity.PriceHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.OldCostPrice, &h.NewCostPrice,
			&h.OldSalePrice, &h.NewSalePrice, &h.CreatedBy, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan price history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
