package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.StockTrackingRepository = (*TrackingRepo)(nil)

// TrackingRepo lecturas del libro de movimientos. Las escrituras pasan por StockItemRepo.
type TrackingRepo struct {
	q Querier
}

// NewTrackingRepository construye el adaptador.
func NewTrackingRepository(q Querier) *TrackingRepo {
	return &TrackingRepo{q: q}
}

const trackingColumns = `id, stock_item_id, movement_type, quantity, location_from_id, location_to_id, notes, created_by, created_at`

// ListByStockItem movimientos del lote en orden de escritura.
func (r *TrackingRepo) ListByStockItem(ctx context.Context, stockItemID string) ([]*entity.StockItemTracking, error) {
	return r.list(ctx, `SELECT `+trackingColumns+` FROM stock_item_tracking
		WHERE stock_item_id = $1 ORDER BY seq`, stockItemID)
}

// ListRecent últimos movimientos, el más reciente primero.
func (r *TrackingRepo) ListRecent(ctx context.Context, limit int) ([]*entity.StockItemTracking, error) {
	return r.list(ctx, `SELECT `+trackingColumns+` FROM stock_item_tracking
		ORDER BY seq DESC LIMIT $1`, limit)
}

func (r *TrackingRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockItemTracking, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tracking: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockItemTracking
	for rows.Next() {
		var t entity.StockItemTracking
		if err := rows.Scan(&t.ID, &t.StockItemID, &t.MovementType, &t.Quantity, &t.LocationFromID,
			&t.LocationToID, &t.Notes, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tracking: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// insertTracking agrega una fila al libro. Solo la usan las escrituras de StockItemRepo.
func insertTracking(ctx context.Context, q Querier, t *entity.StockItemTracking) error {
	_, err := q.Exec(ctx, `INSERT INTO stock_item_tracking (`+trackingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.StockItemID, t.MovementType, t.Quantity, t.LocationFromID,
		t.LocationToID, t.Notes, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tracking: %w", err)
	}
	return nil
}
