package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var (
	_ repository.StockItemRepository     = (*StockItemRepo)(nil)
	_ repository.StockTrackingRepository = (*TrackingRepo)(nil)
)

// StockItemRepo lotes en memoria. Los bloqueos FOR UPDATE no hacen falta: las transacciones
// del store ya son serializadas.
type StockItemRepo struct {
	acc access
}

// NewStockItemRepository repositorio fuera de transacción.
func NewStockItemRepository(s *Store) *StockItemRepo {
	return &StockItemRepo{acc: s.direct()}
}

func (r *StockItemRepo) Create(_ context.Context, item *entity.StockItem, entry *entity.StockItemTracking) error {
	return r.acc(true, func(st *state) error {
		for _, it := range st.items {
			if it.BatchNumber == item.BatchNumber {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateBatch, item.BatchNumber)
			}
		}
		if _, ok := st.products[item.ProductID]; !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
		}
		st.items[item.ID] = *item
		st.itemSeq[item.ID] = st.next()
		if entry != nil {
			id := item.ID
			entry.StockItemID = &id
			st.tracking = append(st.tracking, *entry)
		}
		return nil
	})
}

func (r *StockItemRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	var out *entity.StockItem
	err := r.acc(false, func(st *state) error {
		out = st.item(id)
		return nil
	})
	return out, err
}

func (r *StockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r *StockItemRepo) FindForMergeForUpdate(_ context.Context, productID string, locationID *string, excludeID string) (*entity.StockItem, error) {
	var out *entity.StockItem
	err := r.acc(false, func(st *state) error {
		for _, id := range st.itemIDsFIFO() {
			it := st.items[id]
			if it.ID == excludeID || it.ProductID != productID || !sameRef(it.LocationID, locationID) {
				continue
			}
			out = st.item(id)
			return nil
		}
		return nil
	})
	return out, err
}

func (r *StockItemRepo) FindOldestByBarcode(_ context.Context, barcode string, minQuantity int) (*entity.StockItem, error) {
	var out *entity.StockItem
	err := r.acc(false, func(st *state) error {
		for _, id := range st.itemIDsFIFO() {
			it := st.items[id]
			p, ok := st.products[it.ProductID]
			if !ok || barcode == "" || p.Barcode != barcode || it.Quantity < minQuantity {
				continue
			}
			out = st.item(id)
			return nil
		}
		return nil
	})
	return out, err
}

func (r *StockItemRepo) ApplyMovement(_ context.Context, entry *entity.StockItemTracking) (*entity.StockItem, error) {
	delta, err := inventory.EntryDelta(entry)
	if err != nil {
		return nil, err
	}
	if entry.StockItemID == nil {
		return nil, fmt.Errorf("%w: movimiento sin lote", domain.ErrInvalidInput)
	}
	var out *entity.StockItem
	err = r.acc(true, func(st *state) error {
		it, ok := st.items[*entry.StockItemID]
		if !ok {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, *entry.StockItemID)
		}
		if it.Quantity+delta < 0 {
			return fmt.Errorf("%w: el lote %s tiene %d", domain.ErrInsufficientStock, it.BatchNumber, it.Quantity)
		}
		it.Quantity += delta
		it.UpdatedAt = entry.CreatedAt
		st.items[it.ID] = it
		st.tracking = append(st.tracking, *entry)
		out = st.item(it.ID)
		return nil
	})
	return out, err
}

func (r *StockItemRepo) UpdateAttributes(_ context.Context, item *entity.StockItem, entry *entity.StockItemTracking) error {
	return r.acc(true, func(st *state) error {
		it, ok := st.items[item.ID]
		if !ok {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, item.ID)
		}
		it.LocationID = item.LocationID
		it.SupplierID = item.SupplierID
		it.PurchasePrice = item.PurchasePrice
		it.SalePrice = item.SalePrice
		it.ExpirationDate = item.ExpirationDate
		it.UpdatedAt = item.UpdatedAt
		st.items[it.ID] = it
		if entry != nil {
			st.tracking = append(st.tracking, *entry)
		}
		return nil
	})
}

func (r *StockItemRepo) Delete(_ context.Context, item *entity.StockItem, entry *entity.StockItemTracking) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.items[item.ID]; !ok {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, item.ID)
		}
		if entry != nil {
			st.tracking = append(st.tracking, *entry)
		}
		delete(st.items, item.ID)
		delete(st.itemSeq, item.ID)
		// ON DELETE SET NULL
		for i := range st.tracking {
			if ref := st.tracking[i].StockItemID; ref != nil && *ref == item.ID {
				st.tracking[i].StockItemID = nil
			}
		}
		for i := range st.saleItems {
			if ref := st.saleItems[i].StockItemID; ref != nil && *ref == item.ID {
				st.saleItems[i].StockItemID = nil
			}
		}
		return nil
	})
}

func (r *StockItemRepo) ListLowStock(_ context.Context, threshold int) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	err := r.acc(false, func(st *state) error {
		for _, id := range st.itemIDsFIFO() {
			if st.items[id].Quantity <= threshold {
				out = append(out, st.item(id))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out, err
}

// TrackingRepo lecturas del libro de movimientos en memoria.
type TrackingRepo struct {
	acc access
}

// NewTrackingRepository construye el repositorio.
func NewTrackingRepository(s *Store) *TrackingRepo {
	return &TrackingRepo{acc: s.direct()}
}

func (r *TrackingRepo) ListByStockItem(_ context.Context, stockItemID string) ([]*entity.StockItemTracking, error) {
	var out []*entity.StockItemTracking
	err := r.acc(false, func(st *state) error {
		for _, t := range st.tracking {
			if t.StockItemID != nil && *t.StockItemID == stockItemID {
				out = append(out, &t)
			}
		}
		return nil
	})
	return out, err
}

func (r *TrackingRepo) ListRecent(_ context.Context, limit int) ([]*entity.StockItemTracking, error) {
	var out []*entity.StockItemTracking
	err := r.acc(false, func(st *state) error {
		for i := len(st.tracking) - 1; i >= 0 && len(out) < limit; i-- {
			t := st.tracking[i]
			out = append(out, &t)
		}
		return nil
	})
	return out, err
}

// item copia del lote con los datos del producto; nil si no existe.
func (st *state) item(id string) *entity.StockItem {
	it, ok := st.items[id]
	if !ok {
		return nil
	}
	if p, ok := st.products[it.ProductID]; ok {
		it.ProductName = p.Name
		it.ProductBarcode = p.Barcode
	}
	return &it
}

// itemIDsFIFO ids de lotes por fecha de creación y orden de alta.
func (st *state) itemIDsFIFO() []string {
	ids := make([]string, 0, len(st.items))
	for id := range st.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := st.items[ids[i]], st.items[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return st.itemSeq[ids[i]] < st.itemSeq[ids[j]]
	})
	return ids
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
