package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	acc access
}

// NewSaleRepository repositorio fuera de transacción.
func NewSaleRepository(s *Store) *SaleRepo {
	return &SaleRepo{acc: s.direct()}
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return fmt.Errorf("%w: venta %s", domain.ErrDuplicate, sale.ID)
		}
		header := *sale
		header.Items = nil
		st.sales[sale.ID] = header
		return nil
	})
}

func (r *SaleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.sales[item.SaleID]; !ok {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, item.SaleID)
		}
		st.saleItems = append(st.saleItems, *item)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.acc(false, func(st *state) error {
		out = st.sale(id)
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) UpdateStatus(_ context.Context, id, status string) error {
	return r.acc(true, func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
		}
		s.Status = status
		st.sales[id] = s
		return nil
	})
}

func (r *SaleRepo) UpdateItemReturned(_ context.Context, itemID string, returnedQuantity int) error {
	return r.acc(true, func(st *state) error {
		for i := range st.saleItems {
			if st.saleItems[i].ID == itemID {
				st.saleItems[i].ReturnedQuantity = returnedQuantity
				return nil
			}
		}
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, itemID)
	})
}

func (r *SaleRepo) List(_ context.Context, from, to time.Time) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.acc(false, func(st *state) error {
		for id, s := range st.sales {
			if !s.CreatedAt.Before(from) && s.CreatedAt.Before(to) {
				out = append(out, st.sale(id))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

// sale copia de la venta con sus líneas; nil si no existe.
func (st *state) sale(id string) *entity.Sale {
	s, ok := st.sales[id]
	if !ok {
		return nil
	}
	s.Items = nil
	for _, it := range st.saleItems {
		if it.SaleID == id {
			s.Items = append(s.Items, &it)
		}
	}
	return &s
}
