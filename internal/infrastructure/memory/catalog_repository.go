package memory

import (
	"context"
	"fmt"
	"sort"

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

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ acc access }

// NewCategoryRepository construye el repositorio.
func NewCategoryRepository(s *Store) *CategoryRepo { return &CategoryRepo{acc: s.direct()} }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.acc(true, func(st *state) error {
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.acc(false, func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.acc(false, func(st *state) error {
		for _, c := range st.categories {
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ acc access }

// NewSupplierRepository construye el repositorio.
func NewSupplierRepository(s *Store) *SupplierRepo { return &SupplierRepo{acc: s.direct()} }

func (r *SupplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	return r.acc(true, func(st *state) error {
		st.suppliers[sup.ID] = *sup
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.acc(false, func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.acc(false, func(st *state) error {
		for _, s := range st.suppliers {
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *SupplierRepo) Summaries(_ context.Context) ([]entity.SupplierSummary, error) {
	var out []entity.SupplierSummary
	err := r.acc(false, func(st *state) error {
		for _, s := range st.suppliers {
			sum := entity.SupplierSummary{Supplier: s}
			for _, it := range st.items {
				if it.SupplierID != nil && *it.SupplierID == s.ID {
					sum.ItemCount++
					sum.TotalQuantity += it.Quantity
				}
			}
			out = append(out, sum)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Supplier.Name < out[j].Supplier.Name })
	return out, err
}

// LocationRepo ubicaciones en memoria.
type LocationRepo struct{ acc access }

// NewLocationRepository construye el repositorio.
func NewLocationRepository(s *Store) *LocationRepo { return &LocationRepo{acc: s.direct()} }

func (r *LocationRepo) Create(_ context.Context, l *entity.StockLocation) error {
	return r.acc(true, func(st *state) error {
		st.locations[l.ID] = *l
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.StockLocation, error) {
	var out *entity.StockLocation
	err := r.acc(false, func(st *state) error {
		if l, ok := st.locations[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) List(_ context.Context) ([]*entity.StockLocation, error) {
	var out []*entity.StockLocation
	err := r.acc(false, func(st *state) error {
		for _, l := range st.locations {
			out = append(out, &l)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// Delete borra la ubicación y deja sin ubicación a sus lotes y filas de tracking.
func (r *LocationRepo) Delete(_ context.Context, id string) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.locations[id]; !ok {
			return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
		}
		delete(st.locations, id)
		for k, it := range st.items {
			if it.LocationID != nil && *it.LocationID == id {
				it.LocationID = nil
				st.items[k] = it
			}
		}
		for i := range st.tracking {
			if t := st.tracking[i].LocationFromID; t != nil && *t == id {
				st.tracking[i].LocationFromID = nil
			}
			if t := st.tracking[i].LocationToID; t != nil && *t == id {
				st.tracking[i].LocationToID = nil
			}
		}
		return nil
	})
}

func (r *LocationRepo) Summaries(_ context.Context) ([]entity.LocationSummary, error) {
	var out []entity.LocationSummary
	err := r.acc(false, func(st *state) error {
		for _, l := range st.locations {
			sum := entity.LocationSummary{Location: l}
			for _, it := range st.items {
				if it.LocationID != nil && *it.LocationID == l.ID {
					sum.ItemCount++
					sum.TotalQuantity += it.Quantity
				}
			}
			out = append(out, sum)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Location.Name < out[j].Location.Name })
	return out, err
}

// PriceHistoryRepo historial de precios en memoria.
type PriceHistoryRepo struct{ acc access }

// NewPriceHistoryRepository construye el repositorio.
func NewPriceHistoryRepository(s *Store) *PriceHistoryRepo { return &PriceHistoryRepo{acc: s.direct()} }

func (r *PriceHistoryRepo) Create(_ context.Context, h *entity.PriceHistory) error {
	return r.acc(true, func(st *state) error {
		st.prices = append(st.prices, *h)
		return nil
	})
}

func (r *PriceHistoryRepo) ListByProduct(_ context.Context, productID string) ([]*entity.PriceHistory, error) {
	var out []*entity.PriceHistory
	err := r.acc(false, func(st *state) error {
		for i := len(st.prices) - 1; i >= 0; i-- {
			if st.prices[i].ProductID == productID {
				h := st.prices[i]
				out = append(out, &h)
			}
		}
		return nil
	})
	return out, err
}
