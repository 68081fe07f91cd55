package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados del dashboard calculados sobre el store.
type AnalyticsRepo struct {
	acc access
}

// NewAnalyticsRepository construye el repositorio.
func NewAnalyticsRepository(s *Store) *AnalyticsRepo {
	return &AnalyticsRepo{acc: s.direct()}
}

func (r *AnalyticsRepo) GetInventoryCounts(_ context.Context, lowStockThreshold int) (repository.InventoryCounts, error) {
	var c repository.InventoryCounts
	err := r.acc(false, func(st *state) error {
		c.TotalProducts = len(st.products)
		for _, it := range st.items {
			if it.Quantity <= lowStockThreshold {
				c.LowStock++
			}
			if it.Quantity == 0 {
				c.OutOfStock++
			}
			c.TotalQuantity += it.Quantity
		}
		return nil
	})
	return c, err
}

func (r *AnalyticsRepo) GetSalesTotals(_ context.Context, from, to time.Time) (repository.SalesTotals, error) {
	t := repository.SalesTotals{Revenue: decimal.Zero}
	err := r.acc(false, func(st *state) error {
		for _, s := range st.sales {
			if !s.CreatedAt.Before(from) && s.CreatedAt.Before(to) {
				t.Count++
				t.Revenue = t.Revenue.Add(s.TotalAmount)
			}
		}
		return nil
	})
	return t, err
}

func (r *AnalyticsRepo) GetSupplierTotals(_ context.Context) (repository.SupplierTotals, error) {
	var t repository.SupplierTotals
	err := r.acc(false, func(st *state) error {
		t.Suppliers = len(st.suppliers)
		for _, it := range st.items {
			if it.SupplierID != nil {
				t.SuppliedItems++
				t.SuppliedUnits += it.Quantity
			}
		}
		return nil
	})
	return t, err
}
