package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	acc access
}

// NewProductRepository repositorio fuera de transacción.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{acc: s.direct()}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.acc(true, func(st *state) error {
		for _, p := range st.products {
			if product.SKU != "" && p.SKU == product.SKU {
				return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, product.SKU)
			}
			if product.Barcode != "" && p.Barcode == product.Barcode {
				return fmt.Errorf("%w: código de barras %s", domain.ErrDuplicate, product.Barcode)
			}
		}
		st.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.acc(false, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	var out *entity.Product
	err := r.acc(false, func(st *state) error {
		for _, p := range st.products {
			if barcode != "" && p.Barcode == barcode {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.acc(false, func(st *state) error {
		for _, p := range st.products {
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *ProductRepo) UpdatePrices(_ context.Context, product *entity.Product) error {
	return r.acc(true, func(st *state) error {
		p, ok := st.products[product.ID]
		if !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, product.ID)
		}
		p.CostPrice = product.CostPrice
		p.SalePrice = product.SalePrice
		p.UpdatedAt = product.UpdatedAt
		st.products[p.ID] = p
		return nil
	})
}
