package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// ProductUseCase alta de productos, categorías y cambios de precio. El stock se maneja por lotes.
type ProductUseCase struct {
	txRunner     CatalogTxRunner
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	historyRepo  repository.PriceHistoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner CatalogTxRunner,
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	historyRepo repository.PriceHistoryRepository,
) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, categoryRepo: categoryRepo, historyRepo: historyRepo}
}

// Create crea un producto. Si SKU o código de barras vienen vacíos se generan.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if err := nonNegative(in.CostPrice, in.SalePrice); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		cat, err := uc.categoryRepo.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, *in.CategoryID)
		}
	}
	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		sku = inventory.NewSKU()
	}
	barcode := strings.TrimSpace(in.Barcode)
	if barcode == "" {
		barcode = inventory.NewBarcode()
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		SKU:         sku,
		Barcode:     barcode,
		CostPrice:   round2(in.CostPrice),
		SalePrice:   round2(in.SalePrice),
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// List lista todos los productos por nombre.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// UpdatePrices cambia los precios del producto y deja una fila de PriceHistory en la misma
// transacción. Sin cambios no escribe nada. Los lotes conservan su propio precio.
func (uc *ProductUseCase) UpdatePrices(ctx context.Context, id string, in dto.UpdatePricesRequest, actor string) (*dto.ProductResponse, error) {
	if err := nonNegative(in.CostPrice, in.SalePrice); err != nil {
		return nil, err
	}
	var result *entity.Product
	err := uc.txRunner.RunCatalog(ctx, func(
		productRepo repository.ProductRepository,
		historyRepo repository.PriceHistoryRepository,
	) error {
		product, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		newCost, newSale := round2(in.CostPrice), round2(in.SalePrice)
		if equalPrice(product.CostPrice, newCost) && equalPrice(product.SalePrice, newSale) {
			result = product
			return nil
		}
		now := time.Now()
		h := &entity.PriceHistory{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			OldCostPrice: product.CostPrice,
			NewCostPrice: newCost,
			OldSalePrice: product.SalePrice,
			NewSalePrice: newSale,
			CreatedAt:    now,
		}
		if actor != "" {
			h.CreatedBy = &actor
		}
		product.CostPrice, product.SalePrice, product.UpdatedAt = newCost, newSale, now
		if err := productRepo.UpdatePrices(ctx, product); err != nil {
			return err
		}
		if err := historyRepo.Create(ctx, h); err != nil {
			return err
		}
		result = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(result), nil
}

// PriceHistory cambios de precio del producto, más recientes primero.
func (uc *ProductUseCase) PriceHistory(ctx context.Context, productID string) ([]dto.PriceHistoryResponse, error) {
	list, err := uc.historyRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PriceHistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, dto.PriceHistoryResponse{
			OldCostPrice: h.OldCostPrice,
			NewCostPrice: h.NewCostPrice,
			OldSalePrice: h.OldSalePrice,
			NewSalePrice: h.NewSalePrice,
			CreatedBy:    h.CreatedBy,
			CreatedAt:    h.CreatedAt,
		})
	}
	return out, nil
}

// CreateCategory crea una categoría.
func (uc *ProductUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ParentID:    in.ParentID,
		CreatedAt:   time.Now(),
	}
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, ParentID: c.ParentID}, nil
}

// ListCategories lista las categorías.
func (uc *ProductUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, ParentID: c.ParentID})
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		CostPrice:   p.CostPrice,
		SalePrice:   p.SalePrice,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func nonNegative(prices ...*decimal.Decimal) error {
	for _, p := range prices {
		if p != nil && p.IsNegative() {
			return fmt.Errorf("%w: %s", domain.ErrInvalidPrice, p.String())
		}
	}
	return nil
}

func round2(p *decimal.Decimal) *decimal.Decimal {
	if p == nil {
		return nil
	}
	r := p.Round(2)
	return &r
}

func equalPrice(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
