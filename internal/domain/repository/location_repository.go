package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// LocationRepository puerto de persistencia para ubicaciones de stock.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.StockLocation) error
	GetByID(ctx context.Context, id string) (*entity.StockLocation, error)
	List(ctx context.Context) ([]*entity.StockLocation, error)
	// Delete borra la ubicación; los lotes que la referencian quedan sin ubicación.
	Delete(ctx context.Context, id string) error
	Summaries(ctx context.Context) ([]entity.LocationSummary, error)
}
