// Package analytics contiene el resumen del dashboard: inventario, ventas, proveedores
// y últimos movimientos.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// DefaultRecentMovements número de movimientos en el widget del dashboard.
const DefaultRecentMovements = 5

// DashboardUseCase arma el resumen. Sólo lectura; delega todo en los repositorios.
type DashboardUseCase struct {
	analyticsRepo     repository.AnalyticsRepository
	trackingRepo      repository.StockTrackingRepository
	lowStockThreshold int
	recentLimit       int
	now               func() time.Time
}

// NewDashboardUseCase construye el caso de uso. Umbral o límite <= 0 toman el valor por defecto.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	trackingRepo repository.StockTrackingRepository,
	lowStockThreshold, recentLimit int,
) *DashboardUseCase {
	if lowStockThreshold <= 0 {
		lowStockThreshold = 10
	}
	if recentLimit <= 0 {
		recentLimit = DefaultRecentMovements
	}
	return &DashboardUseCase{
		analyticsRepo:     analyticsRepo,
		trackingRepo:      trackingRepo,
		lowStockThreshold: lowStockThreshold,
		recentLimit:       recentLimit,
		now:               time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cinco consultas en paralelo:
//  1. GetInventoryCounts(umbral)
//  2. GetSalesTotals(hoy)
//  3. GetSalesTotals(hoy - 7 días .. fin de hoy)
//  4. GetSupplierTotals
//  5. ListRecent(límite)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Hoy: [00:00, 00:00 del día siguiente)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)
	weekStart := todayStart.AddDate(0, 0, -7)

	type countsResult struct {
		c   repository.InventoryCounts
		err error
	}
	type salesResult struct {
		t   repository.SalesTotals
		err error
	}
	type suppliersResult struct {
		t   repository.SupplierTotals
		err error
	}
	type movementsResult struct {
		m   []dto.MovementResponse
		err error
	}

	countsCh := make(chan countsResult, 1)
	todayCh := make(chan salesResult, 1)
	weekCh := make(chan salesResult, 1)
	suppliersCh := make(chan suppliersResult, 1)
	movementsCh := make(chan movementsResult, 1)

	go func() {
		c, err := uc.analyticsRepo.GetInventoryCounts(ctx, uc.lowStockThreshold)
		countsCh <- countsResult{c, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.GetSalesTotals(ctx, todayStart, todayEnd)
		todayCh <- salesResult{t, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.GetSalesTotals(ctx, weekStart, todayEnd)
		weekCh <- salesResult{t, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.GetSupplierTotals(ctx)
		suppliersCh <- suppliersResult{t, err}
	}()
	go func() {
		list, err := uc.trackingRepo.ListRecent(ctx, uc.recentLimit)
		movementsCh <- movementsResult{dto.FromMovements(list), err}
	}()

	counts := <-countsCh
	today := <-todayCh
	week := <-weekCh
	suppliers := <-suppliersCh
	movements := <-movementsCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: inventario: %w", counts.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if week.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de la semana: %w", week.err)
	}
	if suppliers.err != nil {
		return nil, fmt.Errorf("dashboard: proveedores: %w", suppliers.err)
	}
	if movements.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos recientes: %w", movements.err)
	}

	return &dto.DashboardSummaryDTO{
		TotalProducts:        counts.c.TotalProducts,
		LowStockItems:        counts.c.LowStock,
		OutOfStockItems:      counts.c.OutOfStock,
		TotalStockQuantity:   counts.c.TotalQuantity,
		LowStockThreshold:    uc.lowStockThreshold,
		SalesTodayCount:      today.t.Count,
		SalesTodayRevenue:    today.t.Revenue.Round(2),
		SalesLastWeekCount:   week.t.Count,
		SalesLastWeekRevenue: week.t.Revenue.Round(2),
		TotalSuppliers:       suppliers.t.Suppliers,
		SupplierStockItems:   suppliers.t.SuppliedItems,
		SupplierQuantity:     suppliers.t.SuppliedUnits,
		RecentMovements:      movements.m,
		DateLabel:            monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
