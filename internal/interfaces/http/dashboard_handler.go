package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-inventario/internal/application/analytics"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	handlerBase
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{handlerBase: newHandlerBase(log), uc: uc}
}

// GetSummary devuelve el resumen del inventario y de las ventas.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (conteos de productos y lotes, ventas de hoy y de los
// últimos 7 días, proveedores y últimos movimientos). Las fechas se calculan en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(summary)
}
