package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

const dateLayout = "2006-01-02"

// SaleHandler ventas directas, devoluciones y recibos.
type SaleHandler struct {
	handlerBase
	uc      *sales.SaleUseCase
	receipt *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler. receipt puede ser nil (sin PDF).
func NewSaleHandler(uc *sales.SaleUseCase, receipt *sales.ReceiptUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{handlerBase: newHandlerBase(log), uc: uc, receipt: receipt}
}

// Create godoc
// @Summary      Registrar una venta directa
// @Description  Valida cada línea contra el stock persistido y descuenta los lotes en la misma transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas y descuento"
// @Success      201   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := h.parseBody(c, &in); !ok {
		return err
	}
	lines := make([]sales.SaleLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, sales.SaleLine{StockItemID: l.StockItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	sale, err := h.uc.CreateSale(c.UserContext(), sales.CreateSaleInput{
		Actor:          GetUserID(c),
		Lines:          lines,
		DiscountAmount: in.DiscountAmount,
		Notes:          in.Notes,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSale(sale))
}

// Get godoc
// @Summary      Obtener una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	sale, err := h.uc.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(dto.FromSale(sale))
}

// List godoc
// @Summary      Listar ventas de un rango de fechas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Param        to    query  string  false  "YYYY-MM-DD inclusive (por defecto igual a from)"
// @Success      200   {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if q := c.Query("from"); q != "" {
		t, err := time.ParseInLocation(dateLayout, q, now.Location())
		if err != nil {
			return h.respondError(c, fmt.Errorf("%w: from debe ser YYYY-MM-DD", domain.ErrInvalidInput))
		}
		from = t
	}
	to := from
	if q := c.Query("to"); q != "" {
		t, err := time.ParseInLocation(dateLayout, q, now.Location())
		if err != nil {
			return h.respondError(c, fmt.Errorf("%w: to debe ser YYYY-MM-DD", domain.ErrInvalidInput))
		}
		to = t
	}
	list, err := h.uc.ListSales(c.UserContext(), from, to.AddDate(0, 0, 1))
	if err != nil {
		return h.respondError(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromSale(s))
	}
	return c.JSON(out)
}

// Return godoc
// @Summary      Registrar una devolución
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.ReturnSaleRequest  true  "Líneas devueltas"
// @Success      200   {object}  dto.SaleResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/returns [post]
func (h *SaleHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnSaleRequest
	if ok, err := h.parseBody(c, &in); !ok {
		return err
	}
	lines := make([]sales.ReturnLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, sales.ReturnLine{SaleItemID: l.SaleItemID, Quantity: l.Quantity})
	}
	sale, err := h.uc.ReturnItems(c.UserContext(), c.Params("id"), lines, in.Notes, GetUserID(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(dto.FromSale(sale))
}

// Receipt godoc
// @Summary      Descargar el recibo en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt.pdf [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	if h.receipt == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "recibos deshabilitados"})
	}
	pdf, filename, err := h.receipt.DownloadReceipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
