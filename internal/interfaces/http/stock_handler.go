package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// StockHandler endpoints del libro de stock (lotes y sus movimientos).
type StockHandler struct {
	handlerBase
	uc *inventory.StockLedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockLedgerUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{handlerBase: newHandlerBase(log), uc: uc}
}

// Create godoc
// @Summary      Dar de alta un lote
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequest  true  "Datos del lote"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRequest
	if ok, err := h.parseBody(c, &in); !ok {
		return err
	}
	item, err := h.uc.Create(c.UserContext(), inventory.CreateStockInput{
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		LocationID:     in.LocationID,
		SupplierID:     in.SupplierID,
		PurchasePrice:  in.PurchasePrice,
		SalePrice:      in.SalePrice,
		BatchNumber:    in.BatchNumber,
		ExpirationDate: in.ExpirationDate,
		Notes:          in.Notes,
		Actor:          GetUserID(c),
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromStockItem(item))
}

// Get godoc
// @Summary      Obtener lote
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	item, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(dto.FromStockItem(item))
}

// AdjustQuantity godoc
// @Summary      Fijar la cantidad de un lote (ajuste)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.AdjustQuantityRequest  true  "Cantidad nueva"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/quantity [put]
func (h *StockHandler) AdjustQuantity(c *fiber.Ctx) error {
	var in dto.AdjustQuantityRequest
	if ok, err := h.parseBody(c, &in); !ok {
		return err
	}
	item, err := h.uc.AdjustQuantity(c.UserContext(), c.Params("id"), *in.Quantity, in.Notes, GetUserID(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(dto.FromStockItem(item))
}

// UpdateAttributes godoc
// @Summary      Editar atributos de un lote (no la cantidad)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.UpdateStockRequest  true  "Atributos"
// @Success      200   {object}  dto.StockItemResponse
// @Router       /api/stock/{id} [patch]
func (h *StockHandler) UpdateAttributes(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if ok, err := h.parseBody(c, &in); !ok {
		return err
	}
	item, err := h.uc.UpdateAttributes(c.UserContext(), c.Params("id"), inventory.StockAttributes{
		LocationID:     in.LocationID,
		SupplierID:     in.SupplierID,
		PurchasePrice:  in.PurchasePrice,
		SalePrice:      in.SalePrice,
		ExpirationDate: in.ExpirationDate,
	}, in.Notes, GetUserID(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(dto.FromStockItem(item))
}

// Transfer godoc
// @Summary      Trasladar unidades a otra ubicación
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote de origen"
// @Param        body  body  dto.TransferStockRequest  true  "Cantidad y destino"
// @Success      200   {object}  dto.StockItemResponse  "lote de destino"
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if ok, err := h.parseBody(c, &in); !ok {
		return err
	}
	dest, err := h.uc.Transfer(c.UserContext(), c.Params("id"), in.Quantity, in.LocationID, in.Notes, GetUserID(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(dto.FromStockItem(dest))
}

// Delete godoc
// @Summary      Eliminar un lote (su historial se conserva)
// @Tags         stock
// @Security     Bearer
// @Param        id   path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id"), GetUserID(c)); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History godoc
// @Summary      Historial de movimientos y conciliación del lote
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.StockHistoryResponse
// @Router       /api/stock/{id}/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")
	rec, err := h.uc.Reconcile(ctx, id)
	if err != nil {
		return h.respondError(c, err)
	}
	entries, err := h.uc.History(ctx, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(dto.StockHistoryResponse{
		StockItemID:    rec.StockItemID,
		Quantity:       rec.Quantity,
		LedgerQuantity: rec.LedgerQuantity,
		Consistent:     rec.Consistent(),
		Movements:      dto.FromMovements(entries),
	})
}

// LowStock godoc
// @Summary      Lotes con stock bajo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockItemResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(dto.FromStockItems(items))
}
