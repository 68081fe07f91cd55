package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// LocationHandler ubicaciones y proveedores.
type LocationHandler struct {
	handlerBase
	locations *usecase.LocationUseCase
	suppliers *usecase.SupplierUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(locations *usecase.LocationUseCase, suppliers *usecase.SupplierUseCase, log *logger.Logger) *LocationHandler {
	return &LocationHandler{handlerBase: newHandlerBase(log), locations: locations, suppliers: suppliers}
}

// CreateLocation godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "Ubicación"
// @Success      201   {object}  dto.LocationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if ok, err := h.parseBody(c, &in); !ok {
		return err
	}
	out, err := h.locations.Create(c.UserContext(), in)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLocations godoc
// @Summary      Listar ubicaciones con cantidad de lotes y unidades
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations [get]
func (h *LocationHandler) ListLocations(c *fiber.Ctx) error {
	list, err := h.locations.List(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(list)
}

// DeleteLocation godoc
// @Summary      Eliminar ubicación (los lotes quedan sin ubicación)
// @Tags         locations
// @Security     Bearer
// @Param        id   path  string  true  "ID de la ubicación"
// @Success      204
// @Router       /api/locations/{id} [delete]
func (h *LocationHandler) DeleteLocation(c *fiber.Ctx) error {
	if err := h.locations.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplierRequest  true  "Proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Router       /api/suppliers [post]
func (h *LocationHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if ok, err := h.parseBody(c, &in); !ok {
		return err
	}
	out, err := h.suppliers.Create(c.UserContext(), in)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SupplierResponse
// @Router       /api/suppliers [get]
func (h *LocationHandler) ListSuppliers(c *fiber.Ctx) error {
	list, err := h.suppliers.List(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(list)
}
