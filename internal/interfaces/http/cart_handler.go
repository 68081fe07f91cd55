package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/cart"
	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// CartHandler carrito del punto de venta. La sesión sale del token y de X-Cart-Session.
type CartHandler struct {
	handlerBase
	uc *cart.CartUseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.CartUseCase, log *logger.Logger) *CartHandler {
	return &CartHandler{handlerBase: newHandlerBase(log), uc: uc}
}

// session ejecuta fn sobre el carrito de la sesión y responde con el carrito resultante.
func (h *CartHandler) session(c *fiber.Ctx, fn func(*entity.Cart) error) error {
	updated, err := h.uc.WithSession(c.UserContext(), GetCartSession(c), fn)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(dto.FromCart(updated))
}

// Get godoc
// @Summary      Ver el carrito de la sesión
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        X-Cart-Session  header  string  false  "Sesión de caja"
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	return h.session(c, func(*entity.Cart) error { return nil })
}

// AddItem godoc
// @Summary      Agregar un producto por código de barras
// @Description  Escoge el lote con stock más antiguo; repetir el mismo código acumula la cantidad.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddCartItemRequest  true  "Código y cantidad"
// @Success      200   {object}  dto.CartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if ok, err := h.parseBody(c, &in); !ok {
		return err
	}
	ctx := c.UserContext()
	return h.session(c, func(ct *entity.Cart) error {
		_, err := h.uc.AddItem(ctx, ct, in.Barcode, in.Quantity)
		return err
	})
}

// UpdateQuantity godoc
// @Summary      Cambiar la cantidad de una línea
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        stockItemId  path  string  true  "Lote de la línea"
// @Param        body  body  dto.UpdateCartItemRequest  true  "Cantidad"
// @Success      200   {object}  dto.CartResponse
// @Router       /api/cart/items/{stockItemId} [put]
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	var in dto.UpdateCartItemRequest
	if ok, err := h.parseBody(c, &in); !ok {
		return err
	}
	ctx := c.UserContext()
	id := c.Params("stockItemId")
	return h.session(c, func(ct *entity.Cart) error {
		return h.uc.UpdateQuantity(ctx, ct, id, in.Quantity)
	})
}

// SetPrice godoc
// @Summary      Fijar precio manual de una línea
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        stockItemId  path  string  true  "Lote de la línea"
// @Param        body  body  dto.SetCartPriceRequest  true  "Precio"
// @Success      200   {object}  dto.CartResponse
// @Router       /api/cart/items/{stockItemId}/price [put]
func (h *CartHandler) SetPrice(c *fiber.Ctx) error {
	var in dto.SetCartPriceRequest
	if ok, err := h.parseBody(c, &in); !ok {
		return err
	}
	id := c.Params("stockItemId")
	return h.session(c, func(ct *entity.Cart) error {
		return h.uc.SetManualPrice(ct, id, in.Price)
	})
}

// RemoveItem godoc
// @Summary      Quitar una línea
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        stockItemId  path  string  true  "Lote de la línea"
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart/items/{stockItemId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	id := c.Params("stockItemId")
	return h.session(c, func(ct *entity.Cart) error {
		h.uc.RemoveItem(ct, id)
		return nil
	})
}

// Clear godoc
// @Summary      Vaciar el carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	return h.session(c, func(ct *entity.Cart) error {
		h.uc.Clear(ct)
		return nil
	})
}

// Finalize godoc
// @Summary      Cobrar el carrito
// @Description  Registra la venta con las líneas del carrito y lo vacía. Si falla, el carrito queda intacto.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FinalizeCartRequest  false  "Descuento y notas"
// @Success      201   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/cart/finalize [post]
func (h *CartHandler) Finalize(c *fiber.Ctx) error {
	var in dto.FinalizeCartRequest
	if len(c.Body()) > 0 {
		if ok, err := h.parseBody(c, &in); !ok {
			return err
		}
	}
	ctx := c.UserContext()
	actor := GetUserID(c)
	var sale *entity.Sale
	_, err := h.uc.WithSession(ctx, GetCartSession(c), func(ct *entity.Cart) error {
		s, err := h.uc.Finalize(ctx, ct, actor, in.DiscountAmount, in.Notes)
		sale = s
		return err
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSale(sale))
}
