package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings traduce errores de dominio a respuesta HTTP. Se evalúan en orden con errors.Is.
var errorMappings = []errorMapping{
	{domain.ErrInvalidQuantity, fiber.StatusUnprocessableEntity, "INVALID_QUANTITY"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrOutOfStock, fiber.StatusConflict, "OUT_OF_STOCK"},
	{domain.ErrDuplicateBatch, fiber.StatusConflict, "DUPLICATE_BATCH"},
	{domain.ErrEmptySale, fiber.StatusUnprocessableEntity, "EMPTY_SALE"},
	{domain.ErrInvalidDiscount, fiber.StatusUnprocessableEntity, "INVALID_DISCOUNT"},
	{domain.ErrNegativeTotal, fiber.StatusUnprocessableEntity, "NEGATIVE_TOTAL"},
	{domain.ErrPricingIncomplete, fiber.StatusUnprocessableEntity, "PRICING_INCOMPLETE"},
	{domain.ErrInvalidPrice, fiber.StatusUnprocessableEntity, "INVALID_PRICE"},
	{domain.ErrItemNotFound, fiber.StatusNotFound, "ITEM_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// respondError escribe el ErrorResponse que corresponde a err. Lo no mapeado es 500 y
// se registra; el detalle interno no se devuelve al cliente.
func (h *handlerBase) respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	h.log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// parseBody decodifica el JSON y aplica las reglas validate de la estructura.
// Si falla ya escribió la respuesta 400 y devuelve ok=false.
func (h *handlerBase) parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(out); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "datos inválidos",
				Fields:  validationFields(ve),
			})
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return true, nil
}

// validationFields campo -> regla incumplida.
func validationFields(ve validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
