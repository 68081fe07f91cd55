package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Errores del núcleo de inventario y ventas. Se devuelven envueltos con contexto
// (fmt.Errorf("%w: ...")); comparar siempre con errors.Is.
var (
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrOutOfStock        = errors.New("sin stock disponible")
	ErrDuplicateBatch    = errors.New("número de lote duplicado")
	ErrEmptySale         = errors.New("la venta no tiene líneas")
	ErrInvalidDiscount   = errors.New("descuento inválido")
	ErrNegativeTotal     = errors.New("el total de la venta es negativo")
	ErrPricingIncomplete = errors.New("hay líneas sin precio")
	ErrInvalidPrice      = errors.New("precio inválido")
	ErrItemNotFound      = errors.New("el lote no está en el carrito")
)
