// Package inventory contiene las reglas puras del libro de stock: dirección de cada
// tipo de movimiento, fold del historial y generación de identificadores de lote.
package inventory

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// SignedDelta devuelve el efecto de un movimiento sobre la cantidad del lote.
// UPDATE es informativo y no mueve cantidad.
func SignedDelta(movementType string, quantity int) (int, error) {
	switch movementType {
	case entity.MovementAdd, entity.MovementIncrease:
		return quantity, nil
	case entity.MovementRemove, entity.MovementSale, entity.MovementDecrease, entity.MovementTransfer:
		return -quantity, nil
	case entity.MovementUpdate:
		return 0, nil
	}
	return 0, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, movementType)
}

// EntryDelta es SignedDelta aplicado a una fila de tracking.
func EntryDelta(entry *entity.StockItemTracking) (int, error) {
	if entry.Quantity < 0 {
		return 0, fmt.Errorf("%w: la fila de tracking no admite cantidades negativas", domain.ErrInvalidQuantity)
	}
	return SignedDelta(entry.MovementType, entry.Quantity)
}

// Fold suma los deltas de un historial. Para un lote vivo debe coincidir con su cantidad.
func Fold(entries []*entity.StockItemTracking) (int, error) {
	total := 0
	for _, e := range entries {
		d, err := EntryDelta(e)
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

// NewBatchNumber genera "<SKU>-<8 hex>". Sin SKU usa el prefijo "BATCH".
func NewBatchNumber(sku string) string {
	prefix := strings.TrimSpace(sku)
	if prefix == "" {
		prefix = "BATCH"
	}
	return prefix + "-" + randomHex(8)
}

// NewSKU genera "SKU-" + 8 hex en mayúsculas.
func NewSKU() string {
	return "SKU-" + randomHex(8)
}

// NewBarcode genera "BAR-" + 10 hex en mayúsculas.
func NewBarcode() string {
	return "BAR-" + randomHex(10)
}

// randomHex toma n dígitos hex (n <= 32) de un UUID v4.
func randomHex(n int) string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:n])
}
