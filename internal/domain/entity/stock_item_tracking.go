package entity

import "time"

// Tipos de movimiento de StockItemTracking. La dirección la da el tipo; Quantity es siempre >= 0.
const (
	MovementAdd      = "stock_added"    // alta de lote o recepción de traslado en lote nuevo
	MovementRemove   = "stock_removed"  // venta o baja del lote
	MovementTransfer = "transfer"       // salida por traslado (origen)
	MovementUpdate   = "update"         // cambio de atributos, informativo
	MovementSale     = "sale"           // reservado; cuenta como salida
	MovementIncrease = "stock_increase" // ajuste positivo, devolución o recepción en lote existente
	MovementDecrease = "stock_decrease" // ajuste negativo
)

// MovementTypes lista los tipos válidos.
var MovementTypes = []string{
	MovementAdd, MovementRemove, MovementTransfer, MovementUpdate,
	MovementSale, MovementIncrease, MovementDecrease,
}

// StockItemTracking registro append-only que justifica cada cambio de cantidad de un lote.
// StockItemID queda en nil si el lote se borra; Notes conserva la descripción tomada al escribir.
type StockItemTracking struct {
	ID             string
	StockItemID    *string
	MovementType   string
	Quantity       int
	LocationFromID *string
	LocationToID   *string
	Notes          string
	CreatedBy      *string
	CreatedAt      time.Time
}
