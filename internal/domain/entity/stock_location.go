package entity

import "time"

// StockLocation ubicación física de lotes (bodega, estante, vitrina).
// Borrar una ubicación deja location_id en NULL en sus lotes; no borra stock.
type StockLocation struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LocationSummary vista agregada de una ubicación: cantidad de lotes y unidades.
type LocationSummary struct {
	Location      StockLocation
	ItemCount     int
	TotalQuantity int
}
