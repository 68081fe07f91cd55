package entity

import "time"

// Supplier proveedor de lotes.
type Supplier struct {
	ID          string
	Name        string
	Description string
	Email       string
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SupplierSummary vista agregada de un proveedor sobre sus lotes.
type SupplierSummary struct {
	Supplier      Supplier
	ItemCount     int
	TotalQuantity int
}
