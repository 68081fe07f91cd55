package entity

import "time"

// Category agrupa productos. ParentID permite jerarquía simple.
type Category struct {
	ID          string
	Name        string
	Description string
	ParentID    *string
	CreatedAt   time.Time
}
