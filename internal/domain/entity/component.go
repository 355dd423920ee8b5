package entity

import "time"

// Component representa un tipo de pieza. El stock no vive aquí: es la suma de CurrentQuantity de sus lotes.
type Component struct {
	ID              string
	SKU             string // prefijo de los números de lote
	Name            string
	Category        string
	MinimumQuantity int // punto de reorden
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
