package entity

import "time"

// Product producto terminado con su lista de materiales (BOM).
type Product struct {
	ID        string
	SKU       string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BOMItem línea de la BOM: cantidad de un componente por unidad de producto (única por componente).
type BOMItem struct {
	ProductID        string
	ComponentID      string
	QuantityRequired int
}
