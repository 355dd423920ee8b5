package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock resumen del stock de un componente (materializado desde sus lotes, nunca almacenado).
type Stock struct {
	ComponentID     string
	OnHand          int
	BatchCount      int
	BelowMinimum    bool
	AverageUnitCost decimal.Decimal // costo promedio ponderado de lo disponible
	UpdatedAt       time.Time
}
