package entity

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// StockBatch lote de un componente recibido de un proveedor.
// Invariante: 0 <= CurrentQuantity <= InitialQuantity.
type StockBatch struct {
	ID              string
	ComponentID     string
	VendorID        string
	BatchNumber     string // único, secuencial por componente (SKU-0001)
	InitialQuantity int    // inmutable
	CurrentQuantity int
	UnitCost        decimal.Decimal
	DateReceived    time.Time
	CreatedAt       time.Time
}

// FormatBatchNumber arma el número de lote legible a partir del SKU del componente y la secuencia.
func FormatBatchNumber(sku string, seq int) string {
	return fmt.Sprintf("%s-%04d", sku, seq)
}

// SortFIFO ordena los lotes del más antiguo al más reciente (fecha de recepción, luego número de lote e ID).
func SortFIFO(batches []*StockBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if !a.DateReceived.Equal(b.DateReceived) {
			return a.DateReceived.Before(b.DateReceived)
		}
		if a.BatchNumber != b.BatchNumber {
			return a.BatchNumber < b.BatchNumber
		}
		return a.ID < b.ID
	})
}
