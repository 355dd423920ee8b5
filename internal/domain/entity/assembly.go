package entity

import "time"

// Estados de un ensamble.
const (
	AssemblyStatusInProgress = "IN_PROGRESS"
	AssemblyStatusPassedQC   = "PASSED_QC"
	AssemblyStatusFailedQC   = "FAILED_QC"
	AssemblyStatusShipped    = "SHIPPED" // terminal
)

// Assembly una unidad física en construcción.
type Assembly struct {
	ID             string
	ProductID      string
	SerialNumber   string // único global
	AssembledByID  string
	Status         string
	Notes          string
	StartTime      time.Time
	CompletionTime *time.Time
	// BatchesProcessed se marca una sola vez, cuando se enlazan los lotes al ensamble.
	BatchesProcessed bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AssemblyComponentBatch registro de asignación: cuánto de un lote consumió un ensamble para un componente.
type AssemblyComponentBatch struct {
	ID           string
	AssemblyID   string
	ComponentID  string
	StockBatchID string
	QuantityUsed int
}

// AssemblyStatusUpdate cambios aplicados al finalizar QC o al enviar.
type AssemblyStatusUpdate struct {
	Status           string
	CompletionTime   *time.Time
	BatchesProcessed bool
	UpdatedAt        time.Time
}

// IsQCStatus indica si el estado es un resultado de control de calidad.
func IsQCStatus(status string) bool {
	return status == AssemblyStatusPassedQC || status == AssemblyStatusFailedQC
}

// CanTransition valida el ciclo de vida. Reenviar el mismo estado se permite (no-op).
func CanTransition(from, to string) bool {
	if from == to {
		return from != "" && validStatus(to)
	}
	switch from {
	case AssemblyStatusInProgress:
		return IsQCStatus(to)
	case AssemblyStatusFailedQC:
		return to == AssemblyStatusInProgress
	case AssemblyStatusPassedQC:
		return to == AssemblyStatusShipped
	}
	return false
}

func validStatus(s string) bool {
	switch s {
	case AssemblyStatusInProgress, AssemblyStatusPassedQC, AssemblyStatusFailedQC, AssemblyStatusShipped:
		return true
	}
	return false
}
