package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrDuplicateSerialNumber  = errors.New("número de serie duplicado")
	ErrAllocationRequired     = errors.New("se requiere asignación de lotes")
	ErrUnknownComponent       = errors.New("componente no requerido por la BOM")
	ErrQuantityMismatch       = errors.New("cantidad asignada no coincide con la BOM")
	ErrWrongComponentForBatch = errors.New("el lote no pertenece al componente")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidTransition      = errors.New("transición de estado no permitida")
	ErrTransactionTimeout     = errors.New("tiempo de transacción agotado")
	ErrChunkFailure           = errors.New("fallo en lote de transacciones")
)

// NotFoundError indica qué recurso (product, component, batch, assembly) no existe.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Resource, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// DuplicateSerialError lista los seriales repetidos en la solicitud o ya registrados.
type DuplicateSerialError struct {
	Serials []string
}

func (e *DuplicateSerialError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateSerialNumber, strings.Join(e.Serials, ", "))
}

func (e *DuplicateSerialError) Unwrap() error { return ErrDuplicateSerialNumber }

// UnknownComponentError lista los componentes asignados que la BOM no requiere.
type UnknownComponentError struct {
	ComponentIDs []string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownComponent, strings.Join(e.ComponentIDs, ", "))
}

func (e *UnknownComponentError) Unwrap() error { return ErrUnknownComponent }

// QuantityMismatchError cantidad requerida (BOM × unidades) vs. cantidad seleccionada.
type QuantityMismatchError struct {
	ComponentID string
	Required    int
	Selected    int
}

func (e *QuantityMismatchError) Error() string {
	return fmt.Sprintf("%s: componente %s requiere %d, seleccionado %d",
		ErrQuantityMismatch, e.ComponentID, e.Required, e.Selected)
}

func (e *QuantityMismatchError) Unwrap() error { return ErrQuantityMismatch }

// WrongComponentForBatchError el lote referenciado pertenece a otro componente.
type WrongComponentForBatchError struct {
	BatchID             string
	ExpectedComponentID string
	ActualComponentID   string
}

func (e *WrongComponentForBatchError) Error() string {
	return fmt.Sprintf("%s: lote %s es de %s, no de %s",
		ErrWrongComponentForBatch, e.BatchID, e.ActualComponentID, e.ExpectedComponentID)
}

func (e *WrongComponentForBatchError) Unwrap() error { return ErrWrongComponentForBatch }

// InsufficientStockError BatchID vacío significa faltante a nivel de componente (planificador FIFO).
type InsufficientStockError struct {
	ComponentID string
	BatchID     string
	Available   int
	Requested   int
}

// Shortfall unidades que faltan para cubrir lo solicitado.
func (e *InsufficientStockError) Shortfall() int {
	return e.Requested - e.Available
}

func (e *InsufficientStockError) Error() string {
	if e.BatchID == "" {
		return fmt.Sprintf("%s: componente %s disponible %d, solicitado %d (faltan %d)",
			ErrInsufficientStock, e.ComponentID, e.Available, e.Requested, e.Shortfall())
	}
	return fmt.Sprintf("%s: lote %s disponible %d, solicitado %d (faltan %d)",
		ErrInsufficientStock, e.BatchID, e.Available, e.Requested, e.Shortfall())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidTransitionError cambio de estado de ensamble no permitido.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// ChunkFailureError fallo después de que uno o más lotes de transacciones ya hicieron commit.
// Committed y AssemblyIDs describen lo que quedó persistido; Err es la causa original.
type ChunkFailureError struct {
	Committed   int
	Total       int
	AssemblyIDs []string
	Err         error
}

func (e *ChunkFailureError) Error() string {
	return fmt.Sprintf("%s: %d de %d ensambles creados antes del fallo: %v",
		ErrChunkFailure, e.Committed, e.Total, e.Err)
}

func (e *ChunkFailureError) Unwrap() []error { return []error{ErrChunkFailure, e.Err} }
