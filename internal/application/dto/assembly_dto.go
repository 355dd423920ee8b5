package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SelectedBatchRequest lote elegido por el usuario para un componente.
type SelectedBatchRequest struct {
	ComponentID  string `json:"component_id"`
	BatchID      string `json:"batch_id"`
	QuantityUsed int    `json:"quantity_used"`
}

// CreateAssembliesRequest body para POST /api/assemblies.
// selected_batches cubre el total (BOM × quantity); distribution: fifo (defecto) o even.
// defer_allocation crea los ensambles sin lotes; se enlazan en PATCH /api/assemblies/:id/qc.
type CreateAssembliesRequest struct {
	ProductID       string                 `json:"product_id"`
	Quantity        int                    `json:"quantity"`
	SerialNumbers   []string               `json:"serial_numbers"`
	AssembledByID   string                 `json:"assembled_by_id"`
	Notes           string                 `json:"notes,omitempty"`
	SelectedBatches []SelectedBatchRequest `json:"selected_batches"`
	AutoAllocate    bool                   `json:"auto_allocate,omitempty"`
	Distribution    string                 `json:"distribution,omitempty"`
	DeferAllocation bool                   `json:"defer_allocation,omitempty"`
}

// CreateAssembliesResponse IDs de los ensambles creados, en el orden de los seriales.
type CreateAssembliesResponse struct {
	AssemblyIDs []string `json:"assembly_ids"`
}

// UpdateAssemblyQCRequest body para PATCH /api/assemblies/:id/qc.
type UpdateAssemblyQCRequest struct {
	Status          string                 `json:"status"`
	SelectedBatches []SelectedBatchRequest `json:"selected_batches,omitempty"`
	AutoAllocate    bool                   `json:"auto_allocate,omitempty"`
}

// AssemblyResponse ensamble.
type AssemblyResponse struct {
	ID               string     `json:"id"`
	ProductID        string     `json:"product_id"`
	SerialNumber     string     `json:"serial_number"`
	AssembledByID    string     `json:"assembled_by_id"`
	Status           string     `json:"status"`
	Notes            string     `json:"notes,omitempty"`
	StartTime        time.Time  `json:"start_time"`
	CompletionTime   *time.Time `json:"completion_time,omitempty"`
	BatchesProcessed bool       `json:"batches_processed"`
}

// AllocationResponse registro de consumo de un lote por un ensamble.
type AllocationResponse struct {
	ComponentID  string `json:"component_id"`
	StockBatchID string `json:"stock_batch_id"`
	QuantityUsed int    `json:"quantity_used"`
}

// AssemblyDetailResponse ensamble con lotes consumidos y costo de materiales.
type AssemblyDetailResponse struct {
	AssemblyResponse
	Allocations  []AllocationResponse `json:"allocations"`
	MaterialCost decimal.Decimal      `json:"material_cost"`
}

// BOMItemResponse línea de la lista de materiales.
type BOMItemResponse struct {
	ComponentID      string `json:"component_id"`
	QuantityRequired int    `json:"quantity_required"`
}
