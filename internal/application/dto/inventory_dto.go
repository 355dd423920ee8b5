package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveBatchRequest body para POST /api/components/:id/batches.
type ReceiveBatchRequest struct {
	VendorID     string          `json:"vendor_id"`
	Quantity     int             `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	DateReceived *time.Time      `json:"date_received,omitempty"`
}

// StockBatchResponse lote de stock.
type StockBatchResponse struct {
	ID              string          `json:"id"`
	ComponentID     string          `json:"component_id"`
	VendorID        string          `json:"vendor_id"`
	BatchNumber     string          `json:"batch_number"`
	InitialQuantity int             `json:"initial_quantity"`
	CurrentQuantity int             `json:"current_quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	DateReceived    time.Time       `json:"date_received"`
}

// ComponentStockResponse stock disponible de un componente.
type ComponentStockResponse struct {
	ComponentID     string          `json:"component_id"`
	OnHand          int             `json:"on_hand"`
	BatchCount      int             `json:"batch_count"`
	BelowMinimum    bool            `json:"below_minimum"` // on_hand < minimum_quantity
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
}
