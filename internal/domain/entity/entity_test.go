package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{entity.AssemblyStatusInProgress, entity.AssemblyStatusPassedQC, true},
		{entity.AssemblyStatusInProgress, entity.AssemblyStatusFailedQC, true},
		{entity.AssemblyStatusInProgress, entity.AssemblyStatusShipped, false},
		{entity.AssemblyStatusFailedQC, entity.AssemblyStatusInProgress, true},
		{entity.AssemblyStatusPassedQC, entity.AssemblyStatusShipped, true},
		{entity.AssemblyStatusPassedQC, entity.AssemblyStatusFailedQC, false},
		{entity.AssemblyStatusShipped, entity.AssemblyStatusInProgress, false},
		{entity.AssemblyStatusPassedQC, entity.AssemblyStatusPassedQC, true},
		{entity.AssemblyStatusInProgress, "DONE", false},
		{"DONE", "DONE", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, entity.CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSortFIFO_FechaLuegoNumeroDeLote(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	batches := []*entity.StockBatch{
		{ID: "c", BatchNumber: "RES-0003", DateReceived: t0.AddDate(0, 0, 1)},
		{ID: "b", BatchNumber: "RES-0002", DateReceived: t0},
		{ID: "a", BatchNumber: "RES-0001", DateReceived: t0},
	}
	entity.SortFIFO(batches)

	assert.Equal(t, "a", batches[0].ID)
	assert.Equal(t, "b", batches[1].ID)
	assert.Equal(t, "c", batches[2].ID)
}

func TestFormatBatchNumber(t *testing.T) {
	assert.Equal(t, "RES-10K-0007", entity.FormatBatchNumber("RES-10K", 7))
	assert.Equal(t, "CPU-12345", entity.FormatBatchNumber("CPU", 12345))
}
