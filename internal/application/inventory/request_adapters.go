package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/Ensamblaje-api/internal/application/dto"
	"github.com/jhoicas/Ensamblaje-api/internal/domain"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/allocation"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
)

// CreateAssembliesFromRequest adapta el request HTTP al caso de uso CreateAssemblies.
func (s *AssemblyService) CreateAssembliesFromRequest(ctx context.Context, in dto.CreateAssembliesRequest) (*CreateAssembliesResult, error) {
	mode, err := parseMode(in.Distribution)
	if err != nil {
		return nil, err
	}
	return s.CreateAssemblies(ctx, CreateAssembliesInput{
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		SerialNumbers:   in.SerialNumbers,
		AssembledByID:   in.AssembledByID,
		Notes:           in.Notes,
		SelectedBatches: toSelected(in.SelectedBatches),
		AutoAllocate:    in.AutoAllocate,
		Distribution:    mode,
		DeferAllocation: in.DeferAllocation,
	})
}

// FinalizeQCFromRequest adapta el request HTTP al caso de uso FinalizeAssemblyQC.
func (s *AssemblyService) FinalizeQCFromRequest(ctx context.Context, assemblyID string, in dto.UpdateAssemblyQCRequest) (*entity.Assembly, error) {
	return s.FinalizeAssemblyQC(ctx, FinalizeQCInput{
		AssemblyID:      assemblyID,
		Status:          strings.ToUpper(strings.TrimSpace(in.Status)),
		SelectedBatches: toSelected(in.SelectedBatches),
		AutoAllocate:    in.AutoAllocate,
	})
}

// ReceiveStockBatchFromRequest adapta el request HTTP al caso de uso ReceiveStockBatch.
func (s *AssemblyService) ReceiveStockBatchFromRequest(ctx context.Context, componentID string, in dto.ReceiveBatchRequest) (*entity.StockBatch, error) {
	input := ReceiveBatchInput{
		ComponentID: componentID,
		VendorID:    in.VendorID,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
	}
	if in.DateReceived != nil {
		input.DateReceived = *in.DateReceived
	}
	return s.ReceiveStockBatch(ctx, input)
}

func toSelected(in []dto.SelectedBatchRequest) []allocation.SelectedBatch {
	out := make([]allocation.SelectedBatch, 0, len(in))
	for _, b := range in {
		out = append(out, allocation.SelectedBatch{
			ComponentID:  b.ComponentID,
			BatchID:      b.BatchID,
			QuantityUsed: b.QuantityUsed,
		})
	}
	return out
}

func parseMode(s string) (allocation.Mode, error) {
	switch allocation.Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", allocation.ModeFIFO:
		return allocation.ModeFIFO, nil
	case allocation.ModeEven:
		return allocation.ModeEven, nil
	}
	return "", domain.ErrInvalidInput
}
