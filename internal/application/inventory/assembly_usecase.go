package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Ensamblaje-api/internal/domain"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/inventory"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
)

// AssemblyDetail ensamble con sus registros de asignación y costo de materiales.
type AssemblyDetail struct {
	Assembly     *entity.Assembly
	Allocations  []entity.AssemblyComponentBatch
	MaterialCost decimal.Decimal
}

// GetAssembly devuelve el ensamble con sus lotes consumidos.
func (s *AssemblyService) GetAssembly(ctx context.Context, id string) (*AssemblyDetail, error) {
	a, err := s.reads.Assemblies().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, &domain.NotFoundError{Resource: "assembly", ID: id}
	}
	rows, err := s.reads.Allocations().ListByAssembly(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.StockBatchID)
	}
	batches, err := s.reads.Batches().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &AssemblyDetail{
		Assembly:     a,
		Allocations:  rows,
		MaterialCost: inventory.MaterialCost(rows, batches),
	}, nil
}

// DeleteAssembly elimina un ensamble IN_PROGRESS junto con sus registros de asignación y
// devuelve a cada lote lo consumido, en una sola transacción.
func (s *AssemblyService) DeleteAssembly(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	err := s.txRunner.Run(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		a, err := uow.Assemblies().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return &domain.NotFoundError{Resource: "assembly", ID: id}
		}
		if a.Status != entity.AssemblyStatusInProgress {
			return &domain.InvalidTransitionError{From: a.Status, To: "DELETED"}
		}
		rows, err := uow.Allocations().ListByAssembly(ctx, id)
		if err != nil {
			return err
		}
		totals := make(map[string]int)
		for _, r := range rows {
			totals[r.StockBatchID] += r.QuantityUsed
		}
		batchIDs := make([]string, 0, len(totals))
		for bid := range totals {
			batchIDs = append(batchIDs, bid)
		}
		if _, err := uow.Batches().GetForUpdate(ctx, batchIDs); err != nil {
			return err
		}
		for _, bid := range batchIDs {
			if err := uow.Batches().Increment(ctx, bid, totals[bid]); err != nil {
				return err
			}
		}
		if err := uow.Allocations().DeleteByAssembly(ctx, id); err != nil {
			return err
		}
		return uow.Assemblies().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("assembly_id", id).Msg("ensamble eliminado, stock restituido")
	return nil
}
