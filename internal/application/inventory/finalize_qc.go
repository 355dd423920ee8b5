package inventory

import (
	"context"

	"github.com/jhoicas/Ensamblaje-api/internal/domain"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/allocation"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
)

// FinalizeQCInput cambio de estado de un ensamble; SelectedBatches cubre una unidad.
type FinalizeQCInput struct {
	AssemblyID      string
	Status          string
	SelectedBatches []allocation.SelectedBatch
	AutoAllocate    bool
}

// FinalizeAssemblyQC aplica el cambio de estado. Solo en IN_PROGRESS -> PASSED_QC/FAILED_QC, y si el
// ensamble aún no tiene lotes enlazados, valida la selección contra las filas bloqueadas, crea los
// registros de asignación y descuenta stock. Todo en una transacción; reintentos no re-enlazan.
func (s *AssemblyService) FinalizeAssemblyQC(ctx context.Context, in FinalizeQCInput) (*entity.Assembly, error) {
	if in.AssemblyID == "" || in.Status == "" {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Assembly
	linked := false
	err := s.txRunner.Run(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		a, err := uow.Assemblies().GetForUpdate(ctx, in.AssemblyID)
		if err != nil {
			return err
		}
		if a == nil {
			return &domain.NotFoundError{Resource: "assembly", ID: in.AssemblyID}
		}
		if !entity.CanTransition(a.Status, in.Status) {
			return &domain.InvalidTransitionError{From: a.Status, To: in.Status}
		}
		if a.Status == in.Status {
			updated = a
			return nil
		}

		now := s.now()
		upd := entity.AssemblyStatusUpdate{
			Status:           in.Status,
			CompletionTime:   a.CompletionTime,
			BatchesProcessed: a.BatchesProcessed,
			UpdatedAt:        now,
		}
		switch {
		case entity.IsQCStatus(in.Status):
			upd.CompletionTime = &now
		case in.Status == entity.AssemblyStatusInProgress:
			upd.CompletionTime = nil
		}

		if a.Status == entity.AssemblyStatusInProgress && entity.IsQCStatus(in.Status) && !a.BatchesProcessed {
			done, err := s.linkBatches(ctx, uow, a, in)
			if err != nil {
				return err
			}
			linked = done
			upd.BatchesProcessed = true
		} else if len(in.SelectedBatches) > 0 || in.AutoAllocate {
			s.log.Warn().
				Str("assembly_id", a.ID).
				Bool("batches_processed", a.BatchesProcessed).
				Msg("selección de lotes ignorada: el ensamble ya tiene lotes enlazados o la transición no los enlaza")
		}

		updated, err = uow.Assemblies().UpdateStatus(ctx, a.ID, upd)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("assembly_id", updated.ID).
		Str("status", updated.Status).
		Bool("batches_linked", linked).
		Msg("estado de ensamble actualizado")
	return updated, nil
}

// linkBatches enlaza los lotes de una unidad creada con asignación diferida. Devuelve false si ya
// existían registros de asignación (datos migrados sin el flag BatchesProcessed) o si la BOM está vacía.
func (s *AssemblyService) linkBatches(ctx context.Context, uow repository.UnitOfWork, a *entity.Assembly, in FinalizeQCInput) (bool, error) {
	existing, err := uow.Allocations().ListByAssembly(ctx, a.ID)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	bom, err := resolveBOM(ctx, uow.Products(), a.ProductID)
	if err != nil {
		return false, err
	}
	sel, err := allocation.NewSelection(in.SelectedBatches)
	if err != nil {
		return false, err
	}
	if len(bom) > 0 && len(sel) == 0 {
		if !in.AutoAllocate {
			return false, domain.ErrAllocationRequired
		}
		if sel, err = planFIFO(ctx, uow.Batches(), bom, 1); err != nil {
			return false, err
		}
	}

	locked, err := uow.Batches().GetForUpdate(ctx, sel.BatchIDs())
	if err != nil {
		return false, err
	}
	if err := allocation.Validate(bom, 1, sel, locked); err != nil {
		return false, err
	}
	units, err := allocation.AssignUnits(bom, 1, sel, allocation.ModeFIFO)
	if err != nil {
		return false, err
	}
	if err := s.persistLines(ctx, uow, []string{a.ID}, units); err != nil {
		return false, err
	}
	return len(bom) > 0, nil
}
