package inventory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/Ensamblaje-api/internal/domain"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/allocation"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
)

// CreateAssembliesInput entrada para crear Quantity ensambles de un producto.
// SelectedBatches cubre el requerimiento agregado de todas las unidades.
// Con DeferAllocation no se aceptan lotes ni auto-asignación: los ensambles quedan con
// BatchesProcessed=false y los lotes se enlazan en FinalizeAssemblyQC.
type CreateAssembliesInput struct {
	ProductID       string
	Quantity        int
	SerialNumbers   []string
	AssembledByID   string
	Notes           string
	SelectedBatches []allocation.SelectedBatch
	AutoAllocate    bool            // sin selección: planificar FIFO sobre los lotes disponibles
	Distribution    allocation.Mode // fifo (default) | even
	DeferAllocation bool
}

// CreateAssembliesResult IDs creados, en el mismo orden que SerialNumbers.
type CreateAssembliesResult struct {
	AssemblyIDs []string
}

// CreateAssemblies valida seriales, BOM y asignación; luego persiste ensambles, registros de
// asignación y descuentos de stock en transacciones de a ChunkSize ensambles.
// Si falla el primer chunk no queda nada escrito; si falla uno posterior se devuelve
// *domain.ChunkFailureError con lo ya confirmado.
func (s *AssemblyService) CreateAssemblies(ctx context.Context, in CreateAssembliesInput) (*CreateAssembliesResult, error) {
	if in.ProductID == "" || in.AssembledByID == "" || in.Quantity < 1 || len(in.SerialNumbers) != in.Quantity {
		return nil, domain.ErrInvalidInput
	}

	// 1. Seriales únicos (antes de cualquier escritura)
	serials, dups, err := normalizeSerials(in.SerialNumbers)
	if err != nil {
		return nil, err
	}
	if len(dups) > 0 {
		return nil, &domain.DuplicateSerialError{Serials: dups}
	}
	existing, err := s.reads.Assemblies().FindExistingSerials(ctx, serials)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		sort.Strings(existing)
		return nil, &domain.DuplicateSerialError{Serials: existing}
	}

	// 2-4. BOM, selección, validación y reparto por unidad
	var units [][]allocation.Line
	if in.DeferAllocation {
		if len(in.SelectedBatches) > 0 || in.AutoAllocate {
			return nil, domain.ErrInvalidInput
		}
		if _, err := s.GetBOM(ctx, in.ProductID); err != nil {
			return nil, err
		}
	} else if units, err = s.allocateUnits(ctx, in); err != nil {
		return nil, err
	}

	now := s.now()
	assemblies := make([]*entity.Assembly, in.Quantity)
	ids := make([]string, in.Quantity)
	for i := range assemblies {
		ids[i] = uuid.New().String()
		assemblies[i] = &entity.Assembly{
			ID:               ids[i],
			ProductID:        in.ProductID,
			SerialNumber:     serials[i],
			AssembledByID:    in.AssembledByID,
			Status:           entity.AssemblyStatusInProgress,
			Notes:            in.Notes,
			StartTime:        now,
			BatchesProcessed: !in.DeferAllocation,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
	}

	// 5-6. Persistencia por chunks
	committed, err := s.chunks.Run(ctx, in.Quantity, func(ctx context.Context, c Chunk) error {
		err := s.txRunner.Run(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
			for _, a := range assemblies[c.Start:c.End] {
				if err := uow.Assemblies().Create(ctx, a); err != nil {
					return err
				}
			}
			if in.DeferAllocation {
				return nil
			}
			return s.persistLines(ctx, uow, ids[c.Start:c.End], units[c.Start:c.End])
		})
		if err != nil {
			return err
		}
		s.log.Info().
			Str("product_id", in.ProductID).
			Int("chunk", c.Index).
			Int("committed", c.End).
			Int("total", in.Quantity).
			Bool("deferred", in.DeferAllocation).
			Msg("chunk de ensambles confirmado")
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("product_id", in.ProductID).
			Int("committed", committed).
			Int("total", in.Quantity).
			Msg("creación de ensambles abortada")
		if committed == 0 {
			return nil, err
		}
		return nil, &domain.ChunkFailureError{
			Committed:   committed,
			Total:       in.Quantity,
			AssemblyIDs: ids[:committed],
			Err:         err,
		}
	}

	return &CreateAssembliesResult{AssemblyIDs: ids}, nil
}

// allocateUnits resuelve la BOM, arma la selección (explícita o FIFO automática), la valida contra
// el requerimiento agregado y la reparte por unidad.
func (s *AssemblyService) allocateUnits(ctx context.Context, in CreateAssembliesInput) ([][]allocation.Line, error) {
	bom, err := s.GetBOM(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	sel, err := allocation.NewSelection(in.SelectedBatches)
	if err != nil {
		return nil, err
	}
	if len(bom) > 0 && len(sel) == 0 {
		if !in.AutoAllocate {
			return nil, domain.ErrAllocationRequired
		}
		if sel, err = planFIFO(ctx, s.reads.Batches(), bom, in.Quantity); err != nil {
			return nil, err
		}
	}

	batches, err := s.reads.Batches().GetByIDs(ctx, sel.BatchIDs())
	if err != nil {
		return nil, err
	}
	if err := allocation.Validate(bom, in.Quantity, sel, batches); err != nil {
		return nil, err
	}
	return allocation.AssignUnits(bom, in.Quantity, sel, in.Distribution)
}
