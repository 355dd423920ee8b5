package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Ensamblaje-api/internal/domain"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/inventory"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
)

// ReceiveBatchInput recepción de un lote de proveedor.
type ReceiveBatchInput struct {
	ComponentID  string
	VendorID     string
	Quantity     int
	UnitCost     decimal.Decimal
	DateReceived time.Time // cero = ahora
}

// GetAvailableBatches lotes del componente con stock, del más antiguo al más reciente.
func (s *AssemblyService) GetAvailableBatches(ctx context.Context, componentID string) ([]*entity.StockBatch, error) {
	if _, err := s.getComponent(ctx, componentID); err != nil {
		return nil, err
	}
	batches, err := s.reads.Batches().ListAvailableByComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if batches == nil {
		batches = []*entity.StockBatch{}
	}
	return batches, nil
}

// GetComponentStock stock disponible del componente calculado desde sus lotes.
func (s *AssemblyService) GetComponentStock(ctx context.Context, componentID string) (*entity.Stock, error) {
	comp, err := s.getComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}
	batches, err := s.reads.Batches().ListAvailableByComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}
	onHand := 0
	for _, b := range batches {
		onHand += b.CurrentQuantity
	}
	return &entity.Stock{
		ComponentID:     comp.ID,
		OnHand:          onHand,
		BatchCount:      len(batches),
		BelowMinimum:    onHand < comp.MinimumQuantity,
		AverageUnitCost: inventory.AverageUnitCost(batches),
		UpdatedAt:       s.now(),
	}, nil
}

// ReceiveStockBatch registra un lote nuevo con el siguiente número de lote del componente.
func (s *AssemblyService) ReceiveStockBatch(ctx context.Context, in ReceiveBatchInput) (*entity.StockBatch, error) {
	if in.ComponentID == "" || in.VendorID == "" || in.Quantity <= 0 || in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := s.now()
	received := in.DateReceived
	if received.IsZero() {
		received = now
	}

	var batch *entity.StockBatch
	err := s.txRunner.Run(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		comp, err := uow.Components().GetByID(ctx, in.ComponentID)
		if err != nil {
			return err
		}
		if comp == nil {
			return &domain.NotFoundError{Resource: "component", ID: in.ComponentID}
		}
		seq, err := uow.Batches().NextSequence(ctx, comp.ID)
		if err != nil {
			return err
		}
		batch = &entity.StockBatch{
			ID:              uuid.New().String(),
			ComponentID:     comp.ID,
			VendorID:        in.VendorID,
			BatchNumber:     entity.FormatBatchNumber(comp.SKU, seq),
			InitialQuantity: in.Quantity,
			CurrentQuantity: in.Quantity,
			UnitCost:        in.UnitCost,
			DateReceived:    received,
			CreatedAt:       now,
		}
		return uow.Batches().Create(ctx, batch)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("component_id", batch.ComponentID).
		Str("batch_number", batch.BatchNumber).
		Int("quantity", batch.InitialQuantity).
		Msg("lote recibido")
	return batch, nil
}

func (s *AssemblyService) getComponent(ctx context.Context, id string) (*entity.Component, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	comp, err := s.reads.Components().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comp == nil {
		return nil, &domain.NotFoundError{Resource: "component", ID: id}
	}
	return comp, nil
}
