package repository

import (
	"context"

	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
)

// StockBatchRepository define el puerto para lotes de stock. Es el único recurso compartido en disputa:
// toda mutación ocurre dentro de una transacción (UnitOfWork).
type StockBatchRepository interface {
	Create(ctx context.Context, batch *entity.StockBatch) error
	GetByID(ctx context.Context, id string) (*entity.StockBatch, error)
	// GetByIDs devuelve los lotes encontrados indexados por ID; los faltantes simplemente no aparecen.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.StockBatch, error)
	// GetForUpdate como GetByIDs pero bloqueando las filas (SELECT FOR UPDATE, en orden de ID).
	GetForUpdate(ctx context.Context, ids []string) (map[string]*entity.StockBatch, error)
	// ListAvailableByComponent lotes con CurrentQuantity > 0 en orden FIFO.
	ListAvailableByComponent(ctx context.Context, componentID string) ([]*entity.StockBatch, error)
	// Decrement resta qty solo si CurrentQuantity >= qty; si no, devuelve *domain.InsufficientStockError.
	Decrement(ctx context.Context, batchID string, qty int) (*entity.StockBatch, error)
	// Increment devuelve stock al lote sin superar InitialQuantity.
	Increment(ctx context.Context, batchID string, qty int) error
	// NextSequence siguiente número de secuencia de lote para el componente.
	NextSequence(ctx context.Context, componentID string) (int, error)
}
