package repository

import (
	"context"

	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
)

// AssemblyRepository define el puerto de persistencia para ensambles.
type AssemblyRepository interface {
	// Create falla con domain.ErrDuplicateSerialNumber si el serial ya existe.
	Create(ctx context.Context, assembly *entity.Assembly) error
	GetByID(ctx context.Context, id string) (*entity.Assembly, error)
	// GetForUpdate bloquea la fila del ensamble hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Assembly, error)
	// FindExistingSerials devuelve cuáles de los seriales ya están registrados.
	FindExistingSerials(ctx context.Context, serials []string) ([]string, error)
	// UpdateStatus aplica el cambio y devuelve la fila confirmada en la misma transacción.
	UpdateStatus(ctx context.Context, id string, upd entity.AssemblyStatusUpdate) (*entity.Assembly, error)
	Delete(ctx context.Context, id string) error
}

// AllocationRepository define el puerto para los registros AssemblyComponentBatch.
type AllocationRepository interface {
	CreateMany(ctx context.Context, rows []entity.AssemblyComponentBatch) error
	ListByAssembly(ctx context.Context, assemblyID string) ([]entity.AssemblyComponentBatch, error)
	DeleteByAssembly(ctx context.Context, assemblyID string) error
}
