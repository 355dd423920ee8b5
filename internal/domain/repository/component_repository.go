package repository

import (
	"context"

	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
)

// ComponentRepository define el puerto de lectura de componentes (DIP).
type ComponentRepository interface {
	// GetByID devuelve nil, nil si el componente no existe.
	GetByID(ctx context.Context, id string) (*entity.Component, error)
}
