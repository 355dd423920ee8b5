package repository

import (
	"context"

	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product y su BOM (DIP).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetBOM devuelve las líneas en orden de definición; slice vacío si el producto no tiene BOM.
	GetBOM(ctx context.Context, productID string) ([]entity.BOMItem, error)
}
