package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
)

var _ repository.ComponentRepository = (*ComponentRepo)(nil)

// ComponentRepo implementación de ComponentRepository sobre PostgreSQL.
type ComponentRepo struct {
	q Querier
}

// NewComponentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComponentRepository(q Querier) *ComponentRepo {
	return &ComponentRepo{q: q}
}

// GetByID obtiene un componente por ID.
func (r *ComponentRepo) GetByID(ctx context.Context, id string) (*entity.Component, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, sku, name, category, minimum_quantity, created_at, updated_at
		FROM components WHERE id = $1`
	var c entity.Component
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.SKU, &c.Name, &c.Category, &c.MinimumQuantity, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get component: %w", err)
	}
	return &c, nil
}
