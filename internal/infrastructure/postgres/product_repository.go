package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, sku, name, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.SKU, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetBOM lista de materiales del producto en el orden en que se definió.
func (r *ProductRepo) GetBOM(ctx context.Context, productID string) ([]entity.BOMItem, error) {
	query := `
		SELECT product_id, component_id, quantity_required
		FROM product_components WHERE product_id = $1
		ORDER BY position, component_id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("get bom: %w", err)
	}
	bom, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.BOMItem, error) {
		var it entity.BOMItem
		err := row.Scan(&it.ProductID, &it.ComponentID, &it.QuantityRequired)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan bom: %w", err)
	}
	return bom, nil
}
