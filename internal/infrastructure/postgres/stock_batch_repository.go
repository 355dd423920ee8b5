package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ensamblaje-api/internal/domain"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*StockBatchRepo)(nil)

const batchColumns = `id, component_id, vendor_id, batch_number, initial_quantity, current_quantity, unit_cost, date_received, created_at`

// StockBatchRepo implementación de StockBatchRepository sobre PostgreSQL (usable con pool o tx).
type StockBatchRepo struct {
	q Querier
}

// NewStockBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockBatchRepository(q Querier) *StockBatchRepo {
	return &StockBatchRepo{q: q}
}

func scanBatch(row pgx.Row) (*entity.StockBatch, error) {
	var b entity.StockBatch
	err := row.Scan(&b.ID, &b.ComponentID, &b.VendorID, &b.BatchNumber,
		&b.InitialQuantity, &b.CurrentQuantity, &b.UnitCost, &b.DateReceived, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create persiste un lote nuevo.
func (r *StockBatchRepo) Create(ctx context.Context, b *entity.StockBatch) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ComponentID, b.VendorID, b.BatchNumber,
		b.InitialQuantity, b.CurrentQuantity, b.UnitCost, b.DateReceived, b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("batch number %s: %w", b.BatchNumber, domain.ErrConflict)
		}
		return fmt.Errorf("insert stock batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *StockBatchRepo) GetByID(ctx context.Context, id string) (*entity.StockBatch, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + batchColumns + ` FROM stock_batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock batch: %w", err)
	}
	return b, nil
}

// GetByIDs obtiene varios lotes indexados por ID.
func (r *StockBatchRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.StockBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM stock_batches WHERE id = ANY($1::uuid[])`
	return r.queryMap(ctx, "get stock batches", query, ids)
}

// GetForUpdate bloquea los lotes en orden de ID para que transacciones concurrentes no se crucen.
func (r *StockBatchRepo) GetForUpdate(ctx context.Context, ids []string) (map[string]*entity.StockBatch, error) {
	query := `
		SELECT ` + batchColumns + ` FROM stock_batches
		WHERE id = ANY($1::uuid[])
		ORDER BY id
		FOR UPDATE`
	return r.queryMap(ctx, "lock stock batches", query, ids)
}

func (r *StockBatchRepo) queryMap(ctx context.Context, op, query string, ids []string) (map[string]*entity.StockBatch, error) {
	out := make(map[string]*entity.StockBatch, len(ids))
	ids = validIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// ListAvailableByComponent lotes con stock, del más antiguo al más reciente.
func (r *StockBatchRepo) ListAvailableByComponent(ctx context.Context, componentID string) ([]*entity.StockBatch, error) {
	query := `
		SELECT ` + batchColumns + ` FROM stock_batches
		WHERE component_id = $1 AND current_quantity > 0
		ORDER BY date_received, batch_number, id`
	rows, err := r.q.Query(ctx, query, componentID)
	if err != nil {
		return nil, fmt.Errorf("list available batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("list available batches: %w", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list available batches: %w", err)
	}
	return list, nil
}

// Decrement descuenta qty de forma condicional; la condición repite la verificación de stock en la base.
func (r *StockBatchRepo) Decrement(ctx context.Context, batchID string, qty int) (*entity.StockBatch, error) {
	query := `
		UPDATE stock_batches SET current_quantity = current_quantity - $2
		WHERE id = $1 AND current_quantity >= $2
		RETURNING ` + batchColumns
	b, err := scanBatch(r.q.QueryRow(ctx, query, batchID, qty))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decrement stock batch: %w", err)
	}
	current, err := r.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &domain.NotFoundError{Resource: "batch", ID: batchID}
	}
	return nil, &domain.InsufficientStockError{
		ComponentID: current.ComponentID,
		BatchID:     batchID,
		Available:   current.CurrentQuantity,
		Requested:   qty,
	}
}

// Increment devuelve stock al lote (nunca por encima de la cantidad inicial).
func (r *StockBatchRepo) Increment(ctx context.Context, batchID string, qty int) error {
	query := `
		UPDATE stock_batches SET current_quantity = LEAST(current_quantity + $2, initial_quantity)
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, batchID, qty)
	if err != nil {
		return fmt.Errorf("increment stock batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "batch", ID: batchID}
	}
	return nil
}

// NextSequence bloquea el componente y cuenta sus lotes; dos recepciones simultáneas no repiten número.
func (r *StockBatchRepo) NextSequence(ctx context.Context, componentID string) (int, error) {
	if _, err := r.q.Exec(ctx, `SELECT 1 FROM components WHERE id = $1 FOR UPDATE`, componentID); err != nil {
		return 0, fmt.Errorf("lock component: %w", err)
	}
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_batches WHERE component_id = $1`, componentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count stock batches: %w", err)
	}
	return n + 1, nil
}
