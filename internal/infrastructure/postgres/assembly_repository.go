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

var (
	_ repository.AssemblyRepository   = (*AssemblyRepo)(nil)
	_ repository.AllocationRepository = (*AllocationRepo)(nil)
)

const assemblyColumns = `id, product_id, serial_number, assembled_by_id, status, notes, start_time, completion_time, batches_processed, created_at, updated_at`

// AssemblyRepo implementación de AssemblyRepository sobre PostgreSQL (usable con pool o tx).
type AssemblyRepo struct {
	q Querier
}

// NewAssemblyRepository construye el adaptador de ensambles. Pasar pool o tx (Querier).
func NewAssemblyRepository(q Querier) *AssemblyRepo {
	return &AssemblyRepo{q: q}
}

func scanAssembly(row pgx.Row) (*entity.Assembly, error) {
	var a entity.Assembly
	err := row.Scan(&a.ID, &a.ProductID, &a.SerialNumber, &a.AssembledByID, &a.Status, &a.Notes,
		&a.StartTime, &a.CompletionTime, &a.BatchesProcessed, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste un ensamble. Serial repetido (23505) -> *domain.DuplicateSerialError.
func (r *AssemblyRepo) Create(ctx context.Context, a *entity.Assembly) error {
	query := `
		INSERT INTO assemblies (` + assemblyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ProductID, a.SerialNumber, a.AssembledByID, a.Status, a.Notes,
		a.StartTime, a.CompletionTime, a.BatchesProcessed, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateSerialError{Serials: []string{a.SerialNumber}}
		}
		return fmt.Errorf("insert assembly: %w", err)
	}
	return nil
}

// GetByID obtiene un ensamble por ID.
func (r *AssemblyRepo) GetByID(ctx context.Context, id string) (*entity.Assembly, error) {
	return r.get(ctx, `SELECT `+assemblyColumns+` FROM assemblies WHERE id = $1`, id)
}

// GetForUpdate obtiene el ensamble bloqueando la fila.
func (r *AssemblyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Assembly, error) {
	return r.get(ctx, `SELECT `+assemblyColumns+` FROM assemblies WHERE id = $1 FOR UPDATE`, id)
}

func (r *AssemblyRepo) get(ctx context.Context, query, id string) (*entity.Assembly, error) {
	if !isUUID(id) {
		return nil, nil
	}
	a, err := scanAssembly(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assembly: %w", err)
	}
	return a, nil
}

// FindExistingSerials seriales ya registrados entre los dados.
func (r *AssemblyRepo) FindExistingSerials(ctx context.Context, serials []string) ([]string, error) {
	if len(serials) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT serial_number FROM assemblies WHERE serial_number = ANY($1)`, serials)
	if err != nil {
		return nil, fmt.Errorf("find serials: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("find serials: %w", err)
	}
	return found, nil
}

// UpdateStatus actualiza estado, fecha de cierre y flag de lotes; devuelve la fila resultante.
func (r *AssemblyRepo) UpdateStatus(ctx context.Context, id string, upd entity.AssemblyStatusUpdate) (*entity.Assembly, error) {
	query := `
		UPDATE assemblies
		SET status = $2, completion_time = $3, batches_processed = $4, updated_at = $5
		WHERE id = $1
		RETURNING ` + assemblyColumns
	a, err := scanAssembly(r.q.QueryRow(ctx, query, id, upd.Status, upd.CompletionTime, upd.BatchesProcessed, upd.UpdatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "assembly", ID: id}
		}
		return nil, fmt.Errorf("update assembly status: %w", err)
	}
	return a, nil
}

// Delete elimina el ensamble.
func (r *AssemblyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM assemblies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assembly: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "assembly", ID: id}
	}
	return nil
}

// AllocationRepo registros assembly_component_batches sobre PostgreSQL.
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

// CreateMany inserta los registros con COPY (un solo viaje por chunk).
func (r *AllocationRepo) CreateMany(ctx context.Context, rows []entity.AssemblyComponentBatch) error {
	if len(rows) == 0 {
		return nil
	}
	src := make([][]any, len(rows))
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.New().String()
		}
		src[i] = []any{rows[i].ID, rows[i].AssemblyID, rows[i].ComponentID, rows[i].StockBatchID, rows[i].QuantityUsed}
	}
	_, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"assembly_component_batches"},
		[]string{"id", "assembly_id", "component_id", "stock_batch_id", "quantity_used"},
		pgx.CopyFromRows(src),
	)
	if err != nil {
		return fmt.Errorf("copy allocations: %w", err)
	}
	return nil
}

// ListByAssembly registros del ensamble en orden de inserción.
func (r *AllocationRepo) ListByAssembly(ctx context.Context, assemblyID string) ([]entity.AssemblyComponentBatch, error) {
	query := `
		SELECT id, assembly_id, component_id, stock_batch_id, quantity_used
		FROM assembly_component_batches WHERE assembly_id = $1
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, assemblyID)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.AssemblyComponentBatch, error) {
		var a entity.AssemblyComponentBatch
		err := row.Scan(&a.ID, &a.AssemblyID, &a.ComponentID, &a.StockBatchID, &a.QuantityUsed)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	return list, nil
}

// DeleteByAssembly elimina los registros del ensamble.
func (r *AllocationRepo) DeleteByAssembly(ctx context.Context, assemblyID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM assembly_component_batches WHERE assembly_id = $1`, assemblyID); err != nil {
		return fmt.Errorf("delete allocations: %w", err)
	}
	return nil
}
