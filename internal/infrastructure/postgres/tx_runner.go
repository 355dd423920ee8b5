package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Ensamblaje-api/internal/application/inventory"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ repository.UnitOfWork = (*Repositories)(nil)

// Repositories conjunto de repositorios sobre un mismo Querier (pool para lecturas, tx dentro de Run).
type Repositories struct {
	components  *ComponentRepo
	batches     *StockBatchRepo
	products    *ProductRepo
	assemblies  *AssemblyRepo
	allocations *AllocationRepo
}

// NewRepositories construye los repositorios. Pasar pool o tx (Querier).
func NewRepositories(q Querier) *Repositories {
	return &Repositories{
		components:  NewComponentRepository(q),
		batches:     NewStockBatchRepository(q),
		products:    NewProductRepository(q),
		assemblies:  NewAssemblyRepository(q),
		allocations: NewAllocationRepository(q),
	}
}

func (r *Repositories) Components() repository.ComponentRepository { return r.components }
func (r *Repositories) Batches() repository.StockBatchRepository { return r.batches }
func (r *Repositories) Products() repository.ProductRepository { return r.products }
func (r *Repositories) Assemblies() repository.AssemblyRepository { return r.assemblies }
func (r *Repositories) Allocations() repository.AllocationRepository { return r.allocations }

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Las filas en disputa se bloquean explícitamente con SELECT ... FOR UPDATE.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, uow repository.UnitOfWork) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
