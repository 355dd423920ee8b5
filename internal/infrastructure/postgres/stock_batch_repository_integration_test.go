//go:build integration

// Pruebas contra una base real: DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/
package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ensamblaje-api/internal/application/inventory"
	"github.com/jhoicas/Ensamblaje-api/internal/domain"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/allocation"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
	"github.com/jhoicas/Ensamblaje-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ensamblaje-api/pkg/config"
)

type dbFixture struct {
	pool      *pgxpool.Pool
	component string
	product   string
	batch     string
}

// newDBFixture componente con un lote de 5 u. y producto = 2 × componente, con SKUs únicos por test.
func newDBFixture(t *testing.T) *dbFixture {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL no definido")
	}
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 12})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = postgres.Migrate(ctx, pool)
	require.NoError(t, err)

	f := &dbFixture{
		pool:      pool,
		component: uuid.New().String(),
		product:   uuid.New().String(),
		batch:     uuid.New().String(),
	}
	suffix := f.component[:8]
	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO components (id, sku, name) VALUES ($1, $2, 'Memoria')`, []any{f.component, "RAM-" + suffix}},
		{`INSERT INTO products (id, sku, name) VALUES ($1, $2, 'Equipo')`, []any{f.product, "PC-" + suffix}},
		{`INSERT INTO product_components (product_id, component_id, quantity_required) VALUES ($1, $2, 2)`,
			[]any{f.product, f.component}},
		{`INSERT INTO stock_batches (id, component_id, vendor_id, batch_number, initial_quantity, current_quantity, unit_cost, date_received)
		  VALUES ($1, $2, 'PROV-1', $3, 5, 5, 2, $4)`, []any{f.batch, f.component, "RAM-" + suffix + "-0001", time.Now()}},
	}
	for _, st := range stmts {
		_, err := pool.Exec(ctx, st.sql, st.args...)
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = pool.Exec(ctx, `DELETE FROM assembly_component_batches WHERE stock_batch_id = $1`, f.batch)
		_, _ = pool.Exec(ctx, `DELETE FROM assemblies WHERE product_id = $1`, f.product)
		_, _ = pool.Exec(ctx, `DELETE FROM stock_batches WHERE id = $1`, f.batch)
		_, _ = pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, f.product)
		_, _ = pool.Exec(ctx, `DELETE FROM components WHERE id = $1`, f.component)
	})
	return f
}

func (f *dbFixture) current(t *testing.T) int {
	t.Helper()
	b, err := postgres.NewStockBatchRepository(f.pool).GetByID(context.Background(), f.batch)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.CurrentQuantity
}

func TestStockBatchRepo_DescuentosConcurrentesNoSobregiran(t *testing.T) {
	f := newDBFixture(t)
	runner := postgres.NewTxRunner(f.pool)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, short int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runner.Run(context.Background(), func(ctx context.Context, uow repository.UnitOfWork) error {
				if _, err := uow.Batches().GetForUpdate(ctx, []string{f.batch}); err != nil {
					return err
				}
				_, err := uow.Batches().Decrement(ctx, f.batch, 1)
				return err
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				short++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 5, short)
	assert.Equal(t, 0, f.current(t))
}

func TestStockBatchRepo_DescuentoCondicionalInformaFaltante(t *testing.T) {
	f := newDBFixture(t)
	repo := postgres.NewStockBatchRepository(f.pool)

	_, err := repo.Decrement(context.Background(), f.batch, 6)
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 5, short.Available)
	assert.Equal(t, 1, short.Shortfall())
	assert.Equal(t, 5, f.current(t))
}

func TestCreateAssemblies_ConcurrentesEnPostgres(t *testing.T) {
	f := newDBFixture(t)
	svc := inventory.NewAssemblyService(postgres.NewTxRunner(f.pool), postgres.NewRepositories(f.pool))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreateAssemblies(context.Background(), inventory.CreateAssembliesInput{
				ProductID:     f.product,
				Quantity:      1,
				SerialNumbers: []string{fmt.Sprintf("SN-%s-%d", f.product[:8], i)},
				AssembledByID: "user-1",
				SelectedBatches: []allocation.SelectedBatch{
					{ComponentID: f.component, BatchID: f.batch, QuantityUsed: 2},
				},
			})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, created, "5 u. alcanzan para dos ensambles de 2")
	assert.Equal(t, 1, f.current(t))

	var used int
	err := f.pool.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity_used), 0) FROM assembly_component_batches WHERE stock_batch_id = $1`, f.batch).Scan(&used)
	require.NoError(t, err)
	assert.Equal(t, 4, used, "consumo registrado = inicial - actual")
}
