package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ensamblaje-api/internal/application/inventory"
	"github.com/jhoicas/Ensamblaje-api/internal/domain"
)

func fakeSleep(slept *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}

func TestChunkRunner_DivideEnChunksConPausa(t *testing.T) {
	var slept []time.Duration
	r := inventory.NewChunkRunner(5, 100*time.Millisecond, 0)
	r.Sleep = fakeSleep(&slept)

	var chunks []inventory.Chunk
	committed, err := r.Run(context.Background(), 12, func(_ context.Context, c inventory.Chunk) error {
		chunks = append(chunks, c)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 12, committed)
	assert.Equal(t, []inventory.Chunk{
		{Index: 0, Start: 0, End: 5},
		{Index: 1, Start: 5, End: 10},
		{Index: 2, Start: 10, End: 12},
	}, chunks)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, slept, "sin pausa antes del primer chunk")
}

func TestChunkRunner_SeDetieneEnElPrimerError(t *testing.T) {
	var slept []time.Duration
	r := inventory.NewChunkRunner(2, time.Second, 0)
	r.Sleep = fakeSleep(&slept)
	boom := errors.New("boom")

	calls := 0
	committed, err := r.Run(context.Background(), 7, func(_ context.Context, c inventory.Chunk) error {
		calls++
		if c.Index == 1 {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, committed)
	assert.Equal(t, 2, calls)
}

func TestChunkRunner_TimeoutDelChunk(t *testing.T) {
	r := inventory.NewChunkRunner(5, 0, 10*time.Millisecond)

	committed, err := r.Run(context.Background(), 3, func(ctx context.Context, _ inventory.Chunk) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.Equal(t, 0, committed)
	assert.ErrorIs(t, err, domain.ErrTransactionTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChunkRunner_CancelacionDelLlamadorNoEsTimeout(t *testing.T) {
	r := inventory.NewChunkRunner(5, 0, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, 1, func(ctx context.Context, _ inventory.Chunk) error {
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrTransactionTimeout)
}

func TestChunkRunner_TamanoInvalidoUsaDefecto(t *testing.T) {
	r := &inventory.ChunkRunner{}
	n := 0
	_, err := r.Run(context.Background(), inventory.DefaultChunkSize+1, func(context.Context, inventory.Chunk) error {
		n++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
