package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Ensamblaje-api/internal/domain"
)

// DefaultChunkSize ensambles por transacción cuando no se configura otro valor.
const DefaultChunkSize = 5

// Chunk rango [Start, End) de elementos procesados en una misma transacción.
type Chunk struct {
	Index int
	Start int
	End   int
}

// Len cantidad de elementos del chunk.
func (c Chunk) Len() int { return c.End - c.Start }

// ChunkRunner divide una operación grande en sub-lotes secuenciales, cada uno con su propio
// límite de tiempo. Se detiene en el primer error; los chunks ya confirmados no se revierten.
type ChunkRunner struct {
	ChunkSize int
	Backoff   time.Duration // pausa entre chunks para bajar la contención
	TxTimeout time.Duration // 0 = sin límite propio (solo el del ctx del llamador)
	Sleep     func(ctx context.Context, d time.Duration) error
}

// NewChunkRunner construye el runner con la pausa real (time.Timer).
func NewChunkRunner(chunkSize int, backoff, txTimeout time.Duration) *ChunkRunner {
	return &ChunkRunner{
		ChunkSize: chunkSize,
		Backoff:   backoff,
		TxTimeout: txTimeout,
		Sleep:     sleepContext,
	}
}

// Run aplica worker a chunks sucesivos de total elementos. Devuelve cuántos elementos quedaron
// confirmados antes del primer error.
func (r *ChunkRunner) Run(ctx context.Context, total int, worker func(ctx context.Context, c Chunk) error) (int, error) {
	size := r.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	committed := 0
	for idx, start := 0, 0; start < total; idx, start = idx+1, start+size {
		if idx > 0 && r.Backoff > 0 {
			if err := sleep(ctx, r.Backoff); err != nil {
				return committed, err
			}
		}
		c := Chunk{Index: idx, Start: start, End: min(start+size, total)}
		if err := r.runChunk(ctx, c, worker); err != nil {
			return committed, err
		}
		committed += c.Len()
	}
	return committed, nil
}

func (r *ChunkRunner) runChunk(ctx context.Context, c Chunk, worker func(ctx context.Context, c Chunk) error) error {
	chunkCtx := ctx
	if r.TxTimeout > 0 {
		var cancel context.CancelFunc
		chunkCtx, cancel = context.WithTimeout(ctx, r.TxTimeout)
		defer cancel()
	}
	err := worker(chunkCtx, c)
	if err == nil {
		return nil
	}
	// Solo es timeout del chunk si el ctx del llamador sigue vivo.
	if ctx.Err() == nil && errors.Is(chunkCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: chunk %d: %w", domain.ErrTransactionTimeout, c.Index, err)
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
