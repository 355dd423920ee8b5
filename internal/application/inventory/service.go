package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Ensamblaje-api/internal/domain"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/allocation"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
	"github.com/jhoicas/Ensamblaje-api/pkg/logger"
)

// AssemblyService motor de asignación de lotes y creación de ensambles.
// Las lecturas previas a la transacción usan reads (pool); toda escritura pasa por txRunner.
type AssemblyService struct {
	txRunner TxRunner
	reads    repository.UnitOfWork
	chunks   *ChunkRunner
	log      *logger.Logger
	now      func() time.Time
}

// Option configura el AssemblyService.
type Option func(*AssemblyService)

// WithChunkRunner reemplaza la estrategia de chunks (tamaño, pausa, timeout).
func WithChunkRunner(r *ChunkRunner) Option {
	return func(s *AssemblyService) {
		if r != nil {
			s.chunks = r
		}
	}
}

// WithLogger inyecta el logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *AssemblyService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock fija el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *AssemblyService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAssemblyService construye el servicio.
func NewAssemblyService(txRunner TxRunner, reads repository.UnitOfWork, opts ...Option) *AssemblyService {
	s := &AssemblyService{
		txRunner: txRunner,
		reads:    reads,
		chunks:   NewChunkRunner(DefaultChunkSize, 0, 0),
		log:      logger.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetBOM resuelve la BOM del producto. Producto inexistente -> NotFound; sin BOM -> slice vacío.
func (s *AssemblyService) GetBOM(ctx context.Context, productID string) ([]entity.BOMItem, error) {
	return resolveBOM(ctx, s.reads.Products(), productID)
}

func resolveBOM(ctx context.Context, products repository.ProductRepository, productID string) ([]entity.BOMItem, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "product", ID: productID}
	}
	bom, err := products.GetBOM(ctx, productID)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		bom = []entity.BOMItem{}
	}
	return bom, nil
}

// planFIFO arma una selección automática a partir de los lotes disponibles (del más antiguo al más nuevo).
func planFIFO(ctx context.Context, batches repository.StockBatchRepository, bom []entity.BOMItem, units int) (allocation.Selection, error) {
	available := make(map[string][]*entity.StockBatch, len(bom))
	for _, item := range bom {
		list, err := batches.ListAvailableByComponent(ctx, item.ComponentID)
		if err != nil {
			return nil, err
		}
		available[item.ComponentID] = list
	}
	return allocation.PlanBOM(bom, units, available)
}

// persistLines crea los registros de asignación y descuenta cada lote una sola vez por el total
// consumido por las unidades recibidas. Se llama una vez por chunk, así que una solicitud de varios
// chunks descuenta un mismo lote una vez en cada chunk que lo use.
// El stock se vuelve a verificar contra las filas bloqueadas antes de escribir.
func (s *AssemblyService) persistLines(ctx context.Context, uow repository.UnitOfWork, assemblyIDs []string, lines [][]allocation.Line) error {
	var flat []allocation.Line
	for _, l := range lines {
		flat = append(flat, l...)
	}
	totals := allocation.BatchTotals(flat)
	batchIDs := allocation.SortedKeys(totals)

	locked, err := uow.Batches().GetForUpdate(ctx, batchIDs)
	if err != nil {
		return err
	}
	for _, id := range batchIDs {
		b := locked[id]
		if b == nil {
			return &domain.NotFoundError{Resource: "batch", ID: id}
		}
		if b.CurrentQuantity < totals[id] {
			return &domain.InsufficientStockError{
				ComponentID: b.ComponentID,
				BatchID:     id,
				Available:   b.CurrentQuantity,
				Requested:   totals[id],
			}
		}
	}

	rows := make([]entity.AssemblyComponentBatch, 0, len(flat))
	for i, unit := range lines {
		for _, l := range unit {
			rows = append(rows, entity.AssemblyComponentBatch{
				AssemblyID:   assemblyIDs[i],
				ComponentID:  l.ComponentID,
				StockBatchID: l.BatchID,
				QuantityUsed: l.Quantity,
			})
		}
	}
	if len(rows) > 0 {
		if err := uow.Allocations().CreateMany(ctx, rows); err != nil {
			return err
		}
	}
	for _, id := range batchIDs {
		if _, err := uow.Batches().Decrement(ctx, id, totals[id]); err != nil {
			return err
		}
	}
	return nil
}

// normalizeSerials limpia espacios y normaliza Unicode (NFKC) para que variantes de ancho
// completo o compatibilidad cuenten como el mismo serial. Devuelve los repetidos dentro de la solicitud.
func normalizeSerials(serials []string) ([]string, []string, error) {
	out := make([]string, len(serials))
	seen := make(map[string]int, len(serials))
	var dups []string
	for i, raw := range serials {
		sn := norm.NFKC.String(strings.TrimSpace(raw))
		if sn == "" {
			return nil, nil, domain.ErrInvalidInput
		}
		out[i] = sn
		seen[sn]++
		if seen[sn] == 2 {
			dups = append(dups, sn)
		}
	}
	sort.Strings(dups)
	return out, dups, nil
}
