// Package memory implementa los puertos de persistencia en memoria. Las transacciones se
// serializan y trabajan sobre una copia del estado que solo se publica al confirmar, así que
// un error dentro del callback no deja rastro. Se usa en tests y en el modo demo de la API.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Ensamblaje-api/internal/application/inventory"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner    = (*Store)(nil)
	_ repository.UnitOfWork = (*unitOfWork)(nil)
)

type state struct {
	components  map[string]entity.Component
	products    map[string]entity.Product
	bom         map[string][]entity.BOMItem
	batches     map[string]entity.StockBatch
	assemblies  map[string]entity.Assembly
	serials     map[string]string // serial -> assembly id
	allocations []entity.AssemblyComponentBatch
}

func newState() *state {
	return &state{
		components: make(map[string]entity.Component),
		products:   make(map[string]entity.Product),
		bom:        make(map[string][]entity.BOMItem),
		batches:    make(map[string]entity.StockBatch),
		assemblies: make(map[string]entity.Assembly),
		serials:    make(map[string]string),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.components {
		c.components[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.bom {
		c.bom[k] = append([]entity.BOMItem(nil), v...)
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	for k, v := range s.assemblies {
		c.assemblies[k] = v
	}
	for k, v := range s.serials {
		c.serials[k] = v
	}
	c.allocations = append([]entity.AssemblyComponentBatch(nil), s.allocations...)
	return c
}

// Store base de datos en memoria. Implementa inventory.TxRunner; Reads() da el UnitOfWork
// de lectura sobre el último estado confirmado.
type Store struct {
	txMu   sync.Mutex
	dataMu sync.RWMutex
	data   *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) current() *state {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.data
}

// Reads repositorios sobre el estado confirmado. No usar dentro de Run.
func (s *Store) Reads() repository.UnitOfWork {
	return &unitOfWork{view: s.current}
}

// Run ejecuta fn sobre una copia del estado; si fn no falla y el ctx sigue vivo, la copia
// pasa a ser el estado confirmado.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, uow repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	work := s.current().clone()
	if err := fn(ctx, &unitOfWork{view: func() *state { return work }, writable: true}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.dataMu.Lock()
	s.data = work
	s.dataMu.Unlock()
	return nil
}

// Seed carga datos maestros sin pasar por los casos de uso (tests, modo demo).
func (s *Store) Seed(fn func(seed *Seeder)) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	work := s.current().clone()
	fn(&Seeder{st: work})
	s.dataMu.Lock()
	s.data = work
	s.dataMu.Unlock()
}

// Allocations todos los registros de asignación confirmados, en orden de creación.
func (s *Store) Allocations() []entity.AssemblyComponentBatch {
	return append([]entity.AssemblyComponentBatch(nil), s.current().allocations...)
}

// Assemblies todos los ensambles confirmados, ordenados por serial.
func (s *Store) Assemblies() []entity.Assembly {
	st := s.current()
	out := make([]entity.Assembly, 0, len(st.assemblies))
	for _, a := range st.assemblies {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SerialNumber < out[j].SerialNumber })
	return out
}

// Seeder escribe datos maestros directamente en el estado.
type Seeder struct {
	st *state
}

// Component registra un componente.
func (sd *Seeder) Component(c entity.Component) { sd.st.components[c.ID] = c }

// Product registra un producto con su BOM en el orden dado.
func (sd *Seeder) Product(p entity.Product, bom ...entity.BOMItem) {
	sd.st.products[p.ID] = p
	items := make([]entity.BOMItem, 0, len(bom))
	for _, it := range bom {
		it.ProductID = p.ID
		items = append(items, it)
	}
	sd.st.bom[p.ID] = items
}

// Batch registra un lote tal cual.
func (sd *Seeder) Batch(b entity.StockBatch) { sd.st.batches[b.ID] = b }
