package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Ensamblaje-api/internal/domain"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
)

// unitOfWork vista del estado; writable solo dentro de Run.
type unitOfWork struct {
	view     func() *state
	writable bool
}

func (u *unitOfWork) Components() repository.ComponentRepository { return componentRepo{u} }
func (u *unitOfWork) Batches() repository.StockBatchRepository { return batchRepo{u} }
func (u *unitOfWork) Products() repository.ProductRepository { return productRepo{u} }
func (u *unitOfWork) Assemblies() repository.AssemblyRepository { return assemblyRepo{u} }
func (u *unitOfWork) Allocations() repository.AllocationRepository { return allocationRepo{u} }

func (u *unitOfWork) write() (*state, error) {
	if !u.writable {
		return nil, fmt.Errorf("memory: escritura fuera de transacción")
	}
	return u.view(), nil
}

type componentRepo struct{ u *unitOfWork }

func (r componentRepo) GetByID(_ context.Context, id string) (*entity.Component, error) {
	c, ok := r.u.view().components[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type productRepo struct{ u *unitOfWork }

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.u.view().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetBOM(_ context.Context, productID string) ([]entity.BOMItem, error) {
	return append([]entity.BOMItem{}, r.u.view().bom[productID]...), nil
}

type batchRepo struct{ u *unitOfWork }

func (r batchRepo) Create(_ context.Context, b *entity.StockBatch) error {
	st, err := r.u.write()
	if err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	for _, other := range st.batches {
		if other.BatchNumber == b.BatchNumber {
			return fmt.Errorf("batch number %s: %w", b.BatchNumber, domain.ErrConflict)
		}
	}
	st.batches[b.ID] = *b
	return nil
}

func (r batchRepo) GetByID(_ context.Context, id string) (*entity.StockBatch, error) {
	b, ok := r.u.view().batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r batchRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.StockBatch, error) {
	st := r.u.view()
	out := make(map[string]*entity.StockBatch, len(ids))
	for _, id := range ids {
		if b, ok := st.batches[id]; ok {
			out[id] = &b
		}
	}
	return out, nil
}

// GetForUpdate el Store ya serializa las transacciones; equivale a GetByIDs.
func (r batchRepo) GetForUpdate(ctx context.Context, ids []string) (map[string]*entity.StockBatch, error) {
	return r.GetByIDs(ctx, ids)
}

func (r batchRepo) ListAvailableByComponent(_ context.Context, componentID string) ([]*entity.StockBatch, error) {
	var list []*entity.StockBatch
	for _, b := range r.u.view().batches {
		if b.ComponentID == componentID && b.CurrentQuantity > 0 {
			list = append(list, &b)
		}
	}
	entity.SortFIFO(list)
	return list, nil
}

func (r batchRepo) Decrement(_ context.Context, batchID string, qty int) (*entity.StockBatch, error) {
	st, err := r.u.write()
	if err != nil {
		return nil, err
	}
	b, ok := st.batches[batchID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "batch", ID: batchID}
	}
	if b.CurrentQuantity < qty {
		return nil, &domain.InsufficientStockError{
			ComponentID: b.ComponentID,
			BatchID:     batchID,
			Available:   b.CurrentQuantity,
			Requested:   qty,
		}
	}
	b.CurrentQuantity -= qty
	st.batches[batchID] = b
	return &b, nil
}

func (r batchRepo) Increment(_ context.Context, batchID string, qty int) error {
	st, err := r.u.write()
	if err != nil {
		return err
	}
	b, ok := st.batches[batchID]
	if !ok {
		return &domain.NotFoundError{Resource: "batch", ID: batchID}
	}
	b.CurrentQuantity = min(b.CurrentQuantity+qty, b.InitialQuantity)
	st.batches[batchID] = b
	return nil
}

func (r batchRepo) NextSequence(_ context.Context, componentID string) (int, error) {
	n := 0
	for _, b := range r.u.view().batches {
		if b.ComponentID == componentID {
			n++
		}
	}
	return n + 1, nil
}

type assemblyRepo struct{ u *unitOfWork }

func (r assemblyRepo) Create(_ context.Context, a *entity.Assembly) error {
	st, err := r.u.write()
	if err != nil {
		return err
	}
	if _, dup := st.serials[a.SerialNumber]; dup {
		return &domain.DuplicateSerialError{Serials: []string{a.SerialNumber}}
	}
	st.assemblies[a.ID] = *a
	st.serials[a.SerialNumber] = a.ID
	return nil
}

func (r assemblyRepo) GetByID(_ context.Context, id string) (*entity.Assembly, error) {
	a, ok := r.u.view().assemblies[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r assemblyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Assembly, error) {
	return r.GetByID(ctx, id)
}

func (r assemblyRepo) FindExistingSerials(_ context.Context, serials []string) ([]string, error) {
	st := r.u.view()
	var found []string
	for _, sn := range serials {
		if _, ok := st.serials[sn]; ok {
			found = append(found, sn)
		}
	}
	return found, nil
}

func (r assemblyRepo) UpdateStatus(_ context.Context, id string, upd entity.AssemblyStatusUpdate) (*entity.Assembly, error) {
	st, err := r.u.write()
	if err != nil {
		return nil, err
	}
	a, ok := st.assemblies[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "assembly", ID: id}
	}
	a.Status = upd.Status
	a.CompletionTime = upd.CompletionTime
	a.BatchesProcessed = upd.BatchesProcessed
	a.UpdatedAt = upd.UpdatedAt
	st.assemblies[id] = a
	return &a, nil
}

func (r assemblyRepo) Delete(_ context.Context, id string) error {
	st, err := r.u.write()
	if err != nil {
		return err
	}
	a, ok := st.assemblies[id]
	if !ok {
		return &domain.NotFoundError{Resource: "assembly", ID: id}
	}
	delete(st.serials, a.SerialNumber)
	delete(st.assemblies, id)
	return nil
}

type allocationRepo struct{ u *unitOfWork }

func (r allocationRepo) CreateMany(_ context.Context, rows []entity.AssemblyComponentBatch) error {
	st, err := r.u.write()
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row.ID == "" {
			row.ID = uuid.New().String()
		}
		st.allocations = append(st.allocations, row)
	}
	return nil
}

func (r allocationRepo) ListByAssembly(_ context.Context, assemblyID string) ([]entity.AssemblyComponentBatch, error) {
	var out []entity.AssemblyComponentBatch
	for _, row := range r.u.view().allocations {
		if row.AssemblyID == assemblyID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r allocationRepo) DeleteByAssembly(_ context.Context, assemblyID string) error {
	st, err := r.u.write()
	if err != nil {
		return err
	}
	kept := st.allocations[:0]
	for _, row := range st.allocations {
		if row.AssemblyID != assemblyID {
			kept = append(kept, row)
		}
	}
	st.allocations = kept
	return nil
}
