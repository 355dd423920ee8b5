package allocation

import (
	"github.com/jhoicas/Ensamblaje-api/internal/domain"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
)

// Validate verifica una asignación antes de persistir, en este orden:
//  1. todo componente seleccionado está en la BOM (UnknownComponent);
//  2. cada componente de la BOM suma exactamente QuantityRequired × units (QuantityMismatch);
//  3. cada lote existe y pertenece al componente (NotFound / WrongComponentForBatch);
//  4. cada lote tiene CurrentQuantity suficiente (InsufficientStock).
//
// batches debe contener los lotes referenciados por sel, indexados por ID.
func Validate(bom []entity.BOMItem, units int, sel Selection, batches map[string]*entity.StockBatch) error {
	if units < 1 {
		return domain.ErrInvalidInput
	}
	required := make(map[string]int, len(bom))
	for _, item := range bom {
		required[item.ComponentID] = item.QuantityRequired * units
	}

	var unknown []string
	for _, comp := range sel.ComponentIDs() {
		if _, ok := required[comp]; !ok {
			unknown = append(unknown, comp)
		}
	}
	if len(unknown) > 0 {
		return &domain.UnknownComponentError{ComponentIDs: unknown}
	}

	for _, item := range bom {
		if selected := sel.Total(item.ComponentID); selected != required[item.ComponentID] {
			return &domain.QuantityMismatchError{
				ComponentID: item.ComponentID,
				Required:    required[item.ComponentID],
				Selected:    selected,
			}
		}
	}

	for _, item := range bom {
		for _, d := range sel[item.ComponentID] {
			b, ok := batches[d.BatchID]
			if !ok || b == nil {
				return &domain.NotFoundError{Resource: "batch", ID: d.BatchID}
			}
			if b.ComponentID != item.ComponentID {
				return &domain.WrongComponentForBatchError{
					BatchID:             d.BatchID,
					ExpectedComponentID: item.ComponentID,
					ActualComponentID:   b.ComponentID,
				}
			}
		}
	}

	return CheckStock(sel, batches)
}

// CheckStock verifica que cada lote cubra lo seleccionado de él. Se llama otra vez dentro de la
// transacción que descuenta, con las filas bloqueadas.
func CheckStock(sel Selection, batches map[string]*entity.StockBatch) error {
	totals := make(map[string]int)
	owner := make(map[string]string)
	for comp, draws := range sel {
		for _, d := range draws {
			totals[d.BatchID] += d.Quantity
			owner[d.BatchID] = comp
		}
	}
	for _, id := range SortedKeys(totals) {
		b, ok := batches[id]
		if !ok || b == nil {
			return &domain.NotFoundError{Resource: "batch", ID: id}
		}
		if b.CurrentQuantity < totals[id] {
			return &domain.InsufficientStockError{
				ComponentID: owner[id],
				BatchID:     id,
				Available:   b.CurrentQuantity,
				Requested:   totals[id],
			}
		}
	}
	return nil
}
