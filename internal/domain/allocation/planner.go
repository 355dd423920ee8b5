package allocation

import (
	"github.com/jhoicas/Ensamblaje-api/internal/domain"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
)

// Plan calcula qué lotes usar para cubrir required unidades de un componente, del más antiguo
// al más reciente (FIFO), tomando min(faltante, CurrentQuantity) de cada uno.
// Nunca devuelve un plan parcial: si los lotes no alcanzan, devuelve *domain.InsufficientStockError
// con el faltante. No modifica los lotes.
func Plan(componentID string, required int, batches []*entity.StockBatch) ([]Draw, error) {
	if required < 0 {
		return nil, domain.ErrInvalidInput
	}
	ordered := make([]*entity.StockBatch, len(batches))
	copy(ordered, batches)
	entity.SortFIFO(ordered)

	plan := []Draw{}
	remaining := required
	available := 0
	for _, b := range ordered {
		if remaining == 0 {
			break
		}
		if b.ComponentID != componentID {
			return nil, &domain.WrongComponentForBatchError{
				BatchID: b.ID, ExpectedComponentID: componentID, ActualComponentID: b.ComponentID,
			}
		}
		if b.CurrentQuantity <= 0 {
			continue
		}
		take := min(remaining, b.CurrentQuantity)
		plan = append(plan, Draw{BatchID: b.ID, Quantity: take})
		available += take
		remaining -= take
	}
	if remaining > 0 {
		return nil, &domain.InsufficientStockError{
			ComponentID: componentID,
			Available:   available,
			Requested:   required,
		}
	}
	return plan, nil
}

// PlanBOM ejecuta Plan para cada línea de la BOM (cantidad × units) y arma la Selection resultante.
// available se indexa por componente.
func PlanBOM(bom []entity.BOMItem, units int, available map[string][]*entity.StockBatch) (Selection, error) {
	if units < 1 {
		return nil, domain.ErrInvalidInput
	}
	sel := make(Selection, len(bom))
	for _, item := range bom {
		draws, err := Plan(item.ComponentID, item.QuantityRequired*units, available[item.ComponentID])
		if err != nil {
			return nil, err
		}
		sel[item.ComponentID] = draws
	}
	return sel, nil
}

// Distribute reparte total entre n unidades: todas reciben total/n y las primeras total%n reciben
// una unidad extra. La suma siempre es exactamente total.
func Distribute(total, n int) ([]int, error) {
	if n < 1 || total < 0 {
		return nil, domain.ErrInvalidInput
	}
	base, remainder := total/n, total%n
	shares := make([]int, n)
	for i := range shares {
		shares[i] = base
		if i < remainder {
			shares[i]++
		}
	}
	return shares, nil
}
