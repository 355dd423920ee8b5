package allocation

import (
	"github.com/jhoicas/Ensamblaje-api/internal/domain"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
)

// Mode estrategia para repartir una selección agregada entre varias unidades.
type Mode string

const (
	// ModeFIFO consume los lotes seleccionados en orden, unidad por unidad.
	ModeFIFO Mode = "fifo"
	// ModeEven reparte cada lote con Distribute; se rechaza si alguna unidad no queda exacta.
	ModeEven Mode = "even"
)

type slot struct {
	batchID   string
	remaining int
}

// Pool lo que queda de cada lote seleccionado, en memoria. Garantiza que la suma atribuida
// a un lote nunca supera lo que el llamador seleccionó de él.
type Pool struct {
	slots map[string][]*slot
}

// NewPool construye el pool a partir de una selección (no la modifica).
func NewPool(sel Selection) *Pool {
	p := &Pool{slots: make(map[string][]*slot, len(sel))}
	for comp, draws := range sel {
		for _, d := range draws {
			p.slots[comp] = append(p.slots[comp], &slot{batchID: d.BatchID, remaining: d.Quantity})
		}
	}
	return p
}

// Take consume qty del componente recorriendo sus lotes en orden.
func (p *Pool) Take(componentID string, qty int) ([]Draw, error) {
	var draws []Draw
	remaining := qty
	for _, s := range p.slots[componentID] {
		if remaining == 0 {
			break
		}
		if s.remaining == 0 {
			continue
		}
		take := min(remaining, s.remaining)
		s.remaining -= take
		remaining -= take
		draws = append(draws, Draw{BatchID: s.batchID, Quantity: take})
	}
	if remaining > 0 {
		return nil, &domain.InsufficientStockError{
			ComponentID: componentID,
			Available:   qty - remaining,
			Requested:   qty,
		}
	}
	return draws, nil
}

// AssignUnits reparte la selección agregada entre units ensambles. Devuelve, por unidad,
// las líneas (componente, lote, cantidad) en orden de BOM.
func AssignUnits(bom []entity.BOMItem, units int, sel Selection, mode Mode) ([][]Line, error) {
	if units < 1 {
		return nil, domain.ErrInvalidInput
	}
	switch mode {
	case ModeEven:
		return assignEven(bom, units, sel)
	case ModeFIFO, "":
		return assignFIFO(bom, units, sel)
	}
	return nil, domain.ErrInvalidInput
}

func assignFIFO(bom []entity.BOMItem, units int, sel Selection) ([][]Line, error) {
	pool := NewPool(sel)
	out := make([][]Line, units)
	for i := 0; i < units; i++ {
		for _, item := range bom {
			draws, err := pool.Take(item.ComponentID, item.QuantityRequired)
			if err != nil {
				return nil, err
			}
			for _, d := range draws {
				out[i] = append(out[i], Line{ComponentID: item.ComponentID, BatchID: d.BatchID, Quantity: d.Quantity})
			}
		}
	}
	return out, nil
}

func assignEven(bom []entity.BOMItem, units int, sel Selection) ([][]Line, error) {
	out := make([][]Line, units)
	for _, item := range bom {
		got := make([]int, units)
		for _, d := range sel[item.ComponentID] {
			shares, err := Distribute(d.Quantity, units)
			if err != nil {
				return nil, err
			}
			for i, q := range shares {
				if q == 0 {
					continue
				}
				got[i] += q
				out[i] = append(out[i], Line{ComponentID: item.ComponentID, BatchID: d.BatchID, Quantity: q})
			}
		}
		for _, q := range got {
			if q != item.QuantityRequired {
				return nil, &domain.QuantityMismatchError{
					ComponentID: item.ComponentID,
					Required:    item.QuantityRequired,
					Selected:    q,
				}
			}
		}
	}
	return out, nil
}
