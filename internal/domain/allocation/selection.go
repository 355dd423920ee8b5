// Package allocation contiene el algoritmo puro de asignación de lotes a ensambles:
// planificación FIFO, reparto de cantidades entre unidades y validación contra la BOM.
// Nada en este paquete toca la base de datos ni muta lotes.
package allocation

import (
	"sort"

	"github.com/jhoicas/Ensamblaje-api/internal/domain"
)

// Draw cantidad tomada de un lote.
type Draw struct {
	BatchID  string
	Quantity int
}

// Line asignación concreta (componente, lote, cantidad) para una unidad.
type Line struct {
	ComponentID string
	BatchID     string
	Quantity    int
}

// SelectedBatch entrada plana tal como llega del llamador.
type SelectedBatch struct {
	ComponentID  string
	BatchID      string
	QuantityUsed int
}

// Selection asignación agregada por componente. El orden de los lotes de cada componente
// es el orden de consumo.
type Selection map[string][]Draw

// NewSelection agrupa por componente conservando el orden de aparición y fusiona
// entradas repetidas del mismo lote.
func NewSelection(items []SelectedBatch) (Selection, error) {
	sel := make(Selection)
	for _, it := range items {
		if it.ComponentID == "" || it.BatchID == "" || it.QuantityUsed <= 0 {
			return nil, domain.ErrInvalidInput
		}
		draws := sel[it.ComponentID]
		merged := false
		for i := range draws {
			if draws[i].BatchID == it.BatchID {
				draws[i].Quantity += it.QuantityUsed
				merged = true
				break
			}
		}
		if !merged {
			draws = append(draws, Draw{BatchID: it.BatchID, Quantity: it.QuantityUsed})
		}
		sel[it.ComponentID] = draws
	}
	return sel, nil
}

// Total cantidad seleccionada para un componente.
func (s Selection) Total(componentID string) int {
	total := 0
	for _, d := range s[componentID] {
		total += d.Quantity
	}
	return total
}

// ComponentIDs componentes presentes, ordenados.
func (s Selection) ComponentIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BatchIDs lotes referenciados, sin repetir y ordenados.
func (s Selection) BatchIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, draws := range s {
		for _, d := range draws {
			if _, ok := seen[d.BatchID]; ok {
				continue
			}
			seen[d.BatchID] = struct{}{}
			ids = append(ids, d.BatchID)
		}
	}
	sort.Strings(ids)
	return ids
}

// Items aplana la selección de vuelta a entradas (componentes en orden, lotes en orden de consumo).
func (s Selection) Items() []SelectedBatch {
	var out []SelectedBatch
	for _, comp := range s.ComponentIDs() {
		for _, d := range s[comp] {
			out = append(out, SelectedBatch{ComponentID: comp, BatchID: d.BatchID, QuantityUsed: d.Quantity})
		}
	}
	return out
}

// BatchTotals suma por lote de un conjunto de líneas; es lo que se descuenta del stock.
func BatchTotals(lines []Line) map[string]int {
	totals := make(map[string]int)
	for _, l := range lines {
		totals[l.BatchID] += l.Quantity
	}
	return totals
}

// SortedKeys claves de un mapa de totales en orden, para bloquear y escribir siempre en el mismo orden.
func SortedKeys(totals map[string]int) []string {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
