package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// AverageUnitCost costo promedio ponderado de lo disponible en los lotes (CurrentQuantity, no inicial).
func AverageUnitCost(batches []*entity.StockBatch) decimal.Decimal {
	stock := decimal.Zero
	cost := decimal.Zero
	for _, b := range batches {
		if b.CurrentQuantity <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(b.CurrentQuantity))
		cost = CostCalculator(stock, cost, qty, b.UnitCost)
		stock = stock.Add(qty)
	}
	return cost.Round(4)
}

// MaterialCost costo de materiales de un ensamble: Σ QuantityUsed × UnitCost del lote.
// Las filas cuyo lote no esté en batches no suman.
func MaterialCost(rows []entity.AssemblyComponentBatch, batches map[string]*entity.StockBatch) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		b, ok := batches[r.StockBatchID]
		if !ok || b == nil {
			continue
		}
		total = total.Add(b.UnitCost.Mul(decimal.NewFromInt(int64(r.QuantityUsed))))
	}
	return total
}
