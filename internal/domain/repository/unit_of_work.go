package repository

// UnitOfWork agrupa los repositorios atados a una misma transacción.
// Se pasa explícitamente a cada callback transaccional para que el límite de la tx sea visible.
type UnitOfWork interface {
	Components() ComponentRepository
	Batches() StockBatchRepository
	Products() ProductRepository
	Assemblies() AssemblyRepository
	Allocations() AllocationRepository
}
