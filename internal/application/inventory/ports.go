package inventory

import (
	"context"

	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando la UnitOfWork atada a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. ctx lleva el límite de tiempo de la tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, uow repository.UnitOfWork) error) error
}
