package inventory

import (
	"context"

	"github.com/jhoicas/stockflow/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback: ninguna transición queda aplicada a medias.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}
