package purchase

import (
	"context"

	"github.com/jhoicas/stockflow/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace rollback: ninguna orden de compra queda creada.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}
