package repository

import (
	"context"

	"github.com/jhoicas/stockflow/internal/domain/entity"
)

// PurchaseOrderRepository interfaz de creación de órdenes del subsistema de compras.
type PurchaseOrderRepository interface {
	// Create persiste la orden con todas sus líneas y asigna los IDs.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// CountByOrigin órdenes ya creadas para una referencia de requisición.
	CountByOrigin(ctx context.Context, origin string) (int, error)
}
