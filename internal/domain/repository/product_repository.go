package repository

import (
	"context"

	"github.com/jhoicas/stockflow/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto mientras se recalcula su saldo.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// UpdateStockBalance sobrescribe los saldos derivados (solo el agregador lo usa).
	UpdateStockBalance(ctx context.Context, productID string, balance entity.StockBalance) error
}
