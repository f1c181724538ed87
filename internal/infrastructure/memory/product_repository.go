package memory

import (
	"context"

	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/internal/domain/repository"
)

type productRepo struct{ s *view }

var _ repository.ProductRepository = (*productRepo)(nil)

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.products.insert(p.ID, p)
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.products.get(id), nil
}

// GetForUpdate igual que GetByID: Run ya serializa las transacciones.
func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.products.list(nil, limit, offset, false), nil
}

func (r *productRepo) UpdateStockBalance(_ context.Context, productID string, balance entity.StockBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.products.mutate(productID, func(p *entity.Product) error {
		p.Balance = balance
		return nil
	})
}
