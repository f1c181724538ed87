package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockflow/internal/application/dto"
	"github.com/jhoicas/stockflow/internal/application/inventory"
	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/internal/domain/repository"
)

// ProductUseCase casos de uso de productos. Los saldos se manejan vía documentos de inventario.
type ProductUseCase struct {
	repo    repository.ProductRepository
	tx      inventory.TxRunner
	balance *inventory.BalanceService
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, tx inventory.TxRunner, balance *inventory.BalanceService) *ProductUseCase {
	return &ProductUseCase{repo: repo, tx: tx, balance: balance}
}

// Create crea un nuevo producto. Los saldos inician en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre del producto es obligatorio", domain.ErrInvalidInput)
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "Unidad"
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         in.Name,
		DefaultCode:  in.DefaultCode,
		UnitMeasure:  in.UnitMeasure,
		DepartmentID: in.DepartmentID,
		VariantID:    in.VariantID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID con sus saldos.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Recompute fuerza el recálculo del saldo de un producto desde sus líneas.
func (uc *ProductUseCase) Recompute(ctx context.Context, id string) (*dto.ProductResponse, error) {
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		return uc.balance.Recompute(ctx, r, id)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		DefaultCode:        p.DefaultCode,
		UnitMeasure:        p.UnitMeasure,
		DepartmentID:       p.DepartmentID,
		VariantID:          p.VariantID,
		PurchasedQuantity:  p.Balance.Purchased,
		IssuedQuantity:     p.Balance.Issued,
		AdjustmentQuantity: p.Balance.Adjusted,
		BalanceStock:       p.Balance.BalanceStock,
		QtyAvailable:       p.Balance.QtyAvailable,
		VirtualAvailable:   p.Balance.VirtualAvailable,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
