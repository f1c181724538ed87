package repository

import (
	"context"

	"github.com/jhoicas/stockflow/internal/domain/entity"
)

// StockAdjustmentRepository puerto de persistencia de ajustes y sus líneas.
type StockAdjustmentRepository interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, doc *entity.StockAdjustment) error
	GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error)
	List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.StockAdjustment, error)
	Update(ctx context.Context, doc *entity.StockAdjustment) error
	Delete(ctx context.Context, id string) error
	AddLine(ctx context.Context, line *entity.StockAdjustmentLine) error
	UpdateLine(ctx context.Context, line *entity.StockAdjustmentLine) error
	DeleteLine(ctx context.Context, docID, lineID string) error
}
