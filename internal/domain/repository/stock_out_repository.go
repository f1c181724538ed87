package repository

import (
	"context"

	"github.com/jhoicas/stockflow/internal/domain/entity"
)

// StockOutRepository puerto de persistencia de salidas y sus líneas.
type StockOutRepository interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, doc *entity.StockOut) error
	GetByID(ctx context.Context, id string) (*entity.StockOut, error)
	List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.StockOut, error)
	Update(ctx context.Context, doc *entity.StockOut) error
	Delete(ctx context.Context, id string) error
	AddLine(ctx context.Context, line *entity.StockOutLine) error
	UpdateLine(ctx context.Context, line *entity.StockOutLine) error
	DeleteLine(ctx context.Context, docID, lineID string) error
}
