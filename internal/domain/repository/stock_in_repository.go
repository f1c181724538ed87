package repository

import (
	"context"

	"github.com/jhoicas/stockflow/internal/domain/entity"
)

// StockInRepository puerto de persistencia de entradas y sus líneas.
// GetByID devuelve (nil, nil) si no existe; los documentos se devuelven con sus líneas.
type StockInRepository interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, doc *entity.StockIn) error
	GetByID(ctx context.Context, id string) (*entity.StockIn, error)
	List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.StockIn, error)
	// Update persiste la cabecera (incluido el estado).
	Update(ctx context.Context, doc *entity.StockIn) error
	Delete(ctx context.Context, id string) error
	AddLine(ctx context.Context, line *entity.StockInLine) error
	UpdateLine(ctx context.Context, line *entity.StockInLine) error
	DeleteLine(ctx context.Context, docID, lineID string) error
}
