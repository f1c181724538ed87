package repository

import (
	"context"

	"github.com/jhoicas/stockflow/internal/domain/entity"
)

// RequisitionRepository puerto de persistencia de requisiciones y sus líneas.
type RequisitionRepository interface {
	// NextSequence siguiente valor de la secuencia de referencias (monótona).
	NextSequence(ctx context.Context) (int64, error)
	Create(ctx context.Context, req *entity.Requisition) error
	GetByID(ctx context.Context, id string) (*entity.Requisition, error)
	List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.Requisition, error)
	Update(ctx context.Context, req *entity.Requisition) error
	Delete(ctx context.Context, id string) error
	AddLine(ctx context.Context, line *entity.RequisitionLine) error
	UpdateLine(ctx context.Context, line *entity.RequisitionLine) error
	DeleteLine(ctx context.Context, reqID, lineID string) error
}
