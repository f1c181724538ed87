package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow/internal/application/dto"
	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	invdomain "github.com/jhoicas/stockflow/internal/domain/inventory"
	"github.com/jhoicas/stockflow/internal/domain/repository"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// AdjustmentUseCase casos de uso de ajustes de inventario.
type AdjustmentUseCase struct {
	tx      TxRunner
	repos   repository.Repositories
	balance *BalanceService
	prefix  string
	log     *logger.Logger
	now     func() time.Time
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(tx TxRunner, repos repository.Repositories, balance *BalanceService, prefix string, log *logger.Logger) *AdjustmentUseCase {
	if prefix == "" {
		prefix = invdomain.DefaultReferencePrefix
	}
	return &AdjustmentUseCase{
		tx:      tx,
		repos:   repos,
		balance: balance,
		prefix:  prefix,
		log:     log.Component("adjustment"),
		now:     time.Now,
	}
}

// Create crea un ajuste en borrador; el empleado por defecto es el del token.
func (uc *AdjustmentUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateStockAdjustmentRequest) (*dto.StockAdjustmentResponse, error) {
	now := uc.now()
	date, err := parseDate(in.Date, now)
	if err != nil {
		return nil, err
	}
	employee := in.EmployeeID
	if employee == "" {
		employee = actor.EmployeeID
	}
	if employee == "" {
		return nil, domain.Validation("el campo empleado es obligatorio")
	}
	doc := &entity.StockAdjustment{
		ID:             uuid.New().String(),
		Date:           date,
		EmployeeID:     employee,
		AttachmentName: in.AttachmentName,
		State:          entity.StateDraft,
		CreatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, l := range in.Lines {
		line, err := newAdjustmentLine(doc.ID, l)
		if err != nil {
			return nil, err
		}
		doc.Lines = append(doc.Lines, *line)
	}

	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		if err := requireProducts(ctx, r.Products, doc.ProductIDs()...); err != nil {
			return err
		}
		count, err := r.Adjustments.Count(ctx)
		if err != nil {
			return err
		}
		doc.Reference = invdomain.FormatReference(uc.prefix, invdomain.ReferenceTypeAdjustment, count)
		if err := r.Adjustments.Create(ctx, doc); err != nil {
			return err
		}
		return uc.balance.Recompute(ctx, r, doc.ProductIDs()...)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("id", doc.ID).Str("reference", doc.Reference).Int("lines", len(doc.Lines)).Msg("ajuste creado")
	return uc.respond(ctx, doc)
}

// GetByID obtiene un ajuste con las existencias actuales de cada producto.
func (uc *AdjustmentUseCase) GetByID(ctx context.Context, id string) (*dto.StockAdjustmentResponse, error) {
	doc, err := uc.repos.Adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, notFound("ajuste", id)
	}
	return uc.respond(ctx, doc)
}

// List lista ajustes con filtro opcional de estado.
func (uc *AdjustmentUseCase) List(ctx context.Context, in dto.ListDocumentsRequest) ([]*dto.StockAdjustmentResponse, error) {
	filter, err := toFilter(invdomain.AdjustmentMachine, in)
	if err != nil {
		return nil, err
	}
	docs, err := uc.repos.Adjustments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockAdjustmentResponse, 0, len(docs))
	for _, d := range docs {
		resp, err := uc.respond(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// Update modifica fecha y adjunto.
func (uc *AdjustmentUseCase) Update(ctx context.Context, id string, in dto.UpdateStockAdjustmentRequest) (*dto.StockAdjustmentResponse, error) {
	var out *entity.StockAdjustment
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.Adjustments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("ajuste", id)
		}
		if in.Date != nil {
			if *in.Date == "" {
				return domain.Validation("el campo fecha es obligatorio")
			}
			d, err := parseDate(*in.Date, uc.now())
			if err != nil {
				return err
			}
			doc.Date = d
		}
		if in.AttachmentName != nil {
			doc.AttachmentName = *in.AttachmentName
		}
		doc.UpdatedAt = uc.now()
		out = doc
		return r.Adjustments.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, out)
}

// Delete elimina el ajuste salvo que esté aprobado.
func (uc *AdjustmentUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.Adjustments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("ajuste", id)
		}
		if err := invdomain.AdjustmentMachine.CanDelete(doc.State); err != nil {
			return err
		}
		if err := r.Adjustments.Delete(ctx, id); err != nil {
			return err
		}
		return uc.balance.Recompute(ctx, r, doc.ProductIDs()...)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("id", id).Str("actor", actor.UserID).Msg("ajuste eliminado")
	return nil
}

// AddLine agrega una línea de ajuste.
func (uc *AdjustmentUseCase) AddLine(ctx context.Context, id string, in dto.StockAdjustmentLineRequest) (*dto.StockAdjustmentResponse, error) {
	var out *entity.StockAdjustment
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.Adjustments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("ajuste", id)
		}
		line, err := newAdjustmentLine(doc.ID, in)
		if err != nil {
			return err
		}
		if err := requireProducts(ctx, r.Products, line.ProductID); err != nil {
			return err
		}
		if err := r.Adjustments.AddLine(ctx, line); err != nil {
			return err
		}
		doc.Lines = append(doc.Lines, *line)
		out = doc
		return uc.balance.Recompute(ctx, r, line.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, out)
}

// UpdateLine modifica producto, ajuste o motivo de una línea.
func (uc *AdjustmentUseCase) UpdateLine(ctx context.Context, id, lineID string, in dto.StockAdjustmentLineRequest) (*dto.StockAdjustmentResponse, error) {
	var out *entity.StockAdjustment
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.Adjustments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("ajuste", id)
		}
		line, ok := doc.Line(lineID)
		if !ok {
			return notFound("línea", lineID)
		}
		previous := line.ProductID
		if in.ProductID != "" {
			if err := requireProducts(ctx, r.Products, in.ProductID); err != nil {
				return err
			}
			line.ProductID = in.ProductID
		}
		if in.Adjustment != nil {
			line.Adjustment = *in.Adjustment
		}
		if in.Reason != nil {
			line.Reason = *in.Reason
		}
		if err := r.Adjustments.UpdateLine(ctx, line); err != nil {
			return err
		}
		out = doc
		return uc.balance.Recompute(ctx, r, previous, line.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, out)
}

// RemoveLine elimina una línea de ajuste.
func (uc *AdjustmentUseCase) RemoveLine(ctx context.Context, id, lineID string) (*dto.StockAdjustmentResponse, error) {
	var out *entity.StockAdjustment
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.Adjustments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("ajuste", id)
		}
		line, ok := doc.Line(lineID)
		if !ok {
			return notFound("línea", lineID)
		}
		productID := line.ProductID
		if err := r.Adjustments.DeleteLine(ctx, id, lineID); err != nil {
			return err
		}
		kept := doc.Lines[:0]
		for _, l := range doc.Lines {
			if l.ID != lineID {
				kept = append(kept, l)
			}
		}
		doc.Lines = kept
		out = doc
		return uc.balance.Recompute(ctx, r, productID)
	})
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, out)
}

// Transition aplica un botón del flujo. submit y verify exigen ajuste > 0 en todas las líneas.
func (uc *AdjustmentUseCase) Transition(ctx context.Context, actor entity.Actor, id string, action invdomain.Action) (entity.State, error) {
	to, err := invdomain.AdjustmentMachine.Target(action)
	if err != nil {
		return "", err
	}
	var from entity.State
	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.Adjustments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("ajuste", id)
		}
		from = doc.State
		if err := invdomain.ValidateAdjustment(action, doc.Lines); err != nil {
			return err
		}
		doc.State = to
		doc.UpdatedAt = uc.now()
		if err := r.Adjustments.Update(ctx, doc); err != nil {
			return err
		}
		return uc.balance.Recompute(ctx, r, doc.ProductIDs()...)
	})
	logTransition(uc.log, entity.LedgerKindAdjustment, id, string(action), from, to, actor, err)
	if err != nil {
		return "", err
	}
	return to, nil
}

func (uc *AdjustmentUseCase) respond(ctx context.Context, doc *entity.StockAdjustment) (*dto.StockAdjustmentResponse, error) {
	available, err := productBalances(ctx, uc.repos.Products, doc.ProductIDs()...)
	if err != nil {
		return nil, err
	}
	return toAdjustmentResponse(doc, available), nil
}

func newAdjustmentLine(docID string, in dto.StockAdjustmentLineRequest) (*entity.StockAdjustmentLine, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id es obligatorio en cada línea", domain.ErrInvalidInput)
	}
	line := &entity.StockAdjustmentLine{
		ID:                uuid.New().String(),
		StockAdjustmentID: docID,
		ProductID:         in.ProductID,
		Adjustment:        decimal.Zero,
	}
	if in.Adjustment != nil {
		line.Adjustment = *in.Adjustment
	}
	if in.Reason != nil {
		line.Reason = *in.Reason
	}
	return line, nil
}

func toAdjustmentResponse(doc *entity.StockAdjustment, available map[string]decimal.Decimal) *dto.StockAdjustmentResponse {
	date := doc.Date.Format(dto.DateLayout)
	out := &dto.StockAdjustmentResponse{
		ID:             doc.ID,
		Reference:      doc.Reference,
		Date:           date,
		EmployeeID:     doc.EmployeeID,
		AttachmentName: doc.AttachmentName,
		State:          doc.State.String(),
		Lines:          make([]dto.StockAdjustmentLineResponse, 0, len(doc.Lines)),
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
	for _, l := range doc.Lines {
		out.Lines = append(out.Lines, dto.StockAdjustmentLineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			Adjustment:     l.Adjustment,
			Reason:         l.Reason,
			Available:      available[l.ProductID],
			AdjustmentDate: date,
			State:          doc.State.String(),
		})
	}
	return out
}
