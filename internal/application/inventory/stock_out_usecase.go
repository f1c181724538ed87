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

// StockOutUseCase casos de uso de salidas (despachos) de inventario.
type StockOutUseCase struct {
	tx      TxRunner
	repos   repository.Repositories
	balance *BalanceService
	prefix  string
	log     *logger.Logger
	now     func() time.Time
}

// NewStockOutUseCase construye el caso de uso.
func NewStockOutUseCase(tx TxRunner, repos repository.Repositories, balance *BalanceService, prefix string, log *logger.Logger) *StockOutUseCase {
	if prefix == "" {
		prefix = invdomain.DefaultReferencePrefix
	}
	return &StockOutUseCase{
		tx:      tx,
		repos:   repos,
		balance: balance,
		prefix:  prefix,
		log:     log.Component("stock_out"),
		now:     time.Now,
	}
}

// Create crea una salida en borrador. Member es obligatorio.
func (uc *StockOutUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateStockOutRequest) (*dto.StockOutResponse, error) {
	if in.Member == "" {
		return nil, domain.Validation("el campo miembro es obligatorio")
	}
	now := uc.now()
	date, err := parseDate(in.StockOutDate, now)
	if err != nil {
		return nil, err
	}
	doc := &entity.StockOut{
		ID:           uuid.New().String(),
		StockOutDate: date,
		Member:       in.Member,
		IssuerID:     in.IssuerID,
		State:        entity.StateDraft,
		CreatedBy:    actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, l := range in.Lines {
		line, err := newStockOutLine(doc.ID, l)
		if err != nil {
			return nil, err
		}
		doc.Lines = append(doc.Lines, *line)
	}

	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		if err := requireProducts(ctx, r.Products, doc.ProductIDs()...); err != nil {
			return err
		}
		count, err := r.StockOuts.Count(ctx)
		if err != nil {
			return err
		}
		doc.Reference = invdomain.FormatReference(uc.prefix, invdomain.ReferenceTypeStockOut, count)
		if err := r.StockOuts.Create(ctx, doc); err != nil {
			return err
		}
		return uc.balance.Recompute(ctx, r, doc.ProductIDs()...)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("id", doc.ID).Str("reference", doc.Reference).Int("lines", len(doc.Lines)).Msg("salida creada")
	return uc.respond(ctx, doc)
}

// GetByID obtiene una salida; cada línea incluye el saldo actual del producto.
func (uc *StockOutUseCase) GetByID(ctx context.Context, id string) (*dto.StockOutResponse, error) {
	doc, err := uc.repos.StockOuts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, notFound("salida", id)
	}
	return uc.respond(ctx, doc)
}

// List lista salidas con filtro opcional de estado.
func (uc *StockOutUseCase) List(ctx context.Context, in dto.ListDocumentsRequest) ([]*dto.StockOutResponse, error) {
	filter, err := toFilter(invdomain.StockOutMachine, in)
	if err != nil {
		return nil, err
	}
	docs, err := uc.repos.StockOuts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockOutResponse, 0, len(docs))
	for _, d := range docs {
		resp, err := uc.respond(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// Update modifica miembro y despachador.
func (uc *StockOutUseCase) Update(ctx context.Context, id string, in dto.UpdateStockOutRequest) (*dto.StockOutResponse, error) {
	var out *entity.StockOut
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.StockOuts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("salida", id)
		}
		if in.Member != nil {
			if *in.Member == "" {
				return domain.Validation("el campo miembro es obligatorio")
			}
			doc.Member = *in.Member
		}
		if in.IssuerID != nil {
			doc.IssuerID = *in.IssuerID
		}
		doc.UpdatedAt = uc.now()
		out = doc
		return r.StockOuts.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, out)
}

// Delete elimina la salida salvo que ya esté despachada.
func (uc *StockOutUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.StockOuts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("salida", id)
		}
		if err := invdomain.StockOutMachine.CanDelete(doc.State); err != nil {
			return err
		}
		if err := r.StockOuts.Delete(ctx, id); err != nil {
			return err
		}
		return uc.balance.Recompute(ctx, r, doc.ProductIDs()...)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("id", id).Str("actor", actor.UserID).Msg("salida eliminada")
	return nil
}

// AddLine agrega una línea de despacho.
func (uc *StockOutUseCase) AddLine(ctx context.Context, id string, in dto.StockOutLineRequest) (*dto.StockOutResponse, error) {
	var out *entity.StockOut
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.StockOuts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("salida", id)
		}
		line, err := newStockOutLine(doc.ID, in)
		if err != nil {
			return err
		}
		if err := requireProducts(ctx, r.Products, line.ProductID); err != nil {
			return err
		}
		if err := r.StockOuts.AddLine(ctx, line); err != nil {
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

// UpdateLine modifica producto o cantidad despachada de una línea.
func (uc *StockOutUseCase) UpdateLine(ctx context.Context, id, lineID string, in dto.StockOutLineRequest) (*dto.StockOutResponse, error) {
	var out *entity.StockOut
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.StockOuts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("salida", id)
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
		if in.IssuedQuantity != nil {
			line.IssuedQuantity = *in.IssuedQuantity
		}
		if err := r.StockOuts.UpdateLine(ctx, line); err != nil {
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

// RemoveLine elimina una línea de despacho.
func (uc *StockOutUseCase) RemoveLine(ctx context.Context, id, lineID string) (*dto.StockOutResponse, error) {
	var out *entity.StockOut
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.StockOuts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("salida", id)
		}
		line, ok := doc.Line(lineID)
		if !ok {
			return notFound("línea", lineID)
		}
		productID := line.ProductID
		if err := r.StockOuts.DeleteLine(ctx, id, lineID); err != nil {
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

// Transition aplica un botón del flujo. check e issue validan todas las líneas
// antes de escribir; si alguna falla el documento queda sin cambios.
func (uc *StockOutUseCase) Transition(ctx context.Context, actor entity.Actor, id string, action invdomain.Action) (entity.State, error) {
	to, err := invdomain.StockOutMachine.Target(action)
	if err != nil {
		return "", err
	}
	var from entity.State
	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.StockOuts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("salida", id)
		}
		from = doc.State
		if action == invdomain.ActionCheck || action == invdomain.ActionIssue {
			balances, err := productBalances(ctx, r.Products, doc.ProductIDs()...)
			if err != nil {
				return err
			}
			if err := invdomain.ValidateStockOut(action, doc.Lines, balances); err != nil {
				return err
			}
		}
		doc.State = to
		doc.UpdatedAt = uc.now()
		if err := r.StockOuts.Update(ctx, doc); err != nil {
			return err
		}
		return uc.balance.Recompute(ctx, r, doc.ProductIDs()...)
	})
	logTransition(uc.log, entity.LedgerKindStockOut, id, string(action), from, to, actor, err)
	if err != nil {
		return "", err
	}
	return to, nil
}

func (uc *StockOutUseCase) respond(ctx context.Context, doc *entity.StockOut) (*dto.StockOutResponse, error) {
	balances, err := productBalances(ctx, uc.repos.Products, doc.ProductIDs()...)
	if err != nil {
		return nil, err
	}
	return toStockOutResponse(doc, balances), nil
}

func newStockOutLine(docID string, in dto.StockOutLineRequest) (*entity.StockOutLine, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id es obligatorio en cada línea", domain.ErrInvalidInput)
	}
	line := &entity.StockOutLine{
		ID:             uuid.New().String(),
		StockOutID:     docID,
		ProductID:      in.ProductID,
		IssuedQuantity: decimal.Zero,
	}
	if in.IssuedQuantity != nil {
		line.IssuedQuantity = *in.IssuedQuantity
	}
	return line, nil
}

func toStockOutResponse(doc *entity.StockOut, balances map[string]decimal.Decimal) *dto.StockOutResponse {
	out := &dto.StockOutResponse{
		ID:           doc.ID,
		Reference:    doc.Reference,
		StockOutDate: doc.StockOutDate.Format(dto.DateLayout),
		Member:       doc.Member,
		IssuerID:     doc.IssuerID,
		State:        doc.State.String(),
		Lines:        make([]dto.StockOutLineResponse, 0, len(doc.Lines)),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	for _, l := range doc.Lines {
		out.Lines = append(out.Lines, dto.StockOutLineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			IssuedQuantity: l.IssuedQuantity,
			BalanceStock:   balances[l.ProductID],
			State:          doc.State.String(),
		})
	}
	return out
}
