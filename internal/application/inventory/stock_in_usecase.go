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

// StockInUseCase casos de uso de entradas de mercancía: CRUD, líneas y botones del flujo.
// Toda modificación se ejecuta en una transacción y termina recalculando el saldo de
// los productos afectados.
type StockInUseCase struct {
	tx      TxRunner
	repos   repository.Repositories
	balance *BalanceService
	prefix  string
	log     *logger.Logger
	now     func() time.Time
}

// NewStockInUseCase construye el caso de uso. prefix es el prefijo de referencias (INVENTORY).
func NewStockInUseCase(tx TxRunner, repos repository.Repositories, balance *BalanceService, prefix string, log *logger.Logger) *StockInUseCase {
	if prefix == "" {
		prefix = invdomain.DefaultReferencePrefix
	}
	return &StockInUseCase{
		tx:      tx,
		repos:   repos,
		balance: balance,
		prefix:  prefix,
		log:     log.Component("stock_in"),
		now:     time.Now,
	}
}

// Create crea una entrada en borrador con sus líneas y referencia INVENTORY/STOCKIN/00N.
func (uc *StockInUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateStockInRequest) (*dto.StockInResponse, error) {
	now := uc.now()
	date, err := parseDate(in.GoodsReceivedDate, now)
	if err != nil {
		return nil, err
	}
	receiver := in.ReceiverID
	if receiver == "" {
		receiver = actor.EmployeeID
	}
	if receiver == "" {
		return nil, domain.Validation("el campo recibido por es obligatorio")
	}

	doc := &entity.StockIn{
		ID:                uuid.New().String(),
		GoodsReceivedDate: date,
		PurchaserID:       in.PurchaserID,
		DeliveryNoteNo:    in.DeliveryNoteNo,
		SupplierID:        in.SupplierID,
		ReceiverID:        receiver,
		State:             entity.StateDraft,
		CreatedBy:         actor.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, l := range in.Lines {
		line, err := newStockInLine(doc.ID, l)
		if err != nil {
			return nil, err
		}
		doc.Lines = append(doc.Lines, *line)
	}

	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		if err := requireProducts(ctx, r.Products, doc.ProductIDs()...); err != nil {
			return err
		}
		count, err := r.StockIns.Count(ctx)
		if err != nil {
			return err
		}
		doc.Reference = invdomain.FormatReference(uc.prefix, invdomain.ReferenceTypeStockIn, count)
		if err := r.StockIns.Create(ctx, doc); err != nil {
			return err
		}
		return uc.balance.Recompute(ctx, r, doc.ProductIDs()...)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("id", doc.ID).Str("reference", doc.Reference).Int("lines", len(doc.Lines)).Msg("entrada creada")
	return toStockInResponse(doc), nil
}

// GetByID obtiene una entrada con sus líneas.
func (uc *StockInUseCase) GetByID(ctx context.Context, id string) (*dto.StockInResponse, error) {
	doc, err := uc.repos.StockIns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, notFound("entrada", id)
	}
	return toStockInResponse(doc), nil
}

// List lista entradas (más recientes primero) con filtro opcional de estado.
func (uc *StockInUseCase) List(ctx context.Context, in dto.ListDocumentsRequest) ([]*dto.StockInResponse, error) {
	filter, err := toFilter(invdomain.StockInMachine, in)
	if err != nil {
		return nil, err
	}
	docs, err := uc.repos.StockIns.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockInResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toStockInResponse(d))
	}
	return out, nil
}

// Update modifica la cabecera. El estado solo cambia con los botones del flujo.
func (uc *StockInUseCase) Update(ctx context.Context, id string, in dto.UpdateStockInRequest) (*dto.StockInResponse, error) {
	var out *entity.StockIn
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.StockIns.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("entrada", id)
		}
		if in.GoodsReceivedDate != nil {
			d, err := parseDate(*in.GoodsReceivedDate, uc.now())
			if err != nil {
				return err
			}
			doc.GoodsReceivedDate = d
		}
		if in.PurchaserID != nil {
			doc.PurchaserID = *in.PurchaserID
		}
		if in.DeliveryNoteNo != nil {
			doc.DeliveryNoteNo = *in.DeliveryNoteNo
		}
		if in.SupplierID != nil {
			doc.SupplierID = *in.SupplierID
		}
		if in.ReceiverID != nil {
			if *in.ReceiverID == "" {
				return domain.Validation("el campo recibido por es obligatorio")
			}
			doc.ReceiverID = *in.ReceiverID
		}
		doc.UpdatedAt = uc.now()
		out = doc
		return r.StockIns.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return toStockInResponse(out), nil
}

// Delete elimina la entrada salvo que esté aprobada.
func (uc *StockInUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.StockIns.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("entrada", id)
		}
		if err := invdomain.StockInMachine.CanDelete(doc.State); err != nil {
			return err
		}
		if err := r.StockIns.Delete(ctx, id); err != nil {
			return err
		}
		return uc.balance.Recompute(ctx, r, doc.ProductIDs()...)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("id", id).Str("actor", actor.UserID).Msg("entrada eliminada")
	return nil
}

// AddLine agrega una línea y recalcula el saldo del producto.
func (uc *StockInUseCase) AddLine(ctx context.Context, id string, in dto.StockInLineRequest) (*dto.StockInResponse, error) {
	var out *entity.StockIn
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.StockIns.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("entrada", id)
		}
		line, err := newStockInLine(doc.ID, in)
		if err != nil {
			return err
		}
		if err := requireProducts(ctx, r.Products, line.ProductID); err != nil {
			return err
		}
		if err := r.StockIns.AddLine(ctx, line); err != nil {
			return err
		}
		doc.Lines = append(doc.Lines, *line)
		out = doc
		return uc.balance.Recompute(ctx, r, line.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return toStockInResponse(out), nil
}

// UpdateLine modifica producto, cantidad o costo de una línea y recalcula los saldos
// del producto anterior y del nuevo.
func (uc *StockInUseCase) UpdateLine(ctx context.Context, id, lineID string, in dto.StockInLineRequest) (*dto.StockInResponse, error) {
	var out *entity.StockIn
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.StockIns.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("entrada", id)
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
		if in.Quantity != nil {
			line.Quantity = *in.Quantity
		}
		if in.UnitCost != nil {
			line.UnitCost = *in.UnitCost
		}
		if in.UnitMeasure != "" {
			line.UnitMeasure = in.UnitMeasure
		}
		if err := r.StockIns.UpdateLine(ctx, line); err != nil {
			return err
		}
		out = doc
		return uc.balance.Recompute(ctx, r, previous, line.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return toStockInResponse(out), nil
}

// RemoveLine elimina una línea y recalcula el saldo del producto.
func (uc *StockInUseCase) RemoveLine(ctx context.Context, id, lineID string) (*dto.StockInResponse, error) {
	var out *entity.StockIn
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.StockIns.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("entrada", id)
		}
		line, ok := doc.Line(lineID)
		if !ok {
			return notFound("línea", lineID)
		}
		productID := line.ProductID
		if err := r.StockIns.DeleteLine(ctx, id, lineID); err != nil {
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
	return toStockInResponse(out), nil
}

// Transition aplica un botón del flujo (submit, approve, reject, reset) y recalcula
// el saldo de todos los productos del documento.
func (uc *StockInUseCase) Transition(ctx context.Context, actor entity.Actor, id string, action invdomain.Action) (entity.State, error) {
	to, err := invdomain.StockInMachine.Target(action)
	if err != nil {
		return "", err
	}
	var from entity.State
	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		doc, err := r.StockIns.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return notFound("entrada", id)
		}
		from = doc.State
		doc.State = to
		doc.UpdatedAt = uc.now()
		if err := r.StockIns.Update(ctx, doc); err != nil {
			return err
		}
		return uc.balance.Recompute(ctx, r, doc.ProductIDs()...)
	})
	logTransition(uc.log, entity.LedgerKindStockIn, id, string(action), from, to, actor, err)
	if err != nil {
		return "", err
	}
	return to, nil
}

func newStockInLine(docID string, in dto.StockInLineRequest) (*entity.StockInLine, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id es obligatorio en cada línea", domain.ErrInvalidInput)
	}
	line := &entity.StockInLine{
		ID:          uuid.New().String(),
		StockInID:   docID,
		ProductID:   in.ProductID,
		Quantity:    decimal.NewFromInt(1),
		UnitCost:    decimal.NewFromInt(1),
		UnitMeasure: in.UnitMeasure,
	}
	if in.Quantity != nil {
		line.Quantity = *in.Quantity
	}
	if in.UnitCost != nil {
		line.UnitCost = *in.UnitCost
	}
	return line, nil
}

func toStockInResponse(doc *entity.StockIn) *dto.StockInResponse {
	out := &dto.StockInResponse{
		ID:                doc.ID,
		Reference:         doc.Reference,
		GoodsReceivedDate: doc.GoodsReceivedDate.Format(dto.DateLayout),
		PurchaserID:       doc.PurchaserID,
		DeliveryNoteNo:    doc.DeliveryNoteNo,
		SupplierID:        doc.SupplierID,
		ReceiverID:        doc.ReceiverID,
		State:             doc.State.String(),
		TotalUnitCost:     doc.TotalUnitCost(),
		TotalCost:         doc.TotalCost(),
		Lines:             make([]dto.StockInLineResponse, 0, len(doc.Lines)),
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
	for _, l := range doc.Lines {
		out.Lines = append(out.Lines, dto.StockInLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			Cost:        l.Cost(),
			UnitMeasure: l.UnitMeasure,
			State:       doc.State.String(),
		})
	}
	return out
}
