package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow/internal/application/dto"
	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/internal/domain/repository"
	"github.com/jhoicas/stockflow/internal/domain/requisition"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// RequisitionUseCase casos de uso de requisiciones de compra.
type RequisitionUseCase struct {
	tx     TxRunner
	repos  repository.Repositories
	prefix string
	log    *logger.Logger
	now    func() time.Time
}

// NewRequisitionUseCase construye el caso de uso. prefix: prefijo de referencia (PR).
func NewRequisitionUseCase(tx TxRunner, repos repository.Repositories, prefix string, log *logger.Logger) *RequisitionUseCase {
	if prefix == "" {
		prefix = "PR"
	}
	return &RequisitionUseCase{
		tx:     tx,
		repos:  repos,
		prefix: prefix,
		log:    log.Component("requisition"),
		now:    time.Now,
	}
}

// Create crea una requisición en borrador con referencia PR/00001 tomada de la secuencia.
func (uc *RequisitionUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateRequisitionRequest) (*dto.RequisitionResponse, error) {
	now := uc.now()
	req := &entity.Requisition{
		ID:           uuid.New().String(),
		VendorID:     emptyToNil(in.VendorID),
		RequesterID:  actor.UserID,
		DepartmentID: in.DepartmentID,
		State:        entity.StateDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, l := range in.Lines {
		line, err := newRequisitionLine(req.ID, l)
		if err != nil {
			return nil, err
		}
		req.Lines = append(req.Lines, *line)
	}

	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		if err := requireProducts(ctx, r.Products, req.Lines...); err != nil {
			return err
		}
		seq, err := r.Requisitions.NextSequence(ctx)
		if err != nil {
			return err
		}
		req.Reference = fmt.Sprintf("%s/%05d", uc.prefix, seq)
		return r.Requisitions.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("id", req.ID).Str("reference", req.Reference).Str("actor", actor.UserID).Msg("requisición creada")
	return toRequisitionResponse(req), nil
}

// GetByID obtiene una requisición. La visibilidad por rol solo aplica a List.
func (uc *RequisitionUseCase) GetByID(ctx context.Context, id string) (*dto.RequisitionResponse, error) {
	req, err := uc.repos.Requisitions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, notFound(id)
	}
	return toRequisitionResponse(req), nil
}

// List lista requisiciones ocultando los estados que el rol del actor no debe ver.
func (uc *RequisitionUseCase) List(ctx context.Context, actor entity.Actor, in dto.ListDocumentsRequest) ([]*dto.RequisitionResponse, error) {
	in.DefaultPage()
	filter := entity.DocumentFilter{
		ExcludeStates: requisition.HiddenStates(actor),
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	if in.State != "" {
		st := entity.State(in.State)
		if !requisition.ValidState(st) {
			return nil, fmt.Errorf("%w: estado %q no válido para requisiciones", domain.ErrInvalidInput, in.State)
		}
		filter.States = []entity.State{st}
	}
	reqs, err := uc.repos.Requisitions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RequisitionResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toRequisitionResponse(r))
	}
	return out, nil
}

// Update modifica proveedor y departamento, sujeto al control de escritura por rol.
func (uc *RequisitionUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateRequisitionRequest) (*dto.RequisitionResponse, error) {
	var out *entity.Requisition
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		req, err := uc.loadWritable(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if in.VendorID != nil {
			req.VendorID = emptyToNil(in.VendorID)
		}
		if in.DepartmentID != nil {
			req.DepartmentID = *in.DepartmentID
		}
		req.UpdatedAt = uc.now()
		out = req
		return r.Requisitions.Update(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return toRequisitionResponse(out), nil
}

// Delete elimina la requisición; solo en borrador.
func (uc *RequisitionUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		req, err := r.Requisitions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return notFound(id)
		}
		if err := requisition.CanDelete(req.State); err != nil {
			return err
		}
		return r.Requisitions.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("id", id).Str("actor", actor.UserID).Msg("requisición eliminada")
	return nil
}

// AddLine agrega una línea (control de escritura por rol).
func (uc *RequisitionUseCase) AddLine(ctx context.Context, actor entity.Actor, id string, in dto.RequisitionLineRequest) (*dto.RequisitionResponse, error) {
	var out *entity.Requisition
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		req, err := uc.loadWritable(ctx, r, actor, id)
		if err != nil {
			return err
		}
		line, err := newRequisitionLine(req.ID, in)
		if err != nil {
			return err
		}
		if err := requireProducts(ctx, r.Products, *line); err != nil {
			return err
		}
		if err := r.Requisitions.AddLine(ctx, line); err != nil {
			return err
		}
		req.Lines = append(req.Lines, *line)
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRequisitionResponse(out), nil
}

// UpdateLine modifica una línea (control de escritura por rol).
func (uc *RequisitionUseCase) UpdateLine(ctx context.Context, actor entity.Actor, id, lineID string, in dto.RequisitionLineRequest) (*dto.RequisitionResponse, error) {
	var out *entity.Requisition
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		req, err := uc.loadWritable(ctx, r, actor, id)
		if err != nil {
			return err
		}
		line, ok := req.Line(lineID)
		if !ok {
			return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
		}
		if in.ProductID != "" {
			line.ProductID = in.ProductID
			if err := requireProducts(ctx, r.Products, *line); err != nil {
				return err
			}
		}
		if in.Quantity != nil {
			line.Quantity = *in.Quantity
		}
		if in.Specifications != nil {
			line.Specifications = *in.Specifications
		}
		if in.EstimatedCost != nil {
			line.EstimatedCost = *in.EstimatedCost
		}
		if in.BudgetCode != nil {
			line.BudgetCode = *in.BudgetCode
		}
		if in.Justification != nil {
			line.Justification = *in.Justification
		}
		out = req
		return r.Requisitions.UpdateLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	return toRequisitionResponse(out), nil
}

// RemoveLine elimina una línea (control de escritura por rol).
func (uc *RequisitionUseCase) RemoveLine(ctx context.Context, actor entity.Actor, id, lineID string) (*dto.RequisitionResponse, error) {
	var out *entity.Requisition
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		req, err := uc.loadWritable(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if _, ok := req.Line(lineID); !ok {
			return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
		}
		if err := r.Requisitions.DeleteLine(ctx, id, lineID); err != nil {
			return err
		}
		kept := req.Lines[:0]
		for _, l := range req.Lines {
			if l.ID != lineID {
				kept = append(kept, l)
			}
		}
		req.Lines = kept
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRequisitionResponse(out), nil
}

// Transition aplica submit, review, back-to-draft, approve o reject.
// authorize tiene su propio caso de uso porque crea la orden de compra.
func (uc *RequisitionUseCase) Transition(ctx context.Context, actor entity.Actor, id string, action requisition.Action) (entity.State, error) {
	if action == requisition.ActionAuthorize {
		if _, err := uc.Authorize(ctx, actor, id); err != nil {
			return "", err
		}
		return entity.StateAuthorized, nil
	}
	to, err := requisition.Target(action)
	if err != nil {
		return "", err
	}
	var from entity.State
	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		req, err := uc.loadWritable(ctx, r, actor, id)
		if err != nil {
			return err
		}
		from = req.State
		if err := requisition.CanTransition(from); err != nil {
			return err
		}
		req.State = to
		req.UpdatedAt = uc.now()
		return r.Requisitions.Update(ctx, req)
	})
	uc.logTransition(id, string(action), from, to, actor, err)
	if err != nil {
		return "", err
	}
	return to, nil
}

// Authorize crea la orden de compra de la requisición y la deja en estado autorizada.
// Orden de validación: proveedor, variantes de los productos, control de escritura.
// Todo ocurre en una transacción: si algo falla no queda ninguna orden creada.
func (uc *RequisitionUseCase) Authorize(ctx context.Context, actor entity.Actor, id string) (*dto.PurchaseOrderResponse, error) {
	var (
		po   *entity.PurchaseOrder
		from entity.State
	)
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		req, err := r.Requisitions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return notFound(id)
		}
		from = req.State
		if err := requisition.CanTransition(from); err != nil {
			return err
		}
		products, err := loadProducts(ctx, r.Products, req.Lines)
		if err != nil {
			return err
		}
		order, err := requisition.BuildPurchaseOrder(req, products, uc.now())
		if err != nil {
			return err
		}
		if err := requisition.CheckWrite(actor, req.State); err != nil {
			return err
		}
		existing, err := r.PurchaseOrders.CountByOrigin(ctx, req.Reference)
		if err != nil {
			return err
		}
		if existing > 0 {
			return domain.Validation("ya existe una orden de compra con origen %s", req.Reference)
		}
		order.ID = uuid.New().String()
		for i := range order.Lines {
			order.Lines[i].ID = uuid.New().String()
			order.Lines[i].OrderID = order.ID
		}
		if err := r.PurchaseOrders.Create(ctx, order); err != nil {
			return err
		}
		req.PurchaseOrderID = &order.ID
		req.State = entity.StateAuthorized
		req.UpdatedAt = uc.now()
		if err := r.Requisitions.Update(ctx, req); err != nil {
			return err
		}
		po = order
		return nil
	})
	uc.logTransition(id, string(requisition.ActionAuthorize), from, entity.StateAuthorized, actor, err)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("id", id).Str("purchase_order", po.ID).Int("lines", len(po.Lines)).Msg("orden de compra creada")
	return toPurchaseOrderResponse(po), nil
}

// GetPurchaseOrder orden de compra creada al autorizar la requisición.
func (uc *RequisitionUseCase) GetPurchaseOrder(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	req, err := uc.repos.Requisitions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, notFound(id)
	}
	if req.PurchaseOrderID == nil {
		return nil, fmt.Errorf("%w: la requisición %s no tiene orden de compra", domain.ErrNotFound, req.Reference)
	}
	po, err := uc.repos.PurchaseOrders.GetByID(ctx, *req.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, *req.PurchaseOrderID)
	}
	return toPurchaseOrderResponse(po), nil
}

// loadWritable carga la requisición y aplica el control de escritura por rol.
func (uc *RequisitionUseCase) loadWritable(ctx context.Context, r repository.Repositories, actor entity.Actor, id string) (*entity.Requisition, error) {
	req, err := r.Requisitions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, notFound(id)
	}
	if err := requisition.CheckWrite(actor, req.State); err != nil {
		return nil, err
	}
	return req, nil
}

func (uc *RequisitionUseCase) logTransition(id, action string, from, to entity.State, actor entity.Actor, err error) {
	if err != nil {
		uc.log.Warn().Str("id", id).Str("action", action).Str("actor", actor.UserID).
			Str("reason", domain.Message(err)).Msg("transición rechazada")
		return
	}
	uc.log.Info().Str("id", id).Str("action", action).Str("from", from.String()).
		Str("to", to.String()).Str("actor", actor.UserID).Msg("transición aplicada")
}

func loadProducts(ctx context.Context, repo repository.ProductRepository, lines []entity.RequisitionLine) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(lines))
	for _, l := range lines {
		if _, ok := out[l.ProductID]; ok {
			continue
		}
		p, err := repo.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		out[l.ProductID] = p
	}
	return out, nil
}

func requireProducts(ctx context.Context, repo repository.ProductRepository, lines ...entity.RequisitionLine) error {
	_, err := loadProducts(ctx, repo, lines)
	return err
}

func newRequisitionLine(reqID string, in dto.RequisitionLineRequest) (*entity.RequisitionLine, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id es obligatorio en cada línea", domain.ErrInvalidInput)
	}
	line := &entity.RequisitionLine{
		ID:            uuid.New().String(),
		RequisitionID: reqID,
		ProductID:     in.ProductID,
		Quantity:      decimal.NewFromInt(1),
		EstimatedCost: decimal.Zero,
	}
	if in.Quantity != nil {
		line.Quantity = *in.Quantity
	}
	if in.Specifications != nil {
		line.Specifications = *in.Specifications
	}
	if in.EstimatedCost != nil {
		line.EstimatedCost = *in.EstimatedCost
	}
	if in.BudgetCode != nil {
		line.BudgetCode = *in.BudgetCode
	}
	if in.Justification != nil {
		line.Justification = *in.Justification
	}
	return line, nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func notFound(id string) error {
	return fmt.Errorf("%w: requisición %s", domain.ErrNotFound, id)
}

func toRequisitionResponse(r *entity.Requisition) *dto.RequisitionResponse {
	out := &dto.RequisitionResponse{
		ID:              r.ID,
		Reference:       r.Reference,
		VendorID:        r.VendorID,
		RequesterID:     r.RequesterID,
		DepartmentID:    r.DepartmentID,
		State:           r.State.String(),
		PurchaseOrderID: r.PurchaseOrderID,
		Lines:           make([]dto.RequisitionLineResponse, 0, len(r.Lines)),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	for _, l := range r.Lines {
		out.Lines = append(out.Lines, dto.RequisitionLineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			Specifications: l.Specifications,
			EstimatedCost:  l.EstimatedCost,
			BudgetCode:     l.BudgetCode,
			Justification:  l.Justification,
		})
	}
	return out
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	out := &dto.PurchaseOrderResponse{
		ID:        po.ID,
		PartnerID: po.PartnerID,
		Origin:    po.Origin,
		OrderDate: po.OrderDate,
		State:     po.State,
		Lines:     make([]dto.PurchaseOrderLineResponse, 0, len(po.Lines)),
	}
	for _, l := range po.Lines {
		out.Lines = append(out.Lines, dto.PurchaseOrderLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Name:        l.Name,
			ProductQty:  l.ProductQty,
			PriceUnit:   l.PriceUnit,
			ProductUOM:  l.ProductUOM,
			DatePlanned: l.DatePlanned.Format(dto.DateLayout),
		})
	}
	return out
}
