package memory

import (
	"context"

	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/internal/domain/repository"
)

var (
	_ repository.RequisitionRepository   = (*requisitionRepo)(nil)
	_ repository.PurchaseOrderRepository = (*purchaseOrderRepo)(nil)
)

type requisitionRepo struct{ s *view }

// NextSequence contador en memoria; en rollback vuelve al valor anterior.
func (r *requisitionRepo) NextSequence(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.requisitionSeq++
	return r.s.d.requisitionSeq, nil
}

func (r *requisitionRepo) Create(_ context.Context, req *entity.Requisition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.requisitions.insert(req.ID, req)
}

func (r *requisitionRepo) GetByID(_ context.Context, id string) (*entity.Requisition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.requisitions.get(id), nil
}

func (r *requisitionRepo) List(_ context.Context, f entity.DocumentFilter) ([]*entity.Requisition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.requisitions.list(func(req *entity.Requisition) bool { return f.Matches(req.State) }, f.Limit, f.Offset, true), nil
}

func (r *requisitionRepo) Update(_ context.Context, req *entity.Requisition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.requisitions.mutate(req.ID, func(stored *entity.Requisition) error {
		lines := stored.Lines
		*stored = *cloneRequisition(req)
		stored.Lines = lines
		return nil
	})
}

func (r *requisitionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.requisitions.remove(id)
}

func (r *requisitionRepo) AddLine(_ context.Context, line *entity.RequisitionLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.requisitions.mutate(line.RequisitionID, func(req *entity.Requisition) error {
		req.Lines = append(req.Lines, *line)
		return nil
	})
}

func (r *requisitionRepo) UpdateLine(_ context.Context, line *entity.RequisitionLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.requisitions.mutate(line.RequisitionID, func(req *entity.Requisition) error {
		stored, ok := req.Line(line.ID)
		if !ok {
			return lineNotFound(line.ID)
		}
		*stored = *line
		return nil
	})
}

func (r *requisitionRepo) DeleteLine(_ context.Context, reqID, lineID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.requisitions.mutate(reqID, func(req *entity.Requisition) error {
		for i, l := range req.Lines {
			if l.ID == lineID {
				req.Lines = append(req.Lines[:i:i], req.Lines[i+1:]...)
				return nil
			}
		}
		return lineNotFound(lineID)
	})
}

type purchaseOrderRepo struct{ s *view }

func (r *purchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.purchaseOrders.insert(po.ID, po)
}

func (r *purchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.purchaseOrders.get(id), nil
}

func (r *purchaseOrderRepo) CountByOrigin(_ context.Context, origin string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	r.s.d.purchaseOrders.each(func(po *entity.PurchaseOrder) {
		if po.Origin == origin {
			n++
		}
	})
	return n, nil
}
