package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/internal/domain/repository"
)

var _ repository.RequisitionRepository = (*RequisitionRepo)(nil)

// RequisitionRepo persistencia de requisiciones (requisitions + requisition_lines).
type RequisitionRepo struct {
	q Querier
}

// NewRequisitionRepository construye el repositorio sobre pool o tx.
func NewRequisitionRepository(q Querier) *RequisitionRepo {
	return &RequisitionRepo{q: q}
}

const requisitionColumns = `id, reference, vendor_id, requester_id, department_id, state, purchase_order_id, created_at, updated_at`

// NextSequence siguiente valor de purchase_requisition_seq.
func (r *RequisitionRepo) NextSequence(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('purchase_requisition_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("next requisition sequence: %w", err)
	}
	return n, nil
}

func (r *RequisitionRepo) Create(ctx context.Context, req *entity.Requisition) error {
	query := `
		INSERT INTO requisitions (` + requisitionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.Reference, req.VendorID, req.RequesterID, req.DepartmentID, string(req.State),
		req.PurchaseOrderID, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert requisition: %w", err)
	}
	for i := range req.Lines {
		if err := r.AddLine(ctx, &req.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *RequisitionRepo) GetByID(ctx context.Context, id string) (*entity.Requisition, error) {
	req, err := scanRequisition(r.q.QueryRow(ctx, `SELECT `+requisitionColumns+` FROM requisitions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get requisition: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Requisition{req}); err != nil {
		return nil, err
	}
	return req, nil
}

// List requisiciones más recientes primero; ExcludeStates aplica la visibilidad por rol.
func (r *RequisitionRepo) List(ctx context.Context, f entity.DocumentFilter) ([]*entity.Requisition, error) {
	lim, off := pageArgs(f.Limit, f.Offset)
	query := `SELECT ` + requisitionColumns + ` FROM requisitions
		WHERE ($1::text[] IS NULL OR state = ANY($1)) AND NOT (state = ANY(COALESCE($2::text[], '{}')))
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, statesArg(f.States), statesArg(f.ExcludeStates), lim, off)
	if err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	var reqs []*entity.Requisition
	for rows.Next() {
		req, err := scanRequisition(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan requisition: %w", err)
		}
		reqs = append(reqs, req)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	if err := r.loadLines(ctx, reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *RequisitionRepo) Update(ctx context.Context, req *entity.Requisition) error {
	query := `
		UPDATE requisitions SET vendor_id = $2, department_id = $3, state = $4, purchase_order_id = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, req.ID, req.VendorID, req.DepartmentID, string(req.State), req.PurchaseOrderID, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update requisition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: requisición %s", domain.ErrNotFound, req.ID)
	}
	return nil
}

func (r *RequisitionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM requisitions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete requisition: %w", err)
	}
	return nil
}

func (r *RequisitionRepo) AddLine(ctx context.Context, l *entity.RequisitionLine) error {
	query := `
		INSERT INTO requisition_lines (id, requisition_id, product_id, quantity, specifications, estimated_cost,
			budget_code, justification, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM requisition_lines WHERE requisition_id = $2))`
	_, err := r.q.Exec(ctx, query, l.ID, l.RequisitionID, l.ProductID, l.Quantity, l.Specifications,
		l.EstimatedCost, l.BudgetCode, l.Justification)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		return fmt.Errorf("insert requisition line: %w", err)
	}
	return nil
}

func (r *RequisitionRepo) UpdateLine(ctx context.Context, l *entity.RequisitionLine) error {
	query := `
		UPDATE requisition_lines SET product_id = $3, quantity = $4, specifications = $5, estimated_cost = $6,
			budget_code = $7, justification = $8
		WHERE id = $1 AND requisition_id = $2`
	tag, err := r.q.Exec(ctx, query, l.ID, l.RequisitionID, l.ProductID, l.Quantity, l.Specifications,
		l.EstimatedCost, l.BudgetCode, l.Justification)
	if err != nil {
		return fmt.Errorf("update requisition line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, l.ID)
	}
	return nil
}

func (r *RequisitionRepo) DeleteLine(ctx context.Context, reqID, lineID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM requisition_lines WHERE id = $1 AND requisition_id = $2`, lineID, reqID)
	if err != nil {
		return fmt.Errorf("delete requisition line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
	}
	return nil
}

func (r *RequisitionRepo) loadLines(ctx context.Context, reqs []*entity.Requisition) error {
	if len(reqs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Requisition, len(reqs))
	ids := make([]string, 0, len(reqs))
	for _, req := range reqs {
		byID[req.ID] = req
		ids = append(ids, req.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, requisition_id, product_id, quantity, specifications, estimated_cost, budget_code, justification
		FROM requisition_lines WHERE requisition_id = ANY($1) ORDER BY requisition_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list requisition lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.RequisitionLine
		if err := rows.Scan(&l.ID, &l.RequisitionID, &l.ProductID, &l.Quantity, &l.Specifications,
			&l.EstimatedCost, &l.BudgetCode, &l.Justification); err != nil {
			return fmt.Errorf("scan requisition line: %w", err)
		}
		req := byID[l.RequisitionID]
		req.Lines = append(req.Lines, l)
	}
	return rows.Err()
}

func scanRequisition(row pgx.Row) (*entity.Requisition, error) {
	var req entity.Requisition
	var state string
	err := row.Scan(&req.ID, &req.Reference, &req.VendorID, &req.RequesterID, &req.DepartmentID, &state,
		&req.PurchaseOrderID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	req.State = entity.State(state)
	return &req, nil
}
