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

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

// StockAdjustmentRepo persistencia de ajustes (stock_adjustments + stock_adjustment_lines).
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el repositorio sobre pool o tx.
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

const adjustmentColumns = `id, reference, adjustment_date, employee_id, attachment_name, state, created_by, created_at, updated_at`

func (r *StockAdjustmentRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_adjustments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock adjustments: %w", err)
	}
	return n, nil
}

func (r *StockAdjustmentRepo) Create(ctx context.Context, doc *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.Reference, doc.Date, doc.EmployeeID, doc.AttachmentName, string(doc.State),
		doc.CreatedBy, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock adjustment: %w", err)
	}
	for i := range doc.Lines {
		if err := r.AddLine(ctx, &doc.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *StockAdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	doc, err := scanAdjustment(r.q.QueryRow(ctx, `SELECT `+adjustmentColumns+` FROM stock_adjustments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock adjustment: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.StockAdjustment{doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *StockAdjustmentRepo) List(ctx context.Context, f entity.DocumentFilter) ([]*entity.StockAdjustment, error) {
	lim, off := pageArgs(f.Limit, f.Offset)
	query := `SELECT ` + adjustmentColumns + ` FROM stock_adjustments
		WHERE ($1::text[] IS NULL OR state = ANY($1)) AND NOT (state = ANY(COALESCE($2::text[], '{}')))
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, statesArg(f.States), statesArg(f.ExcludeStates), lim, off)
	if err != nil {
		return nil, fmt.Errorf("list stock adjustments: %w", err)
	}
	var docs []*entity.StockAdjustment
	for rows.Next() {
		doc, err := scanAdjustment(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stock adjustment: %w", err)
		}
		docs = append(docs, doc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock adjustments: %w", err)
	}
	if err := r.loadLines(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *StockAdjustmentRepo) Update(ctx context.Context, doc *entity.StockAdjustment) error {
	query := `
		UPDATE stock_adjustments SET adjustment_date = $2, employee_id = $3, attachment_name = $4,
			state = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, doc.ID, doc.Date, doc.EmployeeID, doc.AttachmentName, string(doc.State), doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock adjustment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ajuste %s", domain.ErrNotFound, doc.ID)
	}
	return nil
}

func (r *StockAdjustmentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_adjustments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete stock adjustment: %w", err)
	}
	return nil
}

func (r *StockAdjustmentRepo) AddLine(ctx context.Context, l *entity.StockAdjustmentLine) error {
	query := `
		INSERT INTO stock_adjustment_lines (id, stock_adjustment_id, product_id, adjustment, reason, position)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM stock_adjustment_lines WHERE stock_adjustment_id = $2))`
	_, err := r.q.Exec(ctx, query, l.ID, l.StockAdjustmentID, l.ProductID, l.Adjustment, l.Reason)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		return fmt.Errorf("insert stock adjustment line: %w", err)
	}
	return nil
}

func (r *StockAdjustmentRepo) UpdateLine(ctx context.Context, l *entity.StockAdjustmentLine) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_adjustment_lines SET product_id = $3, adjustment = $4, reason = $5 WHERE id = $1 AND stock_adjustment_id = $2`,
		l.ID, l.StockAdjustmentID, l.ProductID, l.Adjustment, l.Reason)
	if err != nil {
		return fmt.Errorf("update stock adjustment line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, l.ID)
	}
	return nil
}

func (r *StockAdjustmentRepo) DeleteLine(ctx context.Context, docID, lineID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_adjustment_lines WHERE id = $1 AND stock_adjustment_id = $2`, lineID, docID)
	if err != nil {
		return fmt.Errorf("delete stock adjustment line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
	}
	return nil
}

func (r *StockAdjustmentRepo) loadLines(ctx context.Context, docs []*entity.StockAdjustment) error {
	if len(docs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.StockAdjustment, len(docs))
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, stock_adjustment_id, product_id, adjustment, reason
		FROM stock_adjustment_lines WHERE stock_adjustment_id = ANY($1) ORDER BY stock_adjustment_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list stock adjustment lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.StockAdjustmentLine
		if err := rows.Scan(&l.ID, &l.StockAdjustmentID, &l.ProductID, &l.Adjustment, &l.Reason); err != nil {
			return fmt.Errorf("scan stock adjustment line: %w", err)
		}
		d := byID[l.StockAdjustmentID]
		d.Lines = append(d.Lines, l)
	}
	return rows.Err()
}

func scanAdjustment(row pgx.Row) (*entity.StockAdjustment, error) {
	var d entity.StockAdjustment
	var state string
	err := row.Scan(&d.ID, &d.Reference, &d.Date, &d.EmployeeID, &d.AttachmentName, &state, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.State = entity.State(state)
	return &d, nil
}
