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

var _ repository.StockOutRepository = (*StockOutRepo)(nil)

// StockOutRepo persistencia de salidas (stock_outs + stock_out_lines).
type StockOutRepo struct {
	q Querier
}

// NewStockOutRepository construye el repositorio sobre pool o tx.
func NewStockOutRepository(q Querier) *StockOutRepo {
	return &StockOutRepo{q: q}
}

const stockOutColumns = `id, reference, stock_out_date, member, issuer_id, state, created_by, created_at, updated_at`

func (r *StockOutRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_outs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock outs: %w", err)
	}
	return n, nil
}

func (r *StockOutRepo) Create(ctx context.Context, doc *entity.StockOut) error {
	query := `
		INSERT INTO stock_outs (` + stockOutColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.Reference, doc.StockOutDate, doc.Member, doc.IssuerID, string(doc.State),
		doc.CreatedBy, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock out: %w", err)
	}
	for i := range doc.Lines {
		if err := r.AddLine(ctx, &doc.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *StockOutRepo) GetByID(ctx context.Context, id string) (*entity.StockOut, error) {
	doc, err := scanStockOut(r.q.QueryRow(ctx, `SELECT `+stockOutColumns+` FROM stock_outs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock out: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.StockOut{doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *StockOutRepo) List(ctx context.Context, f entity.DocumentFilter) ([]*entity.StockOut, error) {
	lim, off := pageArgs(f.Limit, f.Offset)
	query := `SELECT ` + stockOutColumns + ` FROM stock_outs
		WHERE ($1::text[] IS NULL OR state = ANY($1)) AND NOT (state = ANY(COALESCE($2::text[], '{}')))
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, statesArg(f.States), statesArg(f.ExcludeStates), lim, off)
	if err != nil {
		return nil, fmt.Errorf("list stock outs: %w", err)
	}
	var docs []*entity.StockOut
	for rows.Next() {
		doc, err := scanStockOut(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stock out: %w", err)
		}
		docs = append(docs, doc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock outs: %w", err)
	}
	if err := r.loadLines(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *StockOutRepo) Update(ctx context.Context, doc *entity.StockOut) error {
	query := `
		UPDATE stock_outs SET stock_out_date = $2, member = $3, issuer_id = $4, state = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, doc.ID, doc.StockOutDate, doc.Member, doc.IssuerID, string(doc.State), doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: salida %s", domain.ErrNotFound, doc.ID)
	}
	return nil
}

func (r *StockOutRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_outs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete stock out: %w", err)
	}
	return nil
}

func (r *StockOutRepo) AddLine(ctx context.Context, l *entity.StockOutLine) error {
	query := `
		INSERT INTO stock_out_lines (id, stock_out_id, product_id, issued_quantity, position)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM stock_out_lines WHERE stock_out_id = $2))`
	_, err := r.q.Exec(ctx, query, l.ID, l.StockOutID, l.ProductID, l.IssuedQuantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		return fmt.Errorf("insert stock out line: %w", err)
	}
	return nil
}

func (r *StockOutRepo) UpdateLine(ctx context.Context, l *entity.StockOutLine) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_out_lines SET product_id = $3, issued_quantity = $4 WHERE id = $1 AND stock_out_id = $2`,
		l.ID, l.StockOutID, l.ProductID, l.IssuedQuantity)
	if err != nil {
		return fmt.Errorf("update stock out line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, l.ID)
	}
	return nil
}

func (r *StockOutRepo) DeleteLine(ctx context.Context, docID, lineID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_out_lines WHERE id = $1 AND stock_out_id = $2`, lineID, docID)
	if err != nil {
		return fmt.Errorf("delete stock out line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
	}
	return nil
}

func (r *StockOutRepo) loadLines(ctx context.Context, docs []*entity.StockOut) error {
	if len(docs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.StockOut, len(docs))
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, stock_out_id, product_id, issued_quantity
		FROM stock_out_lines WHERE stock_out_id = ANY($1) ORDER BY stock_out_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list stock out lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.StockOutLine
		if err := rows.Scan(&l.ID, &l.StockOutID, &l.ProductID, &l.IssuedQuantity); err != nil {
			return fmt.Errorf("scan stock out line: %w", err)
		}
		d := byID[l.StockOutID]
		d.Lines = append(d.Lines, l)
	}
	return rows.Err()
}

func scanStockOut(row pgx.Row) (*entity.StockOut, error) {
	var d entity.StockOut
	var state string
	err := row.Scan(&d.ID, &d.Reference, &d.StockOutDate, &d.Member, &d.IssuerID, &state, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.State = entity.State(state)
	return &d, nil
}
