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

var _ repository.StockInRepository = (*StockInRepo)(nil)

// StockInRepo persistencia de entradas (stock_ins + stock_in_lines).
type StockInRepo struct {
	q Querier
}

// NewStockInRepository construye el repositorio sobre pool o tx.
func NewStockInRepository(q Querier) *StockInRepo {
	return &StockInRepo{q: q}
}

const stockInColumns = `id, reference, goods_received_date, purchaser_id, delivery_note_no, supplier_id,
	receiver_id, state, created_by, created_at, updated_at`

func (r *StockInRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_ins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock ins: %w", err)
	}
	return n, nil
}

// Create inserta la cabecera y sus líneas.
func (r *StockInRepo) Create(ctx context.Context, doc *entity.StockIn) error {
	query := `
		INSERT INTO stock_ins (` + stockInColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.Reference, doc.GoodsReceivedDate, doc.PurchaserID, doc.DeliveryNoteNo, doc.SupplierID,
		doc.ReceiverID, string(doc.State), doc.CreatedBy, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock in: %w", err)
	}
	for i := range doc.Lines {
		if err := r.AddLine(ctx, &doc.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *StockInRepo) GetByID(ctx context.Context, id string) (*entity.StockIn, error) {
	doc, err := scanStockIn(r.q.QueryRow(ctx, `SELECT `+stockInColumns+` FROM stock_ins WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock in: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.StockIn{doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

// List documentos más recientes primero.
func (r *StockInRepo) List(ctx context.Context, f entity.DocumentFilter) ([]*entity.StockIn, error) {
	lim, off := pageArgs(f.Limit, f.Offset)
	query := `SELECT ` + stockInColumns + ` FROM stock_ins
		WHERE ($1::text[] IS NULL OR state = ANY($1)) AND NOT (state = ANY(COALESCE($2::text[], '{}')))
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, statesArg(f.States), statesArg(f.ExcludeStates), lim, off)
	if err != nil {
		return nil, fmt.Errorf("list stock ins: %w", err)
	}
	var docs []*entity.StockIn
	for rows.Next() {
		doc, err := scanStockIn(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stock in: %w", err)
		}
		docs = append(docs, doc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock ins: %w", err)
	}
	if err := r.loadLines(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Update persiste la cabecera (incluido el estado).
func (r *StockInRepo) Update(ctx context.Context, doc *entity.StockIn) error {
	query := `
		UPDATE stock_ins SET goods_received_date = $2, purchaser_id = $3, delivery_note_no = $4,
			supplier_id = $5, receiver_id = $6, state = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		doc.ID, doc.GoodsReceivedDate, doc.PurchaserID, doc.DeliveryNoteNo,
		doc.SupplierID, doc.ReceiverID, string(doc.State), doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entrada %s", domain.ErrNotFound, doc.ID)
	}
	return nil
}

// Delete elimina el documento; las líneas caen por ON DELETE CASCADE.
func (r *StockInRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_ins WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete stock in: %w", err)
	}
	return nil
}

func (r *StockInRepo) AddLine(ctx context.Context, l *entity.StockInLine) error {
	query := `
		INSERT INTO stock_in_lines (id, stock_in_id, product_id, quantity, unit_cost, unit_measure, position)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM stock_in_lines WHERE stock_in_id = $2))`
	_, err := r.q.Exec(ctx, query, l.ID, l.StockInID, l.ProductID, l.Quantity, l.UnitCost, l.UnitMeasure)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		return fmt.Errorf("insert stock in line: %w", err)
	}
	return nil
}

func (r *StockInRepo) UpdateLine(ctx context.Context, l *entity.StockInLine) error {
	query := `
		UPDATE stock_in_lines SET product_id = $3, quantity = $4, unit_cost = $5, unit_measure = $6
		WHERE id = $1 AND stock_in_id = $2`
	tag, err := r.q.Exec(ctx, query, l.ID, l.StockInID, l.ProductID, l.Quantity, l.UnitCost, l.UnitMeasure)
	if err != nil {
		return fmt.Errorf("update stock in line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, l.ID)
	}
	return nil
}

func (r *StockInRepo) DeleteLine(ctx context.Context, docID, lineID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_in_lines WHERE id = $1 AND stock_in_id = $2`, lineID, docID)
	if err != nil {
		return fmt.Errorf("delete stock in line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
	}
	return nil
}

func (r *StockInRepo) loadLines(ctx context.Context, docs []*entity.StockIn) error {
	if len(docs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.StockIn, len(docs))
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, stock_in_id, product_id, quantity, unit_cost, unit_measure
		FROM stock_in_lines WHERE stock_in_id = ANY($1) ORDER BY stock_in_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list stock in lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.StockInLine
		if err := rows.Scan(&l.ID, &l.StockInID, &l.ProductID, &l.Quantity, &l.UnitCost, &l.UnitMeasure); err != nil {
			return fmt.Errorf("scan stock in line: %w", err)
		}
		d := byID[l.StockInID]
		d.Lines = append(d.Lines, l)
	}
	return rows.Err()
}

func scanStockIn(row pgx.Row) (*entity.StockIn, error) {
	var d entity.StockIn
	var state string
	err := row.Scan(
		&d.ID, &d.Reference, &d.GoodsReceivedDate, &d.PurchaserID, &d.DeliveryNoteNo, &d.SupplierID,
		&d.ReceiverID, &state, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.State = entity.State(state)
	return &d, nil
}
