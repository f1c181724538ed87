package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo lectura unificada de líneas de entradas, salidas y ajustes.
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el repositorio sobre pool o tx.
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

// ListByProduct todas las líneas del producto con el estado del documento padre.
func (r *LedgerEntryRepo) ListByProduct(ctx context.Context, productID string) ([]entity.LedgerEntry, error) {
	query := `
		SELECT $2::text, d.id, l.id, l.product_id, d.state, l.quantity
		FROM stock_in_lines l JOIN stock_ins d ON d.id = l.stock_in_id
		WHERE l.product_id = $1
		UNION ALL
		SELECT $3::text, d.id, l.id, l.product_id, d.state, l.issued_quantity
		FROM stock_out_lines l JOIN stock_outs d ON d.id = l.stock_out_id
		WHERE l.product_id = $1
		UNION ALL
		SELECT $4::text, d.id, l.id, l.product_id, d.state, l.adjustment
		FROM stock_adjustment_lines l JOIN stock_adjustments d ON d.id = l.stock_adjustment_id
		WHERE l.product_id = $1`
	rows, err := r.q.Query(ctx, query, productID,
		entity.LedgerKindStockIn, entity.LedgerKindStockOut, entity.LedgerKindAdjustment)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var state string
		if err := rows.Scan(&e.Kind, &e.DocumentID, &e.LineID, &e.ProductID, &state, &e.Quantity); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.State = entity.State(state)
		out = append(out, e)
	}
	return out, rows.Err()
}
