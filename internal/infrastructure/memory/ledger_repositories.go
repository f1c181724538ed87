package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/internal/domain/repository"
)

var (
	_ repository.StockInRepository         = (*stockInRepo)(nil)
	_ repository.StockOutRepository        = (*stockOutRepo)(nil)
	_ repository.StockAdjustmentRepository = (*adjustmentRepo)(nil)
	_ repository.LedgerEntryRepository     = (*ledgerEntryRepo)(nil)
)

func lineNotFound(lineID string) error {
	return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
}

// ── Entradas ─────────────────────────────────────────────────────────────────

type stockInRepo struct{ s *view }

func (r *stockInRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.stockIns.count(), nil
}

func (r *stockInRepo) Create(_ context.Context, doc *entity.StockIn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.stockIns.insert(doc.ID, doc)
}

func (r *stockInRepo) GetByID(_ context.Context, id string) (*entity.StockIn, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.stockIns.get(id), nil
}

func (r *stockInRepo) List(_ context.Context, f entity.DocumentFilter) ([]*entity.StockIn, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.stockIns.list(func(d *entity.StockIn) bool { return f.Matches(d.State) }, f.Limit, f.Offset, true), nil
}

func (r *stockInRepo) Update(_ context.Context, doc *entity.StockIn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.stockIns.mutate(doc.ID, func(stored *entity.StockIn) error {
		lines := stored.Lines
		*stored = *cloneStockIn(doc)
		stored.Lines = lines
		return nil
	})
}

func (r *stockInRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.stockIns.remove(id)
}

func (r *stockInRepo) AddLine(_ context.Context, line *entity.StockInLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.stockIns.mutate(line.StockInID, func(d *entity.StockIn) error {
		d.Lines = append(d.Lines, *line)
		return nil
	})
}

func (r *stockInRepo) UpdateLine(_ context.Context, line *entity.StockInLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.stockIns.mutate(line.StockInID, func(d *entity.StockIn) error {
		stored, ok := d.Line(line.ID)
		if !ok {
			return lineNotFound(line.ID)
		}
		*stored = *line
		return nil
	})
}

func (r *stockInRepo) DeleteLine(_ context.Context, docID, lineID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.stockIns.mutate(docID, func(d *entity.StockIn) error {
		for i, l := range d.Lines {
			if l.ID == lineID {
				d.Lines = append(d.Lines[:i:i], d.Lines[i+1:]...)
				return nil
			}
		}
		return lineNotFound(lineID)
	})
}

// ── Salidas ──────────────────────────────────────────────────────────────────

type stockOutRepo struct{ s *view }

func (r *stockOutRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.stockOuts.count(), nil
}

func (r *stockOutRepo) Create(_ context.Context, doc *entity.StockOut) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.stockOuts.insert(doc.ID, doc)
}

func (r *stockOutRepo) GetByID(_ context.Context, id string) (*entity.StockOut, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.stockOuts.get(id), nil
}

func (r *stockOutRepo) List(_ context.Context, f entity.DocumentFilter) ([]*entity.StockOut, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.stockOuts.list(func(d *entity.StockOut) bool { return f.Matches(d.State) }, f.Limit, f.Offset, true), nil
}

func (r *stockOutRepo) Update(_ context.Context, doc *entity.StockOut) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.stockOuts.mutate(doc.ID, func(stored *entity.StockOut) error {
		lines := stored.Lines
		*stored = *cloneStockOut(doc)
		stored.Lines = lines
		return nil
	})
}

func (r *stockOutRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.stockOuts.remove(id)
}

func (r *stockOutRepo) AddLine(_ context.Context, line *entity.StockOutLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.stockOuts.mutate(line.StockOutID, func(d *entity.StockOut) error {
		d.Lines = append(d.Lines, *line)
		return nil
	})
}

func (r *stockOutRepo) UpdateLine(_ context.Context, line *entity.StockOutLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.stockOuts.mutate(line.StockOutID, func(d *entity.StockOut) error {
		stored, ok := d.Line(line.ID)
		if !ok {
			return lineNotFound(line.ID)
		}
		*stored = *line
		return nil
	})
}

func (r *stockOutRepo) DeleteLine(_ context.Context, docID, lineID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.stockOuts.mutate(docID, func(d *entity.StockOut) error {
		for i, l := range d.Lines {
			if l.ID == lineID {
				d.Lines = append(d.Lines[:i:i], d.Lines[i+1:]...)
				return nil
			}
		}
		return lineNotFound(lineID)
	})
}

// ── Ajustes ──────────────────────────────────────────────────────────────────

type adjustmentRepo struct{ s *view }

func (r *adjustmentRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.adjustments.count(), nil
}

func (r *adjustmentRepo) Create(_ context.Context, doc *entity.StockAdjustment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.adjustments.insert(doc.ID, doc)
}

func (r *adjustmentRepo) GetByID(_ context.Context, id string) (*entity.StockAdjustment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.adjustments.get(id), nil
}

func (r *adjustmentRepo) List(_ context.Context, f entity.DocumentFilter) ([]*entity.StockAdjustment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.d.adjustments.list(func(d *entity.StockAdjustment) bool { return f.Matches(d.State) }, f.Limit, f.Offset, true), nil
}

func (r *adjustmentRepo) Update(_ context.Context, doc *entity.StockAdjustment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.adjustments.mutate(doc.ID, func(stored *entity.StockAdjustment) error {
		lines := stored.Lines
		*stored = *cloneAdjustment(doc)
		stored.Lines = lines
		return nil
	})
}

func (r *adjustmentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.adjustments.remove(id)
}

func (r *adjustmentRepo) AddLine(_ context.Context, line *entity.StockAdjustmentLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.adjustments.mutate(line.StockAdjustmentID, func(d *entity.StockAdjustment) error {
		d.Lines = append(d.Lines, *line)
		return nil
	})
}

func (r *adjustmentRepo) UpdateLine(_ context.Context, line *entity.StockAdjustmentLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.adjustments.mutate(line.StockAdjustmentID, func(d *entity.StockAdjustment) error {
		stored, ok := d.Line(line.ID)
		if !ok {
			return lineNotFound(line.ID)
		}
		*stored = *line
		return nil
	})
}

func (r *adjustmentRepo) DeleteLine(_ context.Context, docID, lineID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.adjustments.mutate(docID, func(d *entity.StockAdjustment) error {
		for i, l := range d.Lines {
			if l.ID == lineID {
				d.Lines = append(d.Lines[:i:i], d.Lines[i+1:]...)
				return nil
			}
		}
		return lineNotFound(lineID)
	})
}

// ── Libro ────────────────────────────────────────────────────────────────────

type ledgerEntryRepo struct{ s *view }

// ListByProduct todas las líneas del producto en los tres tipos de documento.
func (r *ledgerEntryRepo) ListByProduct(_ context.Context, productID string) ([]entity.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []entity.LedgerEntry
	r.s.d.stockIns.each(func(d *entity.StockIn) {
		for _, l := range d.Lines {
			if l.ProductID == productID {
				out = append(out, entity.LedgerEntry{Kind: entity.LedgerKindStockIn, DocumentID: d.ID, LineID: l.ID, ProductID: productID, State: d.State, Quantity: l.Quantity})
			}
		}
	})
	r.s.d.stockOuts.each(func(d *entity.StockOut) {
		for _, l := range d.Lines {
			if l.ProductID == productID {
				out = append(out, entity.LedgerEntry{Kind: entity.LedgerKindStockOut, DocumentID: d.ID, LineID: l.ID, ProductID: productID, State: d.State, Quantity: l.IssuedQuantity})
			}
		}
	})
	r.s.d.adjustments.each(func(d *entity.StockAdjustment) {
		for _, l := range d.Lines {
			if l.ProductID == productID {
				out = append(out, entity.LedgerEntry{Kind: entity.LedgerKindAdjustment, DocumentID: d.ID, LineID: l.ID, ProductID: productID, State: d.State, Quantity: l.Adjustment})
			}
		}
	})
	return out, nil
}
