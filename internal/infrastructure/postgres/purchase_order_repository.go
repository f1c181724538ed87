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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo persistencia de órdenes de compra creadas desde requisiciones.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el repositorio sobre pool o tx.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta la orden y todas sus líneas en el orden recibido.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, partner_id, origin, order_date, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		po.ID, po.PartnerID, po.Origin, po.OrderDate, po.State, po.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for i, l := range po.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_lines (id, order_id, product_id, name, product_qty, price_unit, product_uom, date_planned, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, po.ID, l.ProductID, l.Name, l.ProductQty, l.PriceUnit, l.ProductUOM, l.DatePlanned, i+1,
		)
		if err != nil {
			return fmt.Errorf("insert purchase order line: %w", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.q.QueryRow(ctx, `
		SELECT id, partner_id, origin, order_date, state, created_at FROM purchase_orders WHERE id = $1`, id,
	).Scan(&po.ID, &po.PartnerID, &po.Origin, &po.OrderDate, &po.State, &po.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, name, product_qty, price_unit, product_uom, date_planned
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Name, &l.ProductQty, &l.PriceUnit, &l.ProductUOM, &l.DatePlanned); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		po.Lines = append(po.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	return &po, nil
}

// CountByOrigin cantidad de órdenes creadas para una referencia de requisición.
func (r *PurchaseOrderRepo) CountByOrigin(ctx context.Context, origin string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders WHERE origin = $1`, origin).Scan(&n); err != nil {
		return 0, fmt.Errorf("count purchase orders: %w", err)
	}
	return n, nil
}
