package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow/pkg/logger"
)

type migration struct {
	Version string
	Name    string
	Up      string
}

// migrations esquema en orden de versión. Nunca modificar una migración aplicada;
// agregar una nueva.
var migrations = []migration{
	{
		Version: "20260101000001",
		Name:    "create_products",
		Up: `
CREATE TABLE IF NOT EXISTS products (
    id                  TEXT PRIMARY KEY,
    name                TEXT NOT NULL,
    default_code        TEXT NOT NULL DEFAULT '',
    unit_measure        TEXT NOT NULL DEFAULT '',
    department_id       TEXT NOT NULL DEFAULT '',
    variant_id          TEXT,
    purchased_quantity  NUMERIC(18,4) NOT NULL DEFAULT 0,
    issued_quantity     NUMERIC(18,4) NOT NULL DEFAULT 0,
    adjustment_quantity NUMERIC(18,4) NOT NULL DEFAULT 0,
    balance_stock       NUMERIC(18,4) NOT NULL DEFAULT 0,
    qty_available       NUMERIC(18,4) NOT NULL DEFAULT 0,
    virtual_available   NUMERIC(18,4) NOT NULL DEFAULT 0,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		Version: "20260101000002",
		Name:    "create_stock_ins",
		Up: `
CREATE TABLE IF NOT EXISTS stock_ins (
    id                  TEXT PRIMARY KEY,
    reference           TEXT NOT NULL,
    goods_received_date DATE NOT NULL,
    purchaser_id        TEXT NOT NULL DEFAULT '',
    delivery_note_no    TEXT NOT NULL DEFAULT '',
    supplier_id         TEXT NOT NULL DEFAULT '',
    receiver_id         TEXT NOT NULL,
    state               TEXT NOT NULL DEFAULT 'draft',
    created_by          TEXT NOT NULL DEFAULT '',
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_stock_ins_state ON stock_ins (state);

CREATE TABLE IF NOT EXISTS stock_in_lines (
    id           TEXT PRIMARY KEY,
    stock_in_id  TEXT NOT NULL REFERENCES stock_ins (id) ON DELETE CASCADE,
    product_id   TEXT NOT NULL REFERENCES products (id),
    quantity     NUMERIC(18,4) NOT NULL DEFAULT 1,
    unit_cost    NUMERIC(18,4) NOT NULL DEFAULT 1,
    unit_measure TEXT NOT NULL DEFAULT '',
    position     INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_stock_in_lines_doc ON stock_in_lines (stock_in_id, position);
CREATE INDEX IF NOT EXISTS idx_stock_in_lines_product ON stock_in_lines (product_id);`,
	},
	{
		Version: "20260101000003",
		Name:    "create_stock_outs",
		Up: `
CREATE TABLE IF NOT EXISTS stock_outs (
    id             TEXT PRIMARY KEY,
    reference      TEXT NOT NULL,
    stock_out_date DATE NOT NULL,
    member         TEXT NOT NULL,
    issuer_id      TEXT NOT NULL DEFAULT '',
    state          TEXT NOT NULL DEFAULT 'draft',
    created_by     TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_stock_outs_state ON stock_outs (state);

CREATE TABLE IF NOT EXISTS stock_out_lines (
    id              TEXT PRIMARY KEY,
    stock_out_id    TEXT NOT NULL REFERENCES stock_outs (id) ON DELETE CASCADE,
    product_id      TEXT NOT NULL REFERENCES products (id),
    issued_quantity NUMERIC(18,4) NOT NULL DEFAULT 0,
    position        INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_stock_out_lines_doc ON stock_out_lines (stock_out_id, position);
CREATE INDEX IF NOT EXISTS idx_stock_out_lines_product ON stock_out_lines (product_id);`,
	},
	{
		Version: "20260101000004",
		Name:    "create_stock_adjustments",
		Up: `
CREATE TABLE IF NOT EXISTS stock_adjustments (
    id              TEXT PRIMARY KEY,
    reference       TEXT NOT NULL,
    adjustment_date DATE NOT NULL,
    employee_id     TEXT NOT NULL,
    attachment_name TEXT NOT NULL DEFAULT '',
    state           TEXT NOT NULL DEFAULT 'draft',
    created_by      TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_stock_adjustments_state ON stock_adjustments (state);

CREATE TABLE IF NOT EXISTS stock_adjustment_lines (
    id                  TEXT PRIMARY KEY,
    stock_adjustment_id TEXT NOT NULL REFERENCES stock_adjustments (id) ON DELETE CASCADE,
    product_id          TEXT NOT NULL REFERENCES products (id),
    adjustment          NUMERIC(18,4) NOT NULL DEFAULT 0,
    reason              TEXT NOT NULL DEFAULT '',
    position            INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_stock_adjustment_lines_doc ON stock_adjustment_lines (stock_adjustment_id, position);
CREATE INDEX IF NOT EXISTS idx_stock_adjustment_lines_product ON stock_adjustment_lines (product_id);`,
	},
	{
		Version: "20260101000005",
		Name:    "create_purchase_orders",
		Up: `
CREATE TABLE IF NOT EXISTS purchase_orders (
    id         TEXT PRIMARY KEY,
    partner_id TEXT NOT NULL,
    origin     TEXT NOT NULL DEFAULT '',
    order_date TIMESTAMPTZ NOT NULL,
    state      TEXT NOT NULL DEFAULT 'draft',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_purchase_orders_origin ON purchase_orders (origin);

CREATE TABLE IF NOT EXISTS purchase_order_lines (
    id           TEXT PRIMARY KEY,
    order_id     TEXT NOT NULL REFERENCES purchase_orders (id) ON DELETE CASCADE,
    product_id   TEXT NOT NULL,
    name         TEXT NOT NULL,
    product_qty  NUMERIC(18,4) NOT NULL,
    price_unit   NUMERIC(18,4) NOT NULL,
    product_uom  TEXT NOT NULL DEFAULT '',
    date_planned DATE NOT NULL,
    position     INT NOT NULL DEFAULT 0
);`,
	},
	{
		Version: "20260101000006",
		Name:    "create_requisitions",
		Up: `
CREATE SEQUENCE IF NOT EXISTS purchase_requisition_seq;

CREATE TABLE IF NOT EXISTS requisitions (
    id                TEXT PRIMARY KEY,
    reference         TEXT NOT NULL UNIQUE,
    vendor_id         TEXT,
    requester_id      TEXT NOT NULL DEFAULT '',
    department_id     TEXT NOT NULL DEFAULT '',
    state             TEXT NOT NULL DEFAULT 'draft',
    purchase_order_id TEXT REFERENCES purchase_orders (id),
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_requisitions_state ON requisitions (state);

CREATE TABLE IF NOT EXISTS requisition_lines (
    id             TEXT PRIMARY KEY,
    requisition_id TEXT NOT NULL REFERENCES requisitions (id) ON DELETE CASCADE,
    product_id     TEXT NOT NULL REFERENCES products (id),
    quantity       NUMERIC(18,4) NOT NULL DEFAULT 1,
    specifications TEXT NOT NULL DEFAULT '',
    estimated_cost NUMERIC(18,4) NOT NULL DEFAULT 0,
    budget_code    TEXT NOT NULL DEFAULT '',
    justification  TEXT NOT NULL DEFAULT '',
    position       INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_requisition_lines_doc ON requisition_lines (requisition_id, position);`,
	},
}

// Migrate aplica las migraciones pendientes, cada una en su propia transacción, y
// registra la versión en schema_migrations.
func Migrate(ctx context.Context, db TxBeginner, log *logger.Logger) error {
	if _, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := db.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("scan migration: %w", err)
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		tx, err := db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(ctx, m.Up); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("record migration %s: %w", m.Name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit migration %s: %w", m.Name, err)
		}
		log.Info().Str("version", m.Version).Str("name", m.Name).Msg("migración aplicada")
	}
	return nil
}
