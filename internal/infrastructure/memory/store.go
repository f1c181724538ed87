// Package memory implementa los repositorios en memoria (STORAGE_DRIVER=memory).
// Se usa en desarrollo local y en las pruebas de los casos de uso.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/stockflow/internal/application/inventory"
	"github.com/jhoicas/stockflow/internal/application/purchase"
	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/internal/domain/repository"
)

// Store guarda todas las tablas confirmadas. Run trabaja sobre una copia privada
// y solo la publica si fn termina sin error, así que las lecturas fuera de la
// transacción nunca ven cambios sin confirmar.
type Store struct {
	txMu      sync.Mutex
	committed *view
}

// view tablas que ve un conjunto de repositorios: las confirmadas o la copia
// de una transacción en curso.
type view struct {
	mu guard
	d  *data
}

// guard RWMutex de una vista. En la vista confirmada las escrituras también
// toman el candado de transacciones para no perderse al publicar una copia.
type guard struct {
	sync.RWMutex
	tx *sync.Mutex
}

func (g *guard) Lock() {
	if g.tx != nil {
		g.tx.Lock()
	}
	g.RWMutex.Lock()
}

func (g *guard) Unlock() {
	g.RWMutex.Unlock()
	if g.tx != nil {
		g.tx.Unlock()
	}
}

type data struct {
	products       *table[entity.Product]
	stockIns       *table[entity.StockIn]
	stockOuts      *table[entity.StockOut]
	adjustments    *table[entity.StockAdjustment]
	requisitions   *table[entity.Requisition]
	purchaseOrders *table[entity.PurchaseOrder]
	requisitionSeq int64
}

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ purchase.TxRunner  = (*Store)(nil)
)

// New crea un almacén vacío.
func New() *Store {
	s := &Store{}
	s.committed = &view{
		mu: guard{tx: &s.txMu},
		d: &data{
			products:       newTable(cloneProduct),
			stockIns:       newTable(cloneStockIn),
			stockOuts:      newTable(cloneStockOut),
			adjustments:    newTable(cloneAdjustment),
			requisitions:   newTable(cloneRequisition),
			purchaseOrders: newTable(clonePurchaseOrder),
		},
	}
	return s
}

// Repositories devuelve los repositorios fuera de transacción (solo datos confirmados).
func (s *Store) Repositories() repository.Repositories {
	return repositoriesFor(s.committed)
}

func repositoriesFor(v *view) repository.Repositories {
	return repository.Repositories{
		Products:       &productRepo{s: v},
		StockIns:       &stockInRepo{s: v},
		StockOuts:      &stockOutRepo{s: v},
		Adjustments:    &adjustmentRepo{s: v},
		LedgerEntries:  &ledgerEntryRepo{s: v},
		Requisitions:   &requisitionRepo{s: v},
		PurchaseOrders: &purchaseOrderRepo{s: v},
	}
}

// Run ejecuta fn de forma exclusiva sobre una copia de los datos. Si fn devuelve
// error (o entra en pánico) la copia se descarta; si no, reemplaza a los datos
// confirmados.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.committed.mu.RLock()
	work := &view{d: s.committed.d.copy()}
	s.committed.mu.RUnlock()

	if err := fn(repositoriesFor(work)); err != nil {
		return err
	}

	s.committed.mu.RWMutex.Lock()
	s.committed.d = work.d
	s.committed.mu.RWMutex.Unlock()
	return nil
}

func (d *data) copy() *data {
	return &data{
		products:       d.products.copy(),
		stockIns:       d.stockIns.copy(),
		stockOuts:      d.stockOuts.copy(),
		adjustments:    d.adjustments.copy(),
		requisitions:   d.requisitions.copy(),
		purchaseOrders: d.purchaseOrders.copy(),
		requisitionSeq: d.requisitionSeq,
	}
}

// table filas por ID en orden de inserción. Las lecturas y escrituras copian
// la entidad para que los llamadores no compartan memoria con el almacén.
type table[T any] struct {
	rows  map[string]*T
	order []string
	clone func(*T) *T
}

func newTable[T any](clone func(*T) *T) *table[T] {
	return &table[T]{rows: make(map[string]*T), clone: clone}
}

func (t *table[T]) get(id string) *T {
	v, ok := t.rows[id]
	if !ok {
		return nil
	}
	return t.clone(v)
}

func (t *table[T]) insert(id string, v *T) error {
	if _, exists := t.rows[id]; exists {
		return fmt.Errorf("%w: id %s", domain.ErrDuplicate, id)
	}
	t.rows[id] = t.clone(v)
	t.order = append(t.order, id)
	return nil
}

// mutate aplica fn sobre la fila almacenada.
func (t *table[T]) mutate(id string, fn func(*T) error) error {
	v, ok := t.rows[id]
	if !ok {
		return fmt.Errorf("%w: id %s", domain.ErrNotFound, id)
	}
	return fn(v)
}

func (t *table[T]) remove(id string) error {
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("%w: id %s", domain.ErrNotFound, id)
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *table[T]) count() int { return len(t.rows) }

// list filtra con match y pagina. newestFirst invierte el orden de inserción.
func (t *table[T]) list(match func(*T) bool, limit, offset int, newestFirst bool) []*T {
	out := make([]*T, 0)
	skipped := 0
	for i := range t.order {
		idx := i
		if newestFirst {
			idx = len(t.order) - 1 - i
		}
		v := t.rows[t.order[idx]]
		if match != nil && !match(v) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, t.clone(v))
	}
	return out
}

// each recorre las filas almacenadas sin copiarlas (solo lectura).
func (t *table[T]) each(fn func(*T)) {
	for _, id := range t.order {
		fn(t.rows[id])
	}
}

func (t *table[T]) copy() *table[T] {
	c := &table[T]{
		rows:  make(map[string]*T, len(t.rows)),
		order: append([]string(nil), t.order...),
		clone: t.clone,
	}
	for id, v := range t.rows {
		c.rows[id] = t.clone(v)
	}
	return c
}
