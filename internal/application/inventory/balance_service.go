package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stockflow/internal/domain"
	invdomain "github.com/jhoicas/stockflow/internal/domain/inventory"
	"github.com/jhoicas/stockflow/internal/domain/repository"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// BalanceService recalcula los saldos derivados de los productos (agregador).
// Siempre hace un reescaneo completo de las líneas del producto; no mantiene deltas.
type BalanceService struct {
	log *logger.Logger
}

// NewBalanceService construye el servicio.
func NewBalanceService(log *logger.Logger) *BalanceService {
	return &BalanceService{log: log.Component("balance")}
}

// Recompute recalcula y sobrescribe los saldos de cada producto indicado usando los
// repositorios de la transacción en curso. Los IDs repetidos se procesan una vez y en
// orden, para que dos transacciones bloqueen las filas de producto en el mismo orden.
func (s *BalanceService) Recompute(ctx context.Context, repos repository.Repositories, productIDs ...string) error {
	for _, id := range uniqueSorted(productIDs) {
		product, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		entries, err := repos.LedgerEntries.ListByProduct(ctx, id)
		if err != nil {
			return err
		}
		balance := invdomain.Aggregate(entries)
		if err := repos.Products.UpdateStockBalance(ctx, id, balance); err != nil {
			return err
		}
		s.log.Debug().
			Str("product_id", id).
			Int("lines", len(entries)).
			Str("balance_stock", balance.BalanceStock.String()).
			Msg("saldo recalculado")
	}
	return nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
