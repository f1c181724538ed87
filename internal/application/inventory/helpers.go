package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow/internal/application/dto"
	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	invdomain "github.com/jhoicas/stockflow/internal/domain/inventory"
	"github.com/jhoicas/stockflow/internal/domain/repository"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// parseDate convierte YYYY-MM-DD; vacío = fecha de hoy.
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q (formato YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	return d, nil
}

// requireProducts verifica que existan todos los productos referenciados.
func requireProducts(ctx context.Context, products repository.ProductRepository, ids ...string) error {
	for _, id := range uniqueSorted(ids) {
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
	}
	return nil
}

// productBalances saldo actual (BalanceStock) de cada producto.
func productBalances(ctx context.Context, products repository.ProductRepository, ids ...string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(ids))
	for _, id := range uniqueSorted(ids) {
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		out[id] = p.Balance.BalanceStock
	}
	return out, nil
}

// toFilter construye el filtro de listado desde la query HTTP. Un estado ajeno a
// la máquina del documento es ErrInvalidInput.
func toFilter(m invdomain.Machine, in dto.ListDocumentsRequest) (entity.DocumentFilter, error) {
	in.DefaultPage()
	f := entity.DocumentFilter{Limit: in.Limit, Offset: in.Offset}
	if in.State != "" {
		st := entity.State(in.State)
		if !m.ValidState(st) {
			return f, fmt.Errorf("%w: estado %q no válido para %s", domain.ErrInvalidInput, in.State, m.Kind)
		}
		f.States = []entity.State{st}
	}
	return f, nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
}

// logTransition registra una transición aplicada o rechazada.
func logTransition(log *logger.Logger, kind, id string, action string, from, to entity.State, actor entity.Actor, err error) {
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrPermission) {
			log.Warn().Str("doc", kind).Str("id", id).Str("action", action).
				Str("actor", actor.UserID).Str("reason", domain.Message(err)).Msg("transición rechazada")
		}
		return
	}
	log.Info().Str("doc", kind).Str("id", id).Str("action", action).
		Str("from", from.String()).Str("to", to.String()).Str("actor", actor.UserID).Msg("transición aplicada")
}
