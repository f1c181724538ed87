package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow/internal/application/dto"
	"github.com/jhoicas/stockflow/internal/application/inventory"
	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	invdomain "github.com/jhoicas/stockflow/internal/domain/inventory"
	"github.com/jhoicas/stockflow/internal/domain/repository"
	"github.com/jhoicas/stockflow/internal/infrastructure/memory"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testActor = entity.Actor{UserID: "u-1", EmployeeID: "emp-1"}

type fixture struct {
	store      *memory.Store
	stockIn    *inventory.StockInUseCase
	stockOut   *inventory.StockOutUseCase
	adjustment *inventory.AdjustmentUseCase
}

func newFixture(t *testing.T, productIDs ...string) *fixture {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	for _, id := range productIDs {
		require.NoError(t, repos.Products.Create(context.Background(), &entity.Product{ID: id, Name: "Producto " + id, UnitMeasure: "Unidad"}))
	}
	log := logger.Nop()
	balance := inventory.NewBalanceService(log)
	return &fixture{
		store:      store,
		stockIn:    inventory.NewStockInUseCase(store, repos, balance, "", log),
		stockOut:   inventory.NewStockOutUseCase(store, repos, balance, "", log),
		adjustment: inventory.NewAdjustmentUseCase(store, repos, balance, "", log),
	}
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func (f *fixture) balance(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	p, err := f.store.Repositories().Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Balance.BalanceStock
}

// approvedStockIn crea y aprueba una entrada de qty unidades del producto.
func (f *fixture) approvedStockIn(t *testing.T, productID string, qty int64) *dto.StockInResponse {
	t.Helper()
	ctx := context.Background()
	doc, err := f.stockIn.Create(ctx, testActor, dto.CreateStockInRequest{
		Lines: []dto.StockInLineRequest{{ProductID: productID, Quantity: dec(qty)}},
	})
	require.NoError(t, err)
	_, err = f.stockIn.Transition(ctx, testActor, doc.ID, invdomain.ActionApprove)
	require.NoError(t, err)
	return doc
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestStockIn_CreateReferenciaYValoresPorDefecto(t *testing.T) {
	f := newFixture(t, "p-1")
	ctx := context.Background()

	first, err := f.stockIn.Create(ctx, testActor, dto.CreateStockInRequest{
		Lines: []dto.StockInLineRequest{{ProductID: "p-1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INVENTORY/STOCKIN/001", first.Reference)
	assert.Equal(t, "draft", first.State)
	assert.Equal(t, "emp-1", first.ReceiverID, "sin receptor se usa el empleado del actor")
	require.Len(t, first.Lines, 1)
	assert.True(t, first.Lines[0].Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, first.Lines[0].UnitCost.Equal(decimal.NewFromInt(1)))

	second, err := f.stockIn.Create(ctx, testActor, dto.CreateStockInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "INVENTORY/STOCKIN/002", second.Reference)
}

func TestStockIn_CreateSinReceptor(t *testing.T) {
	f := newFixture(t, "p-1")
	_, err := f.stockIn.Create(context.Background(), entity.Actor{UserID: "u-2"}, dto.CreateStockInRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStockIn_CreateProductoInexistente(t *testing.T) {
	f := newFixture(t, "p-1")
	_, err := f.stockIn.Create(context.Background(), testActor, dto.CreateStockInRequest{
		Lines: []dto.StockInLineRequest{{ProductID: "p-404"}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	docs, err := f.stockIn.List(context.Background(), dto.ListDocumentsRequest{})
	require.NoError(t, err)
	assert.Empty(t, docs, "la creación fallida no debe dejar documento")
}

func TestStockIn_TotalesDeCosto(t *testing.T) {
	f := newFixture(t, "p-1", "p-2")
	doc, err := f.stockIn.Create(context.Background(), testActor, dto.CreateStockInRequest{
		Lines: []dto.StockInLineRequest{
			{ProductID: "p-1", Quantity: dec(3), UnitCost: dec(10)},
			{ProductID: "p-2", Quantity: dec(2), UnitCost: dec(5)},
		},
	})
	require.NoError(t, err)
	assert.True(t, doc.TotalUnitCost.Equal(decimal.NewFromInt(15)))
	assert.True(t, doc.TotalCost.Equal(decimal.NewFromInt(40)))
}

func TestStockIn_ApruebaYReiniciaSaldo(t *testing.T) {
	f := newFixture(t, "p-1")
	ctx := context.Background()

	doc, err := f.stockIn.Create(ctx, testActor, dto.CreateStockInRequest{
		Lines: []dto.StockInLineRequest{{ProductID: "p-1", Quantity: dec(10)}},
	})
	require.NoError(t, err)
	assert.True(t, f.balance(t, "p-1").IsZero(), "un borrador no aporta al saldo")

	_, err = f.stockIn.Transition(ctx, testActor, doc.ID, invdomain.ActionSubmit)
	require.NoError(t, err)
	assert.True(t, f.balance(t, "p-1").IsZero())

	state, err := f.stockIn.Transition(ctx, testActor, doc.ID, invdomain.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, entity.StateApproved, state)
	assert.True(t, f.balance(t, "p-1").Equal(decimal.NewFromInt(10)))

	_, err = f.stockIn.Transition(ctx, testActor, doc.ID, invdomain.ActionReset)
	require.NoError(t, err)
	assert.True(t, f.balance(t, "p-1").IsZero(), "al volver a borrador se retira el aporte")
}

func TestStockIn_LineasRecalculanSaldo(t *testing.T) {
	f := newFixture(t, "p-1", "p-2")
	ctx := context.Background()
	doc := f.approvedStockIn(t, "p-1", 4)

	withLine, err := f.stockIn.AddLine(ctx, doc.ID, dto.StockInLineRequest{ProductID: "p-1", Quantity: dec(6)})
	require.NoError(t, err)
	assert.True(t, f.balance(t, "p-1").Equal(decimal.NewFromInt(10)))

	lineID := withLine.Lines[1].ID
	_, err = f.stockIn.UpdateLine(ctx, doc.ID, lineID, dto.StockInLineRequest{ProductID: "p-2"})
	require.NoError(t, err)
	assert.True(t, f.balance(t, "p-1").Equal(decimal.NewFromInt(4)), "el producto anterior se recalcula")
	assert.True(t, f.balance(t, "p-2").Equal(decimal.NewFromInt(6)))

	_, err = f.stockIn.RemoveLine(ctx, doc.ID, lineID)
	require.NoError(t, err)
	assert.True(t, f.balance(t, "p-2").IsZero())

	_, err = f.stockIn.RemoveLine(ctx, doc.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockIn_DeleteGuard(t *testing.T) {
	f := newFixture(t, "p-1")
	ctx := context.Background()
	approved := f.approvedStockIn(t, "p-1", 5)

	err := f.stockIn.Delete(ctx, testActor, approved.ID)
	require.ErrorIs(t, err, domain.ErrDeleteGuard)
	assert.True(t, f.balance(t, "p-1").Equal(decimal.NewFromInt(5)))

	_, err = f.stockIn.Transition(ctx, testActor, approved.ID, invdomain.ActionReject)
	require.NoError(t, err)
	require.NoError(t, f.stockIn.Delete(ctx, testActor, approved.ID))

	_, err = f.stockIn.GetByID(ctx, approved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockIn_AccionInvalida(t *testing.T) {
	f := newFixture(t, "p-1")
	doc, err := f.stockIn.Create(context.Background(), testActor, dto.CreateStockInRequest{})
	require.NoError(t, err)

	_, err = f.stockIn.Transition(context.Background(), testActor, doc.ID, invdomain.ActionIssue)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockIn_ListFiltraPorEstado(t *testing.T) {
	f := newFixture(t, "p-1")
	ctx := context.Background()
	f.approvedStockIn(t, "p-1", 1)
	_, err := f.stockIn.Create(ctx, testActor, dto.CreateStockInRequest{})
	require.NoError(t, err)

	approved, err := f.stockIn.List(ctx, dto.ListDocumentsRequest{State: "approved"})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "approved", approved[0].State)

	all, err := f.stockIn.List(ctx, dto.ListDocumentsRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestList_EstadoAjenoAlDocumento(t *testing.T) {
	f := newFixture(t, "p-1")
	ctx := context.Background()

	_, err := f.stockIn.List(ctx, dto.ListDocumentsRequest{State: "issued"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.stockOut.List(ctx, dto.ListDocumentsRequest{State: "approved"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.adjustment.List(ctx, dto.ListDocumentsRequest{State: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	issued, err := f.stockOut.List(ctx, dto.ListDocumentsRequest{State: "issued"})
	require.NoError(t, err)
	assert.Empty(t, issued)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestStockOut_MiembroObligatorio(t *testing.T) {
	f := newFixture(t, "p-1")
	_, err := f.stockOut.Create(context.Background(), testActor, dto.CreateStockOutRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStockOut_CheckSaldoInsuficienteNoCambiaEstado(t *testing.T) {
	f := newFixture(t, "p-1")
	ctx := context.Background()
	f.approvedStockIn(t, "p-1", 5)

	doc, err := f.stockOut.Create(ctx, testActor, dto.CreateStockOutRequest{
		Member: "Bodega central",
		Lines:  []dto.StockOutLineRequest{{ProductID: "p-1", IssuedQuantity: dec(6)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INVENTORY/STOCKOUT/001", doc.Reference)
	assert.True(t, doc.Lines[0].BalanceStock.Equal(decimal.NewFromInt(5)))

	_, err = f.stockOut.Transition(ctx, testActor, doc.ID, invdomain.ActionRequest)
	require.NoError(t, err)

	_, err = f.stockOut.Transition(ctx, testActor, doc.ID, invdomain.ActionCheck)
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.stockOut.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "requested", got.State, "la validación fallida no cambia el estado")
}

func TestStockOut_CheckCantidadCero(t *testing.T) {
	f := newFixture(t, "p-1")
	ctx := context.Background()
	f.approvedStockIn(t, "p-1", 5)

	doc, err := f.stockOut.Create(ctx, testActor, dto.CreateStockOutRequest{
		Member: "Taller",
		Lines:  []dto.StockOutLineRequest{{ProductID: "p-1"}},
	})
	require.NoError(t, err)

	_, err = f.stockOut.Transition(ctx, testActor, doc.ID, invdomain.ActionCheck)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStockOut_DespachoDescuentaSaldo(t *testing.T) {
	f := newFixture(t, "p-1")
	ctx := context.Background()
	f.approvedStockIn(t, "p-1", 10)

	doc, err := f.stockOut.Create(ctx, testActor, dto.CreateStockOutRequest{
		Member: "Taller",
		Lines:  []dto.StockOutLineRequest{{ProductID: "p-1", IssuedQuantity: dec(4)}},
	})
	require.NoError(t, err)

	for _, a := range []invdomain.Action{invdomain.ActionRequest, invdomain.ActionLineManager, invdomain.ActionCheck} {
		_, err = f.stockOut.Transition(ctx, testActor, doc.ID, a)
		require.NoError(t, err, string(a))
	}
	assert.True(t, f.balance(t, "p-1").Equal(decimal.NewFromInt(10)), "checked todavía no aporta")

	_, err = f.stockOut.Transition(ctx, testActor, doc.ID, invdomain.ActionIssue)
	require.NoError(t, err)
	assert.True(t, f.balance(t, "p-1").Equal(decimal.NewFromInt(6)))

	err = f.stockOut.Delete(ctx, testActor, doc.ID)
	assert.ErrorIs(t, err, domain.ErrDeleteGuard)

	_, err = f.stockOut.Transition(ctx, testActor, doc.ID, invdomain.ActionReview)
	require.NoError(t, err)
	assert.True(t, f.balance(t, "p-1").Equal(decimal.NewFromInt(10)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustment_SubmitExigeAjustePositivo(t *testing.T) {
	f := newFixture(t, "p-1")
	ctx := context.Background()

	doc, err := f.adjustment.Create(ctx, testActor, dto.CreateStockAdjustmentRequest{
		Lines: []dto.StockAdjustmentLineRequest{{ProductID: "p-1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INVENTORY/ADJUSTMENT/001", doc.Reference)
	assert.Equal(t, "emp-1", doc.EmployeeID)

	_, err = f.adjustment.Transition(ctx, testActor, doc.ID, invdomain.ActionSubmit)
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.adjustment.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", got.State)
}

func TestAdjustment_AprobadoDescuentaSaldo(t *testing.T) {
	f := newFixture(t, "p-1")
	ctx := context.Background()
	f.approvedStockIn(t, "p-1", 10)

	doc, err := f.adjustment.Create(ctx, testActor, dto.CreateStockAdjustmentRequest{
		Date:  "2026-02-01",
		Lines: []dto.StockAdjustmentLineRequest{{ProductID: "p-1", Adjustment: dec(3)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", doc.Lines[0].AdjustmentDate)
	assert.True(t, doc.Lines[0].Available.Equal(decimal.NewFromInt(10)))

	for _, a := range []invdomain.Action{invdomain.ActionSubmit, invdomain.ActionLineManager, invdomain.ActionVerify, invdomain.ActionApprove} {
		_, err = f.adjustment.Transition(ctx, testActor, doc.ID, a)
		require.NoError(t, err, string(a))
	}
	assert.True(t, f.balance(t, "p-1").Equal(decimal.NewFromInt(7)))
	assert.ErrorIs(t, f.adjustment.Delete(ctx, testActor, doc.ID), domain.ErrDeleteGuard)
}

func TestAdjustment_FechaInvalida(t *testing.T) {
	f := newFixture(t, "p-1")
	_, err := f.adjustment.Create(context.Background(), testActor, dto.CreateStockAdjustmentRequest{Date: "01/02/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregador
// ──────────────────────────────────────────────────────────────────────────────

func TestBalanceService_RecomputeIdempotente(t *testing.T) {
	f := newFixture(t, "p-1")
	ctx := context.Background()
	f.approvedStockIn(t, "p-1", 8)

	svc := inventory.NewBalanceService(logger.Nop())
	for i := 0; i < 2; i++ {
		require.NoError(t, f.store.Run(ctx, func(r repository.Repositories) error {
			return svc.Recompute(ctx, r, "p-1", "p-1")
		}))
		assert.True(t, f.balance(t, "p-1").Equal(decimal.NewFromInt(8)))
	}
}

func TestBalanceService_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := inventory.NewBalanceService(logger.Nop())
	err := f.store.Run(ctx, func(r repository.Repositories) error {
		return svc.Recompute(ctx, r, "p-404")
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
