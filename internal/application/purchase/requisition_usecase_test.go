package purchase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow/internal/application/dto"
	"github.com/jhoicas/stockflow/internal/application/purchase"
	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/internal/domain/requisition"
	"github.com/jhoicas/stockflow/internal/infrastructure/memory"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var (
	admin      = entity.Actor{UserID: "admin"}
	staff      = entity.Actor{UserID: "staff", Roles: []string{requisition.RoleStaff}}
	reviewer   = entity.Actor{UserID: "reviewer", Roles: []string{requisition.RoleReviewer}}
	approver   = entity.Actor{UserID: "approver", Roles: []string{requisition.RoleApprover}}
	authorizer = entity.Actor{UserID: "authorizer", Roles: []string{requisition.RoleAuthorizer}}
)

func strPtr(s string) *string { return &s }

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func newUseCase(t *testing.T) (*purchase.RequisitionUseCase, *memory.Store) {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p-1", Name: "Tóner", UnitMeasure: "Unidad", VariantID: strPtr("var-1")}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p-2", Name: "Papel", UnitMeasure: "Resma", VariantID: strPtr("var-2")}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p-novar", Name: "Servicio", UnitMeasure: "Unidad"}))
	return purchase.NewRequisitionUseCase(store, repos, "", logger.Nop()), store
}

// approvedRequisition crea una requisición y la lleva hasta approved.
func approvedRequisition(t *testing.T, uc *purchase.RequisitionUseCase, in dto.CreateRequisitionRequest) *dto.RequisitionResponse {
	t.Helper()
	ctx := context.Background()
	req, err := uc.Create(ctx, staff, in)
	require.NoError(t, err)
	steps := []struct {
		actor  entity.Actor
		action requisition.Action
	}{
		{staff, requisition.ActionSubmit},
		{reviewer, requisition.ActionReview},
		{approver, requisition.ActionApprove},
	}
	for _, s := range steps {
		_, err := uc.Transition(ctx, s.actor, req.ID, s.action)
		require.NoError(t, err, "%s por %s", s.action, s.actor.UserID)
	}
	return req
}

func countOrders(t *testing.T, store *memory.Store, origin string) int {
	t.Helper()
	n, err := store.Repositories().PurchaseOrders.CountByOrigin(context.Background(), origin)
	require.NoError(t, err)
	return n
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD y referencia
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ReferenciaSecuencial(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	first, err := uc.Create(ctx, staff, dto.CreateRequisitionRequest{
		Lines: []dto.RequisitionLineRequest{{ProductID: "p-1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "PR/00001", first.Reference)
	assert.Equal(t, "draft", first.State)
	assert.Equal(t, "staff", first.RequesterID)
	require.Len(t, first.Lines, 1)
	assert.True(t, first.Lines[0].Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, first.Lines[0].EstimatedCost.IsZero())

	second, err := uc.Create(ctx, staff, dto.CreateRequisitionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "PR/00002", second.Reference)
}

// Una creación fallida no consume número de secuencia en memoria.
func TestCreate_ProductoInexistente(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, staff, dto.CreateRequisitionRequest{
		Lines: []dto.RequisitionLineRequest{{ProductID: "p-404"}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	next, err := uc.Create(ctx, staff, dto.CreateRequisitionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "PR/00001", next.Reference)
}

func TestDelete_SoloBorrador(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	req, err := uc.Create(ctx, staff, dto.CreateRequisitionRequest{})
	require.NoError(t, err)
	_, err = uc.Transition(ctx, staff, req.ID, requisition.ActionSubmit)
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, admin, req.ID), domain.ErrDeleteGuard)

	draft, err := uc.Create(ctx, staff, dto.CreateRequisitionRequest{})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, staff, draft.ID))
	_, err = uc.GetByID(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Control de escritura y visibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestWriteGate_StaffNoModificaEnviada(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	req, err := uc.Create(ctx, staff, dto.CreateRequisitionRequest{Lines: []dto.RequisitionLineRequest{{ProductID: "p-1"}}})
	require.NoError(t, err)

	_, err = uc.Update(ctx, staff, req.ID, dto.UpdateRequisitionRequest{DepartmentID: strPtr("compras")})
	require.NoError(t, err)

	_, err = uc.Transition(ctx, staff, req.ID, requisition.ActionSubmit)
	require.NoError(t, err)

	_, err = uc.Update(ctx, staff, req.ID, dto.UpdateRequisitionRequest{DepartmentID: strPtr("otro")})
	assert.ErrorIs(t, err, domain.ErrPermission)
	_, err = uc.AddLine(ctx, staff, req.ID, dto.RequisitionLineRequest{ProductID: "p-2"})
	assert.ErrorIs(t, err, domain.ErrPermission)
	_, err = uc.UpdateLine(ctx, staff, req.ID, req.Lines[0].ID, dto.RequisitionLineRequest{Quantity: dec(5)})
	assert.ErrorIs(t, err, domain.ErrPermission)
	_, err = uc.RemoveLine(ctx, staff, req.ID, req.Lines[0].ID)
	assert.ErrorIs(t, err, domain.ErrPermission)

	// El revisor sí puede modificar una requisición enviada.
	updated, err := uc.UpdateLine(ctx, reviewer, req.ID, req.Lines[0].ID, dto.RequisitionLineRequest{Quantity: dec(5)})
	require.NoError(t, err)
	assert.True(t, updated.Lines[0].Quantity.Equal(decimal.NewFromInt(5)))

	got, err := uc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "compras", got.DepartmentID)
}

func TestWriteGate_RevisorNoTocaBorrador(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	req, err := uc.Create(ctx, staff, dto.CreateRequisitionRequest{})
	require.NoError(t, err)

	_, err = uc.Transition(ctx, reviewer, req.ID, requisition.ActionReview)
	require.ErrorIs(t, err, domain.ErrPermission)

	got, err := uc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", got.State)
}

func TestList_VisibilidadPorRol(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, staff, dto.CreateRequisitionRequest{}) // draft
	require.NoError(t, err)
	submitted, err := uc.Create(ctx, staff, dto.CreateRequisitionRequest{})
	require.NoError(t, err)
	_, err = uc.Transition(ctx, staff, submitted.ID, requisition.ActionSubmit)
	require.NoError(t, err)
	approvedRequisition(t, uc, dto.CreateRequisitionRequest{})

	all, err := uc.List(ctx, staff, dto.ListDocumentsRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forApprover, err := uc.List(ctx, approver, dto.ListDocumentsRequest{})
	require.NoError(t, err)
	require.Len(t, forApprover, 1)
	assert.Equal(t, "approved", forApprover[0].State)

	forAuthorizer, err := uc.List(ctx, authorizer, dto.ListDocumentsRequest{State: "draft"})
	require.NoError(t, err)
	assert.Empty(t, forAuthorizer, "el filtro de estado no salta la visibilidad")

	// La consulta por ID no aplica visibilidad.
	_, err = uc.GetByID(ctx, submitted.ID)
	assert.NoError(t, err)
}

func TestList_EstadoInvalido(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.List(context.Background(), staff, dto.ListDocumentsRequest{State: "issued"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización y orden de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorize_CreaOrdenDeCompra(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	req := approvedRequisition(t, uc, dto.CreateRequisitionRequest{
		VendorID: strPtr("v-1"),
		Lines: []dto.RequisitionLineRequest{
			{ProductID: "p-1", Quantity: dec(3), EstimatedCost: dec(20)},
			{ProductID: "p-2", Specifications: strPtr("Carta 75g")},
		},
	})

	po, err := uc.Authorize(ctx, authorizer, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "v-1", po.PartnerID)
	assert.Equal(t, req.Reference, po.Origin)
	assert.Equal(t, entity.PurchaseOrderStateDraft, po.State)
	require.Len(t, po.Lines, 2)
	assert.Equal(t, "var-1", po.Lines[0].ProductID)
	assert.Equal(t, "Tóner", po.Lines[0].Name)
	assert.True(t, po.Lines[0].PriceUnit.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "Carta 75g", po.Lines[1].Name)
	assert.Equal(t, "Resma", po.Lines[1].ProductUOM)
	assert.Equal(t, 1, countOrders(t, store, req.Reference))

	got, err := uc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "authorized", got.State)
	require.NotNil(t, got.PurchaseOrderID)
	assert.Equal(t, po.ID, *got.PurchaseOrderID)

	stored, err := uc.GetPurchaseOrder(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, po.ID, stored.ID)
	assert.Len(t, stored.Lines, 2)

	// Autorizada es terminal: no se crea una segunda orden.
	_, err = uc.Authorize(ctx, admin, req.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Transition(ctx, admin, req.ID, requisition.ActionBackToDraft)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 1, countOrders(t, store, req.Reference))
}

func TestAuthorize_SinProveedor(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	req := approvedRequisition(t, uc, dto.CreateRequisitionRequest{
		Lines: []dto.RequisitionLineRequest{{ProductID: "p-1"}},
	})

	_, err := uc.Transition(ctx, authorizer, req.ID, requisition.ActionAuthorize)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, domain.Message(err), "proveedor")

	assert.Equal(t, 0, countOrders(t, store, req.Reference))
	got, err := uc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.State)
	assert.Nil(t, got.PurchaseOrderID)
}

func TestAuthorize_ProductoSinVariante(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	req := approvedRequisition(t, uc, dto.CreateRequisitionRequest{
		VendorID: strPtr("v-1"),
		Lines: []dto.RequisitionLineRequest{
			{ProductID: "p-1"},
			{ProductID: "p-novar"},
		},
	})

	_, err := uc.Authorize(ctx, authorizer, req.ID)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, domain.Message(err), "Servicio")
	assert.Equal(t, 0, countOrders(t, store, req.Reference))
}

func TestAuthorize_RolIncompatible(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	req := approvedRequisition(t, uc, dto.CreateRequisitionRequest{
		VendorID: strPtr("v-1"),
		Lines:    []dto.RequisitionLineRequest{{ProductID: "p-1"}},
	})

	_, err := uc.Authorize(ctx, reviewer, req.ID)
	require.ErrorIs(t, err, domain.ErrPermission)
	assert.Equal(t, 0, countOrders(t, store, req.Reference))
}

func TestAuthorize_OrigenConOrdenExistente(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	req := approvedRequisition(t, uc, dto.CreateRequisitionRequest{
		VendorID: strPtr("v-1"),
		Lines:    []dto.RequisitionLineRequest{{ProductID: "p-1"}},
	})
	require.NoError(t, store.Repositories().PurchaseOrders.Create(ctx, &entity.PurchaseOrder{
		ID: "po-previa", PartnerID: "v-1", Origin: req.Reference, State: entity.PurchaseOrderStateDraft,
	}))

	_, err := uc.Authorize(ctx, authorizer, req.ID)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, domain.Message(err), req.Reference)
	assert.Equal(t, 1, countOrders(t, store, req.Reference))

	got, err := uc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.State)
}

func TestGetPurchaseOrder_SinAutorizar(t *testing.T) {
	uc, _ := newUseCase(t)
	req, err := uc.Create(context.Background(), staff, dto.CreateRequisitionRequest{})
	require.NoError(t, err)

	_, err = uc.GetPurchaseOrder(context.Background(), req.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransition_AccionInvalida(t *testing.T) {
	uc, _ := newUseCase(t)
	req, err := uc.Create(context.Background(), staff, dto.CreateRequisitionRequest{})
	require.NoError(t, err)

	_, err = uc.Transition(context.Background(), admin, req.ID, "issue")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
