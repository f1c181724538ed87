package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow/internal/application/dto"
	"github.com/jhoicas/stockflow/internal/application/inventory"
	"github.com/jhoicas/stockflow/internal/application/purchase"
	"github.com/jhoicas/stockflow/internal/application/usecase"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stockflow/internal/interfaces/http"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildAPI arma el router completo sobre el almacén en memoria.
func buildAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	log := logger.Nop()
	balance := inventory.NewBalanceService(log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(repos.Products, store, balance),
		StockInUC:     inventory.NewStockInUseCase(store, repos, balance, "", log),
		StockOutUC:    inventory.NewStockOutUseCase(store, repos, balance, "", log),
		AdjustmentUC:  inventory.NewAdjustmentUseCase(store, repos, balance, "", log),
		RequisitionUC: purchase.NewRequisitionUseCase(store, repos, "", log),
		JWTSecret:     testJWTSecret,
		Logger:        log,
	})
	return app, store
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func seedProduct(t *testing.T, store *memory.Store, id string, variant *string) {
	t.Helper()
	require.NoError(t, store.Repositories().Products.Create(context.Background(), &entity.Product{
		ID: id, Name: "Producto " + id, UnitMeasure: "Unidad", VariantID: variant,
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CrearRequiereRol(t *testing.T) {
	app, _ := buildAPI(t)
	body := dto.CreateProductRequest{Name: "Tóner"}

	resp := call(t, app, http.MethodPost, "/api/products", tokenWithRoles(t), body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/products", tokenWithRoles(t, apphttp.RoleInventoryManager), body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "Tóner", created.Name)
	assert.Equal(t, "Unidad", created.UnitMeasure)

	resp = call(t, app, http.MethodGet, "/api/products/"+created.ID, tokenWithRoles(t), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestProducts_SinToken(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodGet, "/api/products", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProducts_NombreVacio_Retorna400(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodPost, "/api/products", tokenWithRoles(t, apphttp.RoleInventoryManager), dto.CreateProductRequest{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo de entradas y salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestStockFlow_EntradaSalidaYSaldo(t *testing.T) {
	app, store := buildAPI(t)
	seedProduct(t, store, "p-1", nil)
	auth := tokenWithRoles(t)
	qty := decimal.NewFromInt(10)

	resp := call(t, app, http.MethodPost, "/api/stock-ins", auth, dto.CreateStockInRequest{
		Lines: []dto.StockInLineRequest{{ProductID: "p-1", Quantity: &qty}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	in := decode[dto.StockInResponse](t, resp)
	assert.Equal(t, "INVENTORY/STOCKIN/001", in.Reference)
	assert.Equal(t, testEmployeeID, in.ReceiverID)

	resp = call(t, app, http.MethodPost, "/api/stock-ins/"+in.ID+"/approve", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	action := decode[dto.ActionResponse](t, resp)
	assert.True(t, action.Success)
	assert.Equal(t, "approved", action.State)

	// Una entrada aprobada no se puede eliminar.
	resp = call(t, app, http.MethodDelete, "/api/stock-ins/"+in.ID, auth, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	tooMuch := decimal.NewFromInt(11)
	resp = call(t, app, http.MethodPost, "/api/stock-outs", auth, dto.CreateStockOutRequest{
		Member: "Taller",
		Lines:  []dto.StockOutLineRequest{{ProductID: "p-1", IssuedQuantity: &tooMuch}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.StockOutResponse](t, resp)

	resp = call(t, app, http.MethodPost, "/api/stock-outs/"+out.ID+"/check", auth, nil)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)

	four := decimal.NewFromInt(4)
	resp = call(t, app, http.MethodPut, "/api/stock-outs/"+out.ID+"/lines/"+out.Lines[0].ID, auth, dto.StockOutLineRequest{IssuedQuantity: &four})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	for _, a := range []string{"check", "issue"} {
		resp = call(t, app, http.MethodPost, "/api/stock-outs/"+out.ID+"/"+a, auth, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, a)
		resp.Body.Close()
	}

	resp = call(t, app, http.MethodGet, "/api/products/p-1", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	product := decode[dto.ProductResponse](t, resp)
	assert.True(t, product.PurchasedQuantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, product.IssuedQuantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, product.BalanceStock.Equal(decimal.NewFromInt(6)))
}

func TestStockIns_AccionNoRegistrada_Retorna404(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodPost, "/api/stock-ins/x/issue", tokenWithRoles(t), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStockIns_NoEncontrada(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodGet, "/api/stock-ins/no-existe", tokenWithRoles(t), nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestStockIns_FiltroEstadoInvalido_Retorna400(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodGet, "/api/stock-ins?state=bogus", tokenWithRoles(t), nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", body.Code)
}

func TestStockIns_CuerpoInvalido(t *testing.T) {
	app, _ := buildAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/stock-ins", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenWithRoles(t))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Requisiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRequisitions_FlujoHastaOrdenDeCompra(t *testing.T) {
	app, store := buildAPI(t)
	variant := "var-1"
	seedProduct(t, store, "p-1", &variant)
	vendor := "v-1"

	staff := tokenWithRoles(t, "requisition_staff")
	reviewer := tokenWithRoles(t, "requisition_reviewer")
	approver := tokenWithRoles(t, "requisition_approver")
	authorizer := tokenWithRoles(t, "requisition_authorizer")

	resp := call(t, app, http.MethodPost, "/api/requisitions", staff, dto.CreateRequisitionRequest{
		VendorID: &vendor,
		Lines:    []dto.RequisitionLineRequest{{ProductID: "p-1"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	req := decode[dto.RequisitionResponse](t, resp)
	assert.Equal(t, "PR/00001", req.Reference)

	// El revisor no puede mover un borrador.
	resp = call(t, app, http.MethodPost, "/api/requisitions/"+req.ID+"/review", reviewer, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	steps := []struct{ auth, action string }{
		{staff, "submit"},
		{reviewer, "review"},
		{approver, "approve"},
	}
	for _, s := range steps {
		resp = call(t, app, http.MethodPost, "/api/requisitions/"+req.ID+"/"+s.action, s.auth, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, s.action)
		resp.Body.Close()
	}

	resp = call(t, app, http.MethodPost, "/api/requisitions/"+req.ID+"/authorize", authorizer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	po := decode[dto.PurchaseOrderResponse](t, resp)
	assert.Equal(t, vendor, po.PartnerID)
	assert.Equal(t, "PR/00001", po.Origin)
	require.Len(t, po.Lines, 1)
	assert.Equal(t, variant, po.Lines[0].ProductID)

	resp = call(t, app, http.MethodGet, "/api/requisitions/"+req.ID+"/purchase-order", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored := decode[dto.PurchaseOrderResponse](t, resp)
	assert.Equal(t, po.ID, stored.ID)

	resp = call(t, app, http.MethodDelete, "/api/requisitions/"+req.ID, staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRequisitions_AutorizarSinProveedor_Retorna422(t *testing.T) {
	app, store := buildAPI(t)
	variant := "var-1"
	seedProduct(t, store, "p-1", &variant)
	auth := tokenWithRoles(t) // sin roles: sin restricción de escritura

	resp := call(t, app, http.MethodPost, "/api/requisitions", auth, dto.CreateRequisitionRequest{
		Lines: []dto.RequisitionLineRequest{{ProductID: "p-1"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	req := decode[dto.RequisitionResponse](t, resp)

	resp = call(t, app, http.MethodPost, "/api/requisitions/"+req.ID+"/authorize", auth, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body.Message, "proveedor")

	n, err := store.Repositories().PurchaseOrders.CountByOrigin(context.Background(), req.Reference)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRequisitions_ListOcultaEstadosPorRol(t *testing.T) {
	app, _ := buildAPI(t)
	staff := tokenWithRoles(t, "requisition_staff")

	resp := call(t, app, http.MethodPost, "/api/requisitions", staff, dto.CreateRequisitionRequest{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/requisitions", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.RequisitionResponse](t, resp), 1)

	resp = call(t, app, http.MethodGet, "/api/requisitions", tokenWithRoles(t, "requisition_approver"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.RequisitionResponse](t, resp))
}
