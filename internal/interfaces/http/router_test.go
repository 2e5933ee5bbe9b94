package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
)

// ─── Helpers ───

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()
	ledger := inventory.NewStockLedger(log)
	valuation := inventory.NewValuation()
	alerts := inventory.NewAlertEngine(store.Products(), store.Alerts(), nil, log)
	orders := inventory.NewOrderUseCase(store, ledger, valuation, alerts,
		store.Orders(), store.Suppliers(), store.Products(),
		infrapdf.NewMarotoPDFGenerator("Stock Ledger"), inventory.CreditImmediate, log)
	usages := inventory.NewUsageUseCase(store, ledger, valuation, alerts, store.Usages(), log)
	products := usecase.NewProductUseCase(store, store.Products(), store.Categories(), store.Movements(), alerts, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		ProductUC:        products,
		CategoryUC:       usecase.NewCategoryUseCase(store.Categories(), products),
		SupplierUC:       usecase.NewSupplierUseCase(store.Suppliers(), orders),
		PriceHistoryUC:   usecase.NewPriceHistoryUseCase(store.Prices(), store.Products()),
		OrderUC:          orders,
		UsageUC:          usages,
		Alerts:           alerts,
		JWTSecret:        testJWTSecret,
		ExpiringSoonDays: 30,
	})
	return &apiClient{t: t, app: app}
}

// do envía la petición con el rol indicado ("" = sin token) y decodifica la respuesta en out si no es nil.
func (a *apiClient) do(method, path, role string, body any, out any) int {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(a.t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *apiClient) createProduct(sku string, qty, reorder int64, price string) dto.ProductResponse {
	a.t.Helper()
	var out dto.ProductResponse
	status := a.do(http.MethodPost, "/api/products", "admin", fiber.Map{
		"sku": sku, "name": "Producto " + sku, "price": price,
		"quantity": qty, "reorder_level": reorder,
	}, &out)
	require.Equal(a.t, http.StatusCreated, status)
	return out
}

func (a *apiClient) quantity(id string) int64 {
	a.t.Helper()
	var out dto.ProductResponse
	require.Equal(a.t, http.StatusOK, a.do(http.MethodGet, "/api/products/"+id, "vendedor", nil, &out))
	return out.Quantity
}

// ─── Autorización ───

func TestRouter_VendedorNoCreaProductos(t *testing.T) {
	api := newAPI(t)
	var errResp dto.ErrorResponse
	status := api.do(http.MethodPost, "/api/products", "vendedor", fiber.Map{"sku": "X", "name": "X", "price": "1"}, &errResp)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errResp.Code)
}

func TestRouter_SinTokenRetorna401(t *testing.T) {
	api := newAPI(t)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/alerts", "", nil, nil))
}

func TestRouter_RegisterSinAdminFuerzaVendedor(t *testing.T) {
	api := newAPI(t)
	var user dto.UserResponse
	status := api.do(http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": "nuevo@example.com", "password": "secreto123", "role": "admin",
	}, &user)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "vendedor", user.Role)
}

// ─── Usos ───

func TestRouter_UsoSinStockRetorna409YNoMueveStock(t *testing.T) {
	api := newAPI(t)
	p := api.createProduct("AMOX", 5, 2, "10.00")

	var errResp dto.ErrorResponse
	status := api.do(http.MethodPost, "/api/usages", "vendedor", fiber.Map{
		"usage_type": "VET",
		"lines":      []fiber.Map{{"product_id": p.ID, "quantity": 10}},
	}, &errResp)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
	assert.Equal(t, int64(5), api.quantity(p.ID))

	var list dto.UsageListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/usages", "vendedor", nil, &list))
	assert.Empty(t, list.Items, "no debe persistirse el uso")
}

func TestRouter_BorrarLineaDeUsoRestauraStock(t *testing.T) {
	api := newAPI(t)
	p := api.createProduct("GASA", 20, 0, "2.00")

	var usage dto.UsageResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/usages", "vendedor", fiber.Map{
		"usage_type": "SALE",
		"lines":      []fiber.Map{{"product_id": p.ID, "quantity": 7}},
	}, &usage))
	require.Len(t, usage.Lines, 1)
	assert.Equal(t, int64(13), api.quantity(p.ID))

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/usage-lines/"+usage.Lines[0].ID, "vendedor", nil, nil))
	assert.Equal(t, int64(20), api.quantity(p.ID))

	var after dto.UsageResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/usages/"+usage.ID, "vendedor", nil, &after))
	assert.True(t, after.TotalValue.IsZero())
}

func TestRouter_UsosPorRangoFechaInvalida(t *testing.T) {
	api := newAPI(t)
	var errResp dto.ErrorResponse
	status := api.do(http.MethodGet, "/api/usages/by_date_range?start_date=ayer", "vendedor", nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)
}

// ─── Órdenes ───

func TestRouter_OrdenTotalYPDF(t *testing.T) {
	api := newAPI(t)
	p1 := api.createProduct("JER-5", 0, 0, "15.00")
	p2 := api.createProduct("ALC-1", 0, 0, "12.00")

	var supplier dto.SupplierResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/suppliers", "bodeguero", fiber.Map{"name": "Droguería Central"}, &supplier))

	var order dto.OrderResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/orders", "bodeguero", fiber.Map{
		"supplier_id": supplier.ID,
		"lines": []fiber.Map{
			{"product_id": p1.ID, "quantity": 3, "unit_price": "12.50"},
			{"product_id": p2.ID, "quantity": 2, "unit_price": "9.99"},
		},
	}, &order))

	assert.True(t, decimal.RequireFromString("57.48").Equal(order.TotalValue), "total=%s", order.TotalValue)
	assert.Equal(t, int64(3), api.quantity(p1.ID))
	assert.Equal(t, int64(2), api.quantity(p2.ID))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID+"/pdf", nil)
	req.Header.Set("Authorization", tokenForRole(t, "vendedor"))
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRouter_OrdenCanceladaNoAceptaLineas(t *testing.T) {
	api := newAPI(t)
	p := api.createProduct("VEND-1", 0, 0, "3.00")
	var supplier dto.SupplierResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/suppliers", "admin", fiber.Map{"name": "Prov"}, &supplier))
	var order dto.OrderResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/orders", "admin", fiber.Map{
		"supplier_id": supplier.ID,
		"lines":       []fiber.Map{{"product_id": p.ID, "quantity": 4, "unit_price": "1.00"}},
	}, &order))
	require.Equal(t, int64(4), api.quantity(p.ID))

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/orders/"+order.ID+"/update_status", "admin", fiber.Map{"status": "CANCELLED"}, nil))
	assert.Equal(t, int64(0), api.quantity(p.ID), "cancelar revierte lo acreditado")

	var errResp dto.ErrorResponse
	status := api.do(http.MethodPost, "/api/orders/"+order.ID+"/lines", "admin", fiber.Map{"product_id": p.ID, "quantity": 1, "unit_price": "1.00"}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", errResp.Code)
}

func TestRouter_OrdenInexistente404(t *testing.T) {
	api := newAPI(t)
	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/orders/no-existe", "vendedor", nil, &errResp))
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestRouter_ProveedorConOrdenesNoSeBorra(t *testing.T) {
	api := newAPI(t)
	var supplier dto.SupplierResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/suppliers", "admin", fiber.Map{"name": "Prov"}, &supplier))
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/orders", "admin", fiber.Map{"supplier_id": supplier.ID}, nil))

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, api.do(http.MethodDelete, "/api/suppliers/"+supplier.ID, "admin", nil, &errResp))
	assert.Equal(t, "CONFLICT", errResp.Code)
}

// ─── Alertas ───

func TestRouter_AlertaStockBajoUnaSolaAbierta(t *testing.T) {
	api := newAPI(t)
	p := api.createProduct("MELOX", 20, 10, "5.00")

	dispense := func(q int) {
		require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/usages", "vendedor", fiber.Map{
			"lines": []fiber.Map{{"product_id": p.ID, "quantity": q}},
		}, nil))
	}

	dispense(15)
	dispense(1)

	var list dto.AlertListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/alerts?type=LOW_STOCK", "vendedor", nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, p.ID, list.Items[0].ProductID)

	var read dto.AlertResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/alerts/"+list.Items[0].ID+"/mark_as_read", "vendedor", nil, &read))
	assert.True(t, read.IsRead)

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/alerts", "vendedor", nil, &list))
	assert.Empty(t, list.Items)

	dispense(1)
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/alerts", "vendedor", nil, &list))
	assert.Len(t, list.Items, 1, "tras leerla, un nuevo cruce abre otra alerta")

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/alerts?all=true", "vendedor", nil, &list))
	assert.Len(t, list.Items, 2)

	var marked map[string]int64
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/alerts/mark_all_as_read", "vendedor", nil, &marked))
	assert.Equal(t, int64(1), marked["marked"])
}

func TestRouter_ScanExpiredSoloAdmin(t *testing.T) {
	api := newAPI(t)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/alerts/scan_expired", "bodeguero", nil, nil))

	var out map[string]int
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/alerts/scan_expired", "admin", nil, &out))
	assert.Equal(t, 0, out["opened"])
}
