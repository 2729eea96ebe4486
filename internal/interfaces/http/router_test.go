package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/cremeria-api/internal/application/analytics"
	"github.com/jhoicas/cremeria-api/internal/application/auth"
	"github.com/jhoicas/cremeria-api/internal/application/catalog"
	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/application/orders"
	"github.com/jhoicas/cremeria-api/internal/application/usecase"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/csvio"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/memory"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/session"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/cremeria-api/internal/interfaces/http"
	"github.com/jhoicas/cremeria-api/pkg/logger"
)

const testPassword = "secreta123"

// api aplicación completa sobre el store en memoria y Redis simulado.
type api struct {
	app    *fiber.App
	store  *memory.Store
	client *entity.Client
	crema  *entity.Product
}

func newAPI(t *testing.T) *api {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()

	client := &entity.Client{ID: uuid.NewString(), BusinessName: "Abarrotes La Güera", AssignedPriceList: entity.PriceList1, IsActive: true}
	require.NoError(t, s.Clients().Create(ctx, client))

	crema := &entity.Product{
		ID:             uuid.NewString(),
		SKU:            "CRM-1",
		Name:           "Crema",
		Category:       entity.CategoryCremas,
		Unit:           entity.UnitLitro,
		WholesalePrice: decimal.RequireFromString("50"),
		IsActive:       true,
		WarehouseType:  entity.WarehouseSecos,
		IsOnOffer:      true,
		OfferPrice:     decimal.NewNullDecimal(decimal.RequireFromString("45")),
	}
	require.NoError(t, s.Products().Create(ctx, crema))

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	users := []*entity.User{
		{Email: "admin@cremeria.mx", Role: entity.RoleAdmin},
		{Email: "cliente@cremeria.mx", Role: entity.RoleCliente, AssignedClientID: client.ID, AssignedClientName: client.BusinessName},
		{Email: "vendedor@cremeria.mx", Role: entity.RoleVendedor, AssignedClients: []entity.ClientRef{{ClientID: client.ID, ClientName: client.BusinessName}}},
		{Email: "secos@cremeria.mx", Role: entity.RoleBodegaSecos},
	}
	for _, u := range users {
		u.ID = uuid.NewString()
		u.FullName = string(u.Role)
		u.PasswordHash = string(hash)
		u.IsActive = true
		require.NoError(t, s.Users().Create(ctx, u))
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	log := logger.Nop()
	orderUC := orders.NewOrderUseCase(s, s.Orders(), s.OrderLines(), s.Products(), s.Clients(), time.UTC)
	app := apphttp.NewApp("cremeria-test", 5, log)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(s.Users(), session.NewRedisStore(rdb), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		ProductUC:   catalog.NewProductUseCase(s.Products(), s.Clients()),
		ImportUC:    catalog.NewImportUseCase(s, s.Products(), files, csvio.NewProductSheet(), nil),
		ClientUC:    usecase.NewClientUseCase(s.Clients()),
		UserUC:      usecase.NewUserUseCase(s.Users(), s.Clients()),
		OrderUC:     orderUC,
		ExportUC:    orders.NewExportUseCase(orderUC, csvio.NewOrderSheet()),
		PDFUC:       orders.NewPDFUseCase(orderUC, pdf.NewMarotoPDFGenerator("Cremería", time.UTC)),
		DashboardUC: appanalytics.NewDashboardUseCase(s.Orders(), s.Clients(), s.Products(), time.UTC),
		JWTSecret:   testJWTSecret,
		Log:         log,
	})
	return &api{app: app, store: s, client: client, crema: crema}
}

func (a *api) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (a *api) login(t *testing.T, email string) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: testPassword})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func TestAPI_Login_CredencialesInvalidas(t *testing.T) {
	a := newAPI(t)
	resp := a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@cremeria.mx", Password: "otra-cosa"})
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestAPI_Login_CuerpoInvalido(t *testing.T) {
	a := newAPI(t)
	resp := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "no-es-email"})
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "password")
}

func TestAPI_Logout_RevocaElToken(t *testing.T) {
	a := newAPI(t)
	token := a.login(t, "cliente@cremeria.mx")

	me := decode[dto.UserResponse](t, a.do(t, http.MethodGet, "/api/auth/me", token, nil))
	assert.Equal(t, "cliente", me.Role)
	assert.Equal(t, a.client.ID, me.AssignedClientID)

	resp := a.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/auth/me", token, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "REVOKED_TOKEN", body.Code)
}

// ── Flujo completo del pedido ─────────────────────────────────────────────────

func TestAPI_FlujoPedido_DeAltaAExportacion(t *testing.T) {
	a := newAPI(t)
	cliente := a.login(t, "cliente@cremeria.mx")
	secos := a.login(t, "secos@cremeria.mx")
	vendedor := a.login(t, "vendedor@cremeria.mx")
	admin := a.login(t, "admin@cremeria.mx")

	// Catálogo con precio de oferta
	cat := decode[dto.CatalogResponse](t, a.do(t, http.MethodGet, "/api/catalog", cliente, nil))
	require.Len(t, cat.Items, 1)
	assert.True(t, cat.Items[0].Price.Equal(decimal.RequireFromString("45")))
	assert.True(t, cat.Items[0].Discounted)

	// Alta
	resp := a.do(t, http.MethodPost, "/api/orders", cliente, dto.CreateOrderRequest{
		Notes: "entregar temprano",
		Items: []dto.CartItem{{ProductID: a.crema.ID, Quantity: decimal.RequireFromString("3")}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[dto.OrderDetailResponse](t, resp)
	assert.Equal(t, "pendiente_revision", order.Status)
	assert.True(t, order.TotalEstimated.Equal(decimal.RequireFromString("135")))
	id := order.ID

	// El cliente no inicia surtidos
	resp = a.do(t, http.MethodPost, "/api/orders/"+id+"/start", cliente, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Bodega: iniciar y terminar surtido con faltante
	resp = a.do(t, http.MethodPost, "/api/orders/"+id+"/start", secos, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "en_surtido", decode[dto.OrderDetailResponse](t, resp).Status)

	lineID := order.Lines[0].ID
	two := decimal.RequireFromString("2")
	resp = a.do(t, http.MethodPost, "/api/orders/"+id+"/complete", secos, dto.FulfillmentRequest{
		Lines: []dto.LineQuantities{{LineID: lineID, QuantityFulfilled: &two}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	done := decode[dto.OrderDetailResponse](t, resp)
	assert.Equal(t, "listo_revision", done.Status)
	assert.True(t, done.HasShortages)

	// Vendedor aprueba sin cambios
	resp = a.do(t, http.MethodPost, "/api/orders/"+id+"/approve", vendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	approved := decode[dto.OrderDetailResponse](t, resp)
	assert.Equal(t, "listo_captura", approved.Status)
	require.True(t, approved.TotalFinal.Valid)
	assert.True(t, approved.TotalFinal.Decimal.Equal(decimal.RequireFromString("90")))

	// Estado terminal: no hay más transiciones
	resp = a.do(t, http.MethodPost, "/api/orders/"+id+"/cancel", vendedor, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body.Code)

	// Exportación Punto Zero
	resp = a.do(t, http.MethodGet, "/api/admin/orders/export", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".csv")
	assert.Equal(t, "1", resp.Header.Get("X-Export-Rows"))
	csvBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(csvBody), order.OrderNumber)
	assert.Contains(t, string(csvBody), "Crema,CRM-1,litro,2,45.00,90.00,entregar temprano")

	// Tablero
	dash := decode[dto.DashboardSummaryDTO](t, a.do(t, http.MethodGet, "/api/admin/dashboard", admin, nil))
	assert.Equal(t, 1, dash.TotalOrders)
	assert.Equal(t, 1, dash.ReadyOrders)
	assert.True(t, dash.Revenue.Equal(decimal.RequireFromString("90")))

	// PDF de remisión
	resp = a.do(t, http.MethodGet, "/api/orders/"+id+"/pdf", admin, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
}

func TestAPI_CrearPedido_ValidaElCarrito(t *testing.T) {
	a := newAPI(t)
	cliente := a.login(t, "cliente@cremeria.mx")

	resp := a.do(t, http.MethodPost, "/api/orders", cliente, map[string]any{
		"items": []map[string]any{{"product_id": "no-es-uuid", "quantity": 1}},
	})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "items[0].product_id")

	resp = a.do(t, http.MethodPost, "/api/orders", cliente, dto.CreateOrderRequest{})
	body = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Agrega al menos un producto al pedido", body.Message)
}

func TestAPI_CrearPedido_SoloCliente(t *testing.T) {
	a := newAPI(t)
	cart := dto.CreateOrderRequest{Items: []dto.CartItem{{ProductID: a.crema.ID, Quantity: decimal.RequireFromString("1")}}}

	for _, email := range []string{"vendedor@cremeria.mx", "admin@cremeria.mx"} {
		resp := a.do(t, http.MethodPost, "/api/orders", a.login(t, email), cart)
		body := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, email)
		assert.Equal(t, "FORBIDDEN", body.Code, email)
	}
}

func TestAPI_Pedidos_IDInvalidoYNoEncontrado(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "admin@cremeria.mx")

	resp := a.do(t, http.MethodGet, "/api/orders/123", admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/orders/"+uuid.NewString(), admin, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

// ── Administración ────────────────────────────────────────────────────────────

func TestAPI_Admin_SoloAdmin(t *testing.T) {
	a := newAPI(t)
	vendedor := a.login(t, "vendedor@cremeria.mx")

	for _, path := range []string{"/api/admin/dashboard", "/api/admin/orders/export", "/api/admin/users"} {
		resp := a.do(t, http.MethodGet, path, vendedor, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
}

func TestAPI_Exportacion_SinPedidosListos(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "admin@cremeria.mx")

	resp := a.do(t, http.MethodGet, "/api/admin/orders/export", admin, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No hay pedidos listos para exportar", body.Message)
}

func TestAPI_Usuarios_EmailDuplicado(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "admin@cremeria.mx")

	in := dto.CreateUserRequest{
		Email:          "ADMIN@cremeria.mx", Password: "otra-secreta", FullName: "Otro admin",
		UserAssignment: dto.UserAssignment{Role: "admin"},
	}
	resp := a.do(t, http.MethodPost, "/api/admin/users", admin, in)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", body.Code)
}

func TestAPI_ImportarProductos(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "admin@cremeria.mx")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "productos.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, "sku,name,category,unit,wholesale_price,warehouse_type\nyog-9,Yogurt Fresa,yogures,litro,30,refrigerados\n")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	res := decode[dto.ImportResult](t, resp)
	assert.Equal(t, 1, res.Created)
	assert.True(t, strings.HasPrefix(res.FileURL, "file://"))

	p, err := a.store.Products().GetBySKU(context.Background(), "YOG-9")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, entity.WarehouseRefrigerados, p.WarehouseType)
}

func TestAPI_ImportarProductos_SoloCSV(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "admin@cremeria.mx")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "productos.xlsx")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("PK..."))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Solo se aceptan archivos .csv", body.Message)
}

func TestAPI_PlantillaDeImportacion(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "admin@cremeria.mx")

	resp := a.do(t, http.MethodGet, "/api/admin/products/import/template", admin, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "plantilla_productos.csv")
	b, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(b), "sku,name,category"))
}
