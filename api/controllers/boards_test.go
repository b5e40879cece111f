package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/pdv-backend/internal/dashboard"
	"github.com/angelmondragon/pdv-backend/internal/inventory"
	"github.com/angelmondragon/pdv-backend/internal/orders"
	"github.com/angelmondragon/pdv-backend/internal/rental"
	"github.com/angelmondragon/pdv-backend/internal/tables"
	"github.com/angelmondragon/pdv-backend/internal/users"
	"github.com/angelmondragon/pdv-backend/pkg/config"
)

func TestTableBoardEndpoints(t *testing.T) {
	board := tables.NewBoard(tables.DemoTables()...)

	rec, env := serve(t, TableList(board, nil), operatorRequest(http.MethodGet, "/api/v1/tables?status=occupied", "", nil))
	var list tableListResponse
	decodeData(t, env, &list)
	if rec.Code != http.StatusOK || len(list.Tables) != 2 || list.Occupancy.Percent != 33 {
		t.Fatalf("unexpected table list %d %+v", rec.Code, list)
	}

	rec, _ = serve(t, TableList(board, nil), operatorRequest(http.MethodGet, "/api/v1/tables?status=flooded", "", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status got %d", rec.Code)
	}

	update := TableUpdateStatus(board, nil)
	rec, _ = serve(t, update, operatorRequest(http.MethodPut, "/api/v1/tables/1/status", `{"status":"cleaning"}`, map[string]string{"id": "1"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected occupied -> cleaning to succeed, got %d", rec.Code)
	}
	rec, env = serve(t, update, operatorRequest(http.MethodPut, "/api/v1/tables/2/status", `{"status":"cleaning"}`, map[string]string{"id": "2"}))
	if rec.Code != http.StatusUnprocessableEntity || env.Error.Code != "STATE_CONFLICT" {
		t.Fatalf("expected state conflict got %d %s", rec.Code, env.Error.Code)
	}
}

func TestOrderBoardEndpoints(t *testing.T) {
	board := orders.NewBoard(orders.DemoOrders()...)

	rec, env := serve(t, OrderList(board, nil), operatorRequest(http.MethodGet, "/api/v1/orders", "", nil))
	var list []orders.View
	decodeData(t, env, &list)
	if rec.Code != http.StatusOK || len(list) != 4 || list[0].ID != "3" {
		t.Fatalf("expected newest order first, got %d %+v", rec.Code, list)
	}

	rec, env = serve(t, OrderAdvance(board, nil), operatorRequest(http.MethodPost, "/api/v1/orders/2/advance", "", map[string]string{"id": "2"}))
	var view orders.View
	decodeData(t, env, &view)
	if rec.Code != http.StatusOK || view.Status != "completed" {
		t.Fatalf("expected ready -> completed, got %d %s", rec.Code, view.Status)
	}

	rec, _ = serve(t, OrderCancel(board, nil), operatorRequest(http.MethodPost, "/api/v1/orders/4/cancel", "", map[string]string{"id": "4"}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected finished order to reject cancel, got %d", rec.Code)
	}

	rec, _ = serve(t, OrderCancel(board, nil), operatorRequest(http.MethodPost, "/api/v1/orders/99/cancel", "", map[string]string{"id": "99"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestRentalEndpoints(t *testing.T) {
	items := rental.NewCatalog(rental.DemoItems()...)

	rec, env := serve(t, RentalItems(items, nil), operatorRequest(http.MethodGet, "/api/v1/rental/items", "", nil))
	var all []rental.View
	decodeData(t, env, &all)
	if rec.Code != http.StatusOK || len(all) != 6 {
		t.Fatalf("expected all rental items, got %d %d", rec.Code, len(all))
	}

	_, env = serve(t, RentalItems(items, nil), operatorRequest(http.MethodGet, "/api/v1/rental/items?scarce=true", "", nil))
	var scarce []rental.View
	decodeData(t, env, &scarce)
	if len(scarce) == 0 || len(scarce) >= len(all) {
		t.Fatalf("expected a strict subset of scarce items, got %d", len(scarce))
	}

	rec, _ = serve(t, RentalItems(items, nil), operatorRequest(http.MethodGet, "/api/v1/rental/items?scarce=maybe", "", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	_, env = serve(t, RentalCategories(items, nil), operatorRequest(http.MethodGet, "/api/v1/rental/categories", "", nil))
	var categories []string
	decodeData(t, env, &categories)
	if len(categories) == 0 {
		t.Fatal("expected categories")
	}
}

func TestInventoryEndpoints(t *testing.T) {
	fx := newPOSFixture(t)
	svc, err := inventory.NewService(fx.catalog, nil)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}

	_, env := serve(t, InventoryLowStock(svc, nil), operatorRequest(http.MethodGet, "/api/v1/inventory/low-stock", "", nil))
	var low []inventory.Row
	decodeData(t, env, &low)
	if len(low) != 1 || low[0].ID != "4" {
		t.Fatalf("expected only product 4 low on stock, got %+v", low)
	}

	adjust := InventoryAdjust(svc, nil)
	rec, env := serve(t, adjust, operatorRequest(http.MethodPost, "/api/v1/inventory/4/adjust", `{"delta":10,"reason":"entrega"}`, map[string]string{"id": "4"}))
	var row inventory.Row
	decodeData(t, env, &row)
	if rec.Code != http.StatusOK || row.StockQuantity != 12 {
		t.Fatalf("expected stock 12, got %d %+v", rec.Code, row)
	}

	rec, _ = serve(t, adjust, operatorRequest(http.MethodPost, "/api/v1/inventory/4/adjust", `{"delta":-50}`, map[string]string{"id": "4"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected negative stock to be rejected, got %d", rec.Code)
	}

	rec, env = serve(t, InventoryList(svc, nil), operatorRequest(http.MethodGet, "/api/v1/inventory?q=batata", "", nil))
	var rows []inventory.Row
	decodeData(t, env, &rows)
	if rec.Code != http.StatusOK || len(rows) != 1 {
		t.Fatalf("expected one search hit got %d", len(rows))
	}
}

type prefixHasher struct{}

func (prefixHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func TestUserEndpoints(t *testing.T) {
	store := users.NewMemoryStore()
	svc, err := users.NewService(store, prefixHasher{})
	if err != nil {
		t.Fatalf("users: %v", err)
	}

	create := UserCreate(svc, nil)
	rec, env := serve(t, create, operatorRequest(http.MethodPost, "/api/v1/users", `{"name":"Carla Nunes","email":"carla@empresa.com","password":"segredo123","role":"caixa"}`, nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var created users.UserDTO
	decodeData(t, env, &created)
	if created.CompanyID != "1" || created.RoleBadge.Label == "" {
		t.Fatalf("expected caller company and role badge, got %+v", created)
	}

	rec, _ = serve(t, create, operatorRequest(http.MethodPost, "/api/v1/users", `{"name":"Carla","email":"CARLA@empresa.com","password":"segredo123","role":"caixa"}`, nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected duplicate email conflict got %d", rec.Code)
	}

	rec, env = serve(t, create, operatorRequest(http.MethodPost, "/api/v1/users", `{"name":"X","email":"x@empresa.com","password":"segredo123","role":"chef"}`, nil))
	if rec.Code != http.StatusBadRequest || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected role validation got %d %s", rec.Code, env.Error.Code)
	}

	_, env = serve(t, UserList(svc, nil), operatorRequest(http.MethodGet, "/api/v1/users?q=carla", "", nil))
	var list []users.UserDTO
	decodeData(t, env, &list)
	if len(list) != 1 {
		t.Fatalf("expected one user listed, got %d", len(list))
	}
}

func TestDashboardEndpoint(t *testing.T) {
	fx := newPOSFixture(t)
	if _, err := fx.carts.Add(context.Background(), "sess-1", "1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	serve(t, Checkout(fx.checkout, nil), operatorRequest(http.MethodPost, "/api/v1/pos/checkout", `{"payment_method":"cash"}`, nil))

	svc, err := dashboard.NewService(dashboard.Sources{
		Sales:    fx.checkout,
		Orders:   orders.NewBoard(orders.DemoOrders()...),
		Tables:   tables.NewBoard(tables.DemoTables()...),
		Products: fx.catalog,
	}, time.UTC, time.Now)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	rec, env := serve(t, Dashboard(svc, nil), operatorRequest(http.MethodGet, "/api/v1/dashboard", "", nil))
	var summary dashboard.Summary
	decodeData(t, env, &summary)
	if rec.Code != http.StatusOK || summary.SalesCount != 1 || summary.SalesTodayFormatted != "R$ 25.00" || summary.OpenOrders != 3 || summary.LowStockCount != 1 {
		t.Fatalf("unexpected summary %d %+v", rec.Code, summary)
	}
}

func TestProductEndpoints(t *testing.T) {
	fx := newPOSFixture(t)

	rec, env := serve(t, ProductList(fx.catalog, nil), operatorRequest(http.MethodGet, "/api/v1/products?q=7891234567892", "", nil))
	var list []map[string]any
	decodeData(t, env, &list)
	if rec.Code != http.StatusOK || len(list) != 1 || list[0]["id"] != "3" {
		t.Fatalf("expected barcode search hit, got %d %+v", rec.Code, list)
	}

	rec, _ = serve(t, ProductGet(fx.catalog, nil), operatorRequest(http.MethodGet, "/api/v1/products/42", "", map[string]string{"id": "42"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	rec := httptest.NewRecorder()
	HealthReady(cfg, map[string]Pinger{"redis": stubPinger{}}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("X-PDV-Env") != "dev" {
		t.Fatalf("expected ready, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	HealthReady(cfg, map[string]Pinger{"db": stubPinger{err: errors.New("down")}}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}
