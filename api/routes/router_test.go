package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/pdv-backend/internal/access"
	"github.com/angelmondragon/pdv-backend/internal/auth"
	"github.com/angelmondragon/pdv-backend/internal/cart"
	"github.com/angelmondragon/pdv-backend/internal/catalog"
	"github.com/angelmondragon/pdv-backend/internal/checkout"
	"github.com/angelmondragon/pdv-backend/internal/users"
	"github.com/angelmondragon/pdv-backend/pkg/auth/session"
	"github.com/angelmondragon/pdv-backend/pkg/config"
	"github.com/angelmondragon/pdv-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/metrics"
)

// tokenAuth treats each bearer token as the id of a prepared session.
type tokenAuth struct {
	sessions map[string]session.Session
}

func (a tokenAuth) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func (a tokenAuth) ValidateCredentials(context.Context, string, string) (users.User, error) {
	return users.User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func (a tokenAuth) CurrentSession(_ context.Context, token string) (session.Session, error) {
	sess, ok := a.sessions[token]
	if !ok {
		return session.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}
	return sess, nil
}

func (a tokenAuth) ClearSession(context.Context, string) error {
	return nil
}

type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryKV) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key], _ = value.(string)
	return true, nil
}

func (m *memoryKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryKV) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

type testServer struct {
	handler  http.Handler
	products *catalog.MemoryCatalog
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	products, err := catalog.NewMemoryCatalog(catalog.DemoProducts()...)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	carts, err := cart.NewService(cart.NewMemoryStore(), products, cart.Options{})
	if err != nil {
		t.Fatalf("carts: %v", err)
	}
	sales, err := checkout.NewMemoryStore(products)
	if err != nil {
		t.Fatalf("sales: %v", err)
	}
	checkoutSvc, err := checkout.NewService(carts, sales, checkout.Options{})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	reg := prometheus.NewRegistry()
	handler := NewRouter(Deps{
		Config: &config.Config{App: config.AppConfig{Env: "dev"}},
		Policy: access.DefaultPolicy(),
		Auth: tokenAuth{sessions: map[string]session.Session{
			"caixa":     {ID: "sess-caixa", UserID: "3", Role: enums.UserRoleCaixa, CompanyID: "1"},
			"atendente": {ID: "sess-atendente", UserID: "4", Role: enums.UserRoleAtendente, CompanyID: "1"},
		}},
		Idempotency:    &memoryKV{data: map[string]string{}},
		HTTPMetrics:    metrics.NewHTTPMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Catalog:        products,
		Carts:          carts,
		Checkout:       checkoutSvc,
	})
	return testServer{handler: handler, products: products}
}

func (s testServer) do(method, path, token, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndRequestID(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodGet, "/health/live", "", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected generated request id")
	}
	rec = srv.do(http.MethodGet, "/health/ready", "", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ready without dependencies, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireSessionAndRole(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"anonymous", http.MethodGet, "/api/v1/pos/cart", "", http.StatusUnauthorized},
		{"unknown token", http.MethodGet, "/api/v1/pos/cart", "stale", http.StatusUnauthorized},
		{"atendente at pos", http.MethodGet, "/api/v1/pos/cart", "atendente", http.StatusForbidden},
		{"caixa at pos", http.MethodGet, "/api/v1/pos/cart", "caixa", http.StatusOK},
		{"caixa at users", http.MethodGet, "/api/v1/users", "caixa", http.StatusForbidden},
		{"atendente at products", http.MethodGet, "/api/v1/products", "atendente", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := srv.do(tc.method, tc.path, tc.token, "", nil)
			if rec.Code != tc.want {
				t.Fatalf("expected %d got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCheckoutIsIdempotent(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodPost, "/api/v1/pos/cart/scan", "caixa", `{"input":"7891234567890"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("scan: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(http.MethodPost, "/api/v1/pos/checkout", "caixa", `{"payment_method":"debit"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected checkout without Idempotency-Key to be rejected, got %d", rec.Code)
	}

	headers := map[string]string{"Idempotency-Key": "sale-1"}
	first := srv.do(http.MethodPost, "/api/v1/pos/checkout", "caixa", `{"payment_method":"debit"}`, headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", first.Code, first.Body.String())
	}
	replay := srv.do(http.MethodPost, "/api/v1/pos/checkout", "caixa", `{"payment_method":"debit"}`, headers)
	if replay.Code != http.StatusCreated || replay.Body.String() != first.Body.String() {
		t.Fatalf("expected replayed receipt, got %d %s", replay.Code, replay.Body.String())
	}

	p, err := srv.products.FindByID(context.Background(), "1")
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if p.StockQuantity != 149 {
		t.Fatalf("expected stock decremented once to 149, got %d", p.StockQuantity)
	}

	rec = srv.do(http.MethodGet, "/api/v1/pos/sales", "caixa", "", nil)
	var env struct {
		Data struct {
			Sales []json.RawMessage `json:"sales"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || len(env.Data.Sales) != 1 {
		t.Fatalf("expected exactly one sale, got %s (%v)", rec.Body.String(), err)
	}
}

func TestMetricsEndpointExposesRouteLabels(t *testing.T) {
	srv := newTestServer(t)
	srv.do(http.MethodDelete, "/api/v1/pos/cart/items/1", "caixa", "", nil)

	rec := srv.do(http.MethodGet, "/metrics", "", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `route="/api/v1/pos/cart/items/{productId}"`) {
		t.Fatalf("expected route pattern label in metrics output:\n%s", rec.Body.String())
	}
}
