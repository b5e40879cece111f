package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pdv-backend/api/controllers"
	"github.com/angelmondragon/pdv-backend/api/middleware"
	"github.com/angelmondragon/pdv-backend/internal/access"
	"github.com/angelmondragon/pdv-backend/internal/auth"
	"github.com/angelmondragon/pdv-backend/internal/cart"
	"github.com/angelmondragon/pdv-backend/internal/catalog"
	"github.com/angelmondragon/pdv-backend/internal/checkout"
	"github.com/angelmondragon/pdv-backend/internal/dashboard"
	"github.com/angelmondragon/pdv-backend/internal/inventory"
	"github.com/angelmondragon/pdv-backend/internal/users"
	"github.com/angelmondragon/pdv-backend/pkg/config"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
	"github.com/angelmondragon/pdv-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/pdv-backend/pkg/redis"
)

// RateLimiter counts attempts in fixed windows.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Deps carries everything the HTTP surface talks to. Nil collaborators
// disable the middleware that needs them; nil services answer 500.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Policy      *access.Policy
	Pingers     map[string]controllers.Pinger
	Idempotency pkgredis.IdempotencyStore
	RateLimiter RateLimiter
	HTTPMetrics *metrics.HTTPMetrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Now            func() time.Time

	Auth      auth.Service
	Catalog   catalog.Catalog
	Carts     cart.Service
	Checkout  checkout.Service
	Orders    controllers.OrderBoard
	Tables    controllers.FloorPlan
	Rental    controllers.RentalCatalog
	Inventory inventory.Service
	Users     users.Service
	Dashboard dashboard.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger
	if cfg == nil {
		cfg = &config.Config{}
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
	)
	if d.HTTPMetrics != nil {
		r.Use(middleware.Metrics(d.HTTPMetrics))
	}

	loginThrottle := middleware.NewLoginThrottle(cfg.AuthRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.Pingers, logg))
	})
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.ThrottleLogin(loginThrottle, d.RateLimiter, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
		r.Get("/session", controllers.AuthSession(d.Auth, d.Policy, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(d.Auth, logg))
		r.Use(middleware.Idempotency(d.Idempotency, logg))

		guard := func(route string) func(http.Handler) http.Handler {
			return middleware.Authorize(d.Policy, route, logg)
		}

		r.With(guard(access.RouteDashboard)).Get("/dashboard", controllers.Dashboard(d.Dashboard, logg))

		r.Route("/products", func(r chi.Router) {
			r.Use(guard(access.RouteProducts))
			r.Get("/", controllers.ProductList(d.Catalog, logg))
			r.Get("/{id}", controllers.ProductGet(d.Catalog, logg))
		})

		r.Route("/pos", func(r chi.Router) {
			r.Use(guard(access.RoutePOS))
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(d.Carts, logg))
				r.Delete("/", controllers.CartClear(d.Carts, logg))
				r.Post("/items", controllers.CartAddItem(d.Carts, logg))
				r.Post("/scan", controllers.CartScan(d.Carts, logg))
				r.Put("/items/{productId}", controllers.CartSetQuantity(d.Carts, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(d.Carts, logg))
			})
			r.Post("/checkout", controllers.Checkout(d.Checkout, logg))
			r.Get("/sales", controllers.SalesList(d.Checkout, d.Now, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(guard(access.RouteOrders))
			r.Get("/", controllers.OrderList(d.Orders, logg))
			r.Post("/{id}/advance", controllers.OrderAdvance(d.Orders, logg))
			r.Post("/{id}/cancel", controllers.OrderCancel(d.Orders, logg))
		})

		r.Route("/tables", func(r chi.Router) {
			r.Use(guard(access.RouteTables))
			r.Get("/", controllers.TableList(d.Tables, logg))
			r.Put("/{id}/status", controllers.TableUpdateStatus(d.Tables, logg))
		})

		r.Route("/rental", func(r chi.Router) {
			r.Use(guard(access.RouteRental))
			r.Get("/items", controllers.RentalItems(d.Rental, logg))
			r.Get("/categories", controllers.RentalCategories(d.Rental, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Use(guard(access.RouteInventory))
			r.Get("/", controllers.InventoryList(d.Inventory, logg))
			r.Get("/low-stock", controllers.InventoryLowStock(d.Inventory, logg))
			r.Post("/{id}/adjust", controllers.InventoryAdjust(d.Inventory, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(guard(access.RouteUsers))
			r.Get("/", controllers.UserList(d.Users, logg))
			r.Post("/", controllers.UserCreate(d.Users, logg))
		})
	})

	return r
}
