package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/pdv-backend/api/controllers"
	"github.com/angelmondragon/pdv-backend/api/routes"
	"github.com/angelmondragon/pdv-backend/internal/access"
	"github.com/angelmondragon/pdv-backend/internal/auth"
	"github.com/angelmondragon/pdv-backend/internal/cart"
	"github.com/angelmondragon/pdv-backend/internal/catalog"
	"github.com/angelmondragon/pdv-backend/internal/checkout"
	"github.com/angelmondragon/pdv-backend/internal/cron"
	"github.com/angelmondragon/pdv-backend/internal/dashboard"
	"github.com/angelmondragon/pdv-backend/internal/inventory"
	"github.com/angelmondragon/pdv-backend/internal/orders"
	"github.com/angelmondragon/pdv-backend/internal/rental"
	"github.com/angelmondragon/pdv-backend/internal/tables"
	"github.com/angelmondragon/pdv-backend/internal/users"
	"github.com/angelmondragon/pdv-backend/pkg/auth/session"
	"github.com/angelmondragon/pdv-backend/pkg/config"
	"github.com/angelmondragon/pdv-backend/pkg/db"
	"github.com/angelmondragon/pdv-backend/pkg/instance"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
	"github.com/angelmondragon/pdv-backend/pkg/metrics"
	"github.com/angelmondragon/pdv-backend/pkg/migrate"
	"github.com/angelmondragon/pdv-backend/pkg/redis"
	"github.com/angelmondragon/pdv-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	pingers := map[string]controllers.Pinger{"redis": redisClient}

	var dbClient *db.Client
	if cfg.FeatureFlags.NeedsDatabase() {
		dbClient, err = db.New(ctx, cfg.DB, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, dbClient.Close()) }()
		pingers["database"] = dbClient

		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	posMetrics := metrics.NewPOSMetrics(reg)

	products, err := buildCatalog(ctx, cfg, logg, dbClient)
	if err != nil {
		return err
	}

	jobMetrics := metrics.NewJobMetrics(reg)
	localJobs, err := cron.NewRegistry()
	if err != nil {
		return err
	}

	var cartStore cart.Store
	if strings.EqualFold(cfg.FeatureFlags.CartStore, config.StoreRedis) {
		if cartStore, err = cart.NewRedisStore(redisClient, cfg.POS.CartTTL); err != nil {
			return err
		}
	} else {
		memCarts := cart.NewMemoryStore()
		sweep, err := cron.NewCartSweepJob(cron.CartSweepJobParams{Logger: logg, Carts: memCarts, TTL: cfg.POS.CartTTL})
		if err != nil {
			return err
		}
		if err := localJobs.Register(sweep); err != nil {
			return err
		}
		cartStore = memCarts
	}
	carts, err := cart.NewService(cartStore, products, cart.Options{
		BarcodeMinDigits: cfg.POS.BarcodeMinDigits,
		Metrics:          posMetrics,
	})
	if err != nil {
		return err
	}

	var sales checkout.Store
	if strings.EqualFold(cfg.FeatureFlags.SalesStore, config.StoreDB) {
		sales = checkout.NewRepository(dbClient.DB(), dbClient)
	} else if sales, err = checkout.NewMemoryStore(products); err != nil {
		return err
	}
	checkoutSvc, err := checkout.NewService(carts, sales, checkout.Options{Metrics: posMetrics, Logger: logg})
	if err != nil {
		return err
	}

	hasher := security.NewPasswordHasher(cfg.Password)
	userStore, err := buildUsers(ctx, cfg, logg, dbClient, hasher)
	if err != nil {
		return err
	}
	userSvc, err := users.NewService(userStore, hasher)
	if err != nil {
		return err
	}

	sessions, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}
	authSvc, err := auth.NewService(auth.ServiceParams{
		Users:     userStore,
		Sessions:  sessions,
		Passwords: hasher,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		return err
	}

	orderBoard := orders.NewBoard(orders.DemoOrders()...)
	floor := tables.NewBoard(tables.DemoTables()...)

	inventorySvc, err := inventory.NewService(products, logg)
	if err != nil {
		return err
	}
	dashboardSvc, err := dashboard.NewService(dashboard.Sources{
		Sales:    checkoutSvc,
		Orders:   orderBoard,
		Tables:   floor,
		Products: products,
	}, time.Local, nil)
	if err != nil {
		return err
	}

	lowStock, err := cron.NewLowStockJob(cron.LowStockJobParams{Logger: logg, Products: products, Gauge: posMetrics})
	if err != nil {
		return err
	}
	sharedLock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("jobs"), cfg.POS.JobInterval)
	if err != nil {
		return err
	}
	sharedJobs, err := cron.NewRegistry(lowStock)
	if err != nil {
		return err
	}
	runners := []cron.ServiceParams{
		{Logger: logg, Registry: localJobs, Lock: &cron.LocalLock{}, Metrics: jobMetrics, Scope: cron.ScopeLocal, Interval: cfg.POS.JobInterval},
		{Logger: logg, Registry: sharedJobs, Lock: sharedLock, Metrics: jobMetrics, Scope: cron.ScopeShared, Interval: cfg.POS.JobInterval},
	}
	for _, params := range runners {
		if params.Registry.Empty() {
			continue
		}
		runner, err := cron.NewService(params)
		if err != nil {
			return err
		}
		go func() { _ = runner.Run(ctx) }()
	}

	deps := routes.Deps{
		Config:      cfg,
		Logger:      logg,
		Policy:      access.DefaultPolicy(),
		Pingers:     pingers,
		Idempotency: redisClient,
		RateLimiter: redisClient,
		Auth:        authSvc,
		Catalog:     products,
		Carts:       carts,
		Checkout:    checkoutSvc,
		Orders:      orderBoard,
		Tables:      floor,
		Rental:      rental.NewCatalog(rental.DemoItems()...),
		Inventory:   inventorySvc,
		Users:       userSvc,
		Dashboard:   dashboardSvc,
	}
	if cfg.Metrics.Enabled {
		deps.HTTPMetrics = metrics.NewHTTPMetrics(reg)
		deps.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"instance":      instance.GetID(),
		"cart_store":    cfg.FeatureFlags.CartStore,
		"sales_store":   cfg.FeatureFlags.SalesStore,
		"catalog_store": cfg.FeatureFlags.CatalogStore,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildCatalog(ctx context.Context, cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (catalog.Store, error) {
	var store catalog.Store
	if strings.EqualFold(cfg.FeatureFlags.CatalogStore, config.StoreDB) {
		store = catalog.NewRepository(dbClient.DB())
	} else {
		mem, err := catalog.NewMemoryCatalog()
		if err != nil {
			return nil, err
		}
		store = mem
	}
	if !cfg.FeatureFlags.SeedDemoData {
		return store, nil
	}
	seeded, err := catalog.SeedDemo(ctx, store)
	if err != nil {
		return nil, err
	}
	if seeded {
		logg.Info(ctx, "demo catalog seeded")
	}
	return store, nil
}

func buildUsers(ctx context.Context, cfg *config.Config, logg *logger.Logger, dbClient *db.Client, hasher *security.PasswordHasher) (users.Store, error) {
	var store users.Store = users.NewMemoryStore()
	if strings.EqualFold(cfg.FeatureFlags.UserStore, config.StoreDB) {
		store = users.NewRepository(dbClient.DB())
	}
	if !cfg.FeatureFlags.SeedDemoData {
		return store, nil
	}
	password := cfg.FeatureFlags.DemoPassword
	if password == "" {
		password = uuid.NewString()
		logg.Warn(ctx, "PDV_DEMO_PASSWORD unset; demo accounts got a random password and cannot sign in")
	}
	if err := users.SeedDemo(ctx, store, hasher, password); err != nil {
		return nil, err
	}
	return store, nil
}
