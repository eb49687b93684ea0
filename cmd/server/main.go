package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/emblashop/embla/internal"
	"github.com/emblashop/embla/internal/billing"
	"github.com/emblashop/embla/internal/events"
	"github.com/emblashop/embla/internal/handler/api"
	"github.com/emblashop/embla/internal/middleware"
	"github.com/emblashop/embla/internal/postgres"
	"github.com/emblashop/embla/internal/router"
	"github.com/emblashop/embla/internal/routes"
	"github.com/emblashop/embla/internal/service"
	"github.com/emblashop/embla/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := postgres.Connect(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	catalogStore := postgres.NewCatalogStore(pool)
	voucherStore := postgres.NewVoucherStore(pool)
	cartStore := postgres.NewCartStore(pool)

	// Commit event dispatcher
	dispatcher := events.NewDispatcher(events.Config{}, logger)
	dispatcher.Subscribe(func(ctx context.Context, ev events.Event) {
		logger.Debug("cart event", "event", fmt.Sprintf("%T", ev))
	})
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	// Initialize Stripe billing provider
	logger.Info("Initializing Stripe billing provider...")
	billingProvider, err := billing.NewStripeProvider(billing.StripeConfig{
		APIKey: cfg.Stripe.SecretKey,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Stripe provider: %w", err)
	}

	// Initialize services
	catalogService := service.NewCatalogService(catalogStore)
	cartService := service.NewCartService(cartStore, catalogStore, voucherStore, dispatcher)
	voucherService := service.NewVoucherService(voucherStore, cartStore)
	checkoutService := service.NewCheckoutService(cartService, voucherStore, billingProvider)

	// Metrics
	metrics := middleware.NewMetrics(cfg.Metrics.Namespace)
	business := telemetry.NewBusinessMetrics(cfg.Metrics.Namespace)

	// Handlers
	deps := routes.APIDeps{
		Products: api.NewProductHandler(catalogService, business),
		Cart:     api.NewCartHandler(cartService, business),
		Vouchers: api.NewVoucherHandler(voucherService, cartService, business),
		Checkout: api.NewCheckoutHandler(checkoutService, cartService, business),
	}

	// Router
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.CORS(cfg.CORS.AllowedOrigins),
		router.Logger(logger),
	)

	if cfg.Metrics.Enabled {
		r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
			metrics.Handler().ServeHTTP(w, req)
		})
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterAPIRoutes(r, deps)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr, "env", cfg.Env)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
