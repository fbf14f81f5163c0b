package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tiendalabs/tienda/internal"
	"github.com/tiendalabs/tienda/internal/email"
	"github.com/tiendalabs/tienda/internal/events"
	"github.com/tiendalabs/tienda/internal/handler"
	"github.com/tiendalabs/tienda/internal/middleware"
	"github.com/tiendalabs/tienda/internal/repository"
	"github.com/tiendalabs/tienda/internal/router"
	"github.com/tiendalabs/tienda/internal/routes"
	"github.com/tiendalabs/tienda/internal/service"
	"github.com/tiendalabs/tienda/internal/telemetry"
	"github.com/tiendalabs/tienda/internal/worker"
)

var version = "dev"

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry error tracking
	sentryCleanup, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
		Debug:       cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer sentryCleanup()

	// Run migrations over database/sql
	logger.Info("Running database migrations...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if err := internal.RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return fmt.Errorf("migration failed: %w", err)
	}
	sqlDB.Close()
	logger.Info("Database migrations completed successfully")

	// Initialize the pgx pool backed store
	store, err := repository.NewStore(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()
	logger.Info("Database connection established")

	// Metrics
	businessMetrics := telemetry.NewBusinessMetrics("tienda")
	httpMetrics := middleware.NewMetrics("tienda")

	// Order events over NATS; disabled when NATS_URL is unset
	var publisher events.Publisher
	if cfg.NatsURL != "" {
		nats, err := events.NewNATSPublisher(cfg.NatsURL, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		publisher = nats
		logger.Info("Connected to NATS", "url", cfg.NatsURL)
	} else {
		publisher = events.NoopPublisher{}
		logger.Info("NATS_URL not set, order events disabled")
	}
	defer publisher.Close()

	// Email delivery
	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     int(cfg.Email.Port),
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
	}, logger)
	mailer := email.NewService(sender, cfg.StoreName, cfg.AdminEmail, businessMetrics, logger)

	// Background job pool
	pool := worker.NewPool(worker.Config{}, businessMetrics, logger)
	go func() {
		if err := pool.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Worker pool stopped", "error", err)
		}
	}()

	// Services
	productService := service.NewProductService(store, businessMetrics, logger)
	cartService := service.NewCartService(store, businessMetrics, logger)
	userService := service.NewUserService(store, businessMetrics, logger)
	orderService := service.NewOrderService(store, publisher, mailer, pool, businessMetrics, logger)
	contactService := service.NewContactService(store, mailer, pool, businessMetrics, logger)

	// Expired sessions are purged hourly
	go pool.RunPeriodic(ctx, "session_cleanup", time.Hour, userService.CleanupExpiredSessions)

	// Router with the global middleware chain
	secureCookies := cfg.Env == "prod"
	r := router.New(
		middleware.RequestID,
		router.Recovery(logger),
		telemetry.SentryMiddleware(),
		router.CORS(cfg.CORSOrigins),
		httpMetrics.Middleware,
		middleware.WithRequestLogger(logger),
		middleware.WithCartSession(secureCookies),
		middleware.WithUser(userService),
		router.Logger(logger),
	)

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		Products: handler.NewProductHandler(productService),
		Cart:     handler.NewCartHandler(cartService),
		Orders:   handler.NewOrderHandler(orderService),
		Users:    handler.NewUserHandler(userService, secureCookies),
		Contact:  handler.NewContactHandler(contactService),
	})
	routes.RegisterOpsRoutes(r, routes.OpsDeps{
		Health:  handler.NewHealthHandler(store, version),
		Metrics: httpMetrics.Handler(),
	})

	// Product images and other assets referenced by image_url.
	r.Static("/static", cfg.StaticDir)

	// Start the server and shut down cleanly on SIGINT/SIGTERM
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
