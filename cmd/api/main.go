package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boutique/internal/config"
	"boutique/internal/database"
	"boutique/internal/handler"
	"boutique/internal/metrics"
	"boutique/internal/payment"
	"boutique/internal/receipt"
	"boutique/internal/repository"
	"boutique/internal/router"
	"boutique/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting boutique API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	inventoryRepo := repository.NewInventoryRepository(pool, logger)
	saleRepo := repository.NewSaleRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	notificationRepo := repository.NewNotificationRepository(pool, logger)

	// Initialize receipt storage with S3 and local fallback
	receipts := newReceiptStore(ctx, cfg.Receipts, logger)

	// Initialize payment gateway client
	gateway := payment.NewClient(cfg.Payment, logger)

	// Initialize metrics registry
	m := metrics.New()

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	inventoryService := service.NewInventoryService(inventoryRepo, logger)
	userService := service.NewUserService(userRepo, cfg.Auth, logger)
	cartService := service.NewCartService(cartRepo, inventoryRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, m, logger)
	paymentService := service.NewPaymentService(saleRepo, inventoryRepo, userRepo, gateway, notificationService, m, logger)
	saleService := service.NewSaleService(saleRepo, inventoryRepo, cartRepo, userRepo,
		paymentService, notificationService, receipts, m, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(userService, logger),
		Product:      handler.NewProductHandler(productService, logger),
		Inventory:    handler.NewInventoryHandler(inventoryService, logger),
		Cart:         handler.NewCartHandler(cartService, logger),
		Sale:         handler.NewSaleHandler(saleService, logger),
		Payment:      handler.NewPaymentHandler(paymentService, cfg.Payment.WebhookSecret, logger),
		Notification: handler.NewNotificationHandler(notificationService, logger),
	}

	// Initialize router
	mux := router.New(handlers, cfg.Auth.JWTSecret, m, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newReceiptStore picks S3 when enabled and reachable, falling back to the
// local file system otherwise.
func newReceiptStore(ctx context.Context, cfg config.ReceiptsConfig, logger zerolog.Logger) receipt.Store {
	if !cfg.S3Enabled {
		logger.Info().Str("dir", cfg.LocalDir).Msg("storing receipts on the local file system (S3 disabled)")
		return receipt.NewFileStore(cfg.LocalDir, logger)
	}

	store, err := receipt.NewS3Store(ctx, cfg.Bucket, cfg.Region, cfg.Prefix, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 receipt store, falling back to local file system")
		return receipt.NewFileStore(cfg.LocalDir, logger)
	}
	return store
}
