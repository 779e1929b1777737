package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/taxbridge/internal"
	"github.com/dukerupert/taxbridge/internal/handler/webhook"
	"github.com/dukerupert/taxbridge/internal/middleware"
	"github.com/dukerupert/taxbridge/internal/payload"
	"github.com/dukerupert/taxbridge/internal/router"
	"github.com/dukerupert/taxbridge/internal/settings"
	"github.com/dukerupert/taxbridge/internal/tax"
	"github.com/dukerupert/taxbridge/internal/taxjar"
	"github.com/dukerupert/taxbridge/internal/telemetry"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry error tracking
	flushSentry, err := telemetry.InitSentry(cfg.Sentry, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Initialize Prometheus metrics
	metrics := telemetry.NewMetrics("taxbridge")
	httpMetrics := middleware.NewMetrics("taxbridge")

	// Initialize the TaxJar provider
	provider := taxjar.NewClient(taxjar.ClientConfig{
		Logger:  logger,
		Metrics: metrics,
		Timeout: cfg.TaxJar.Timeout,
	})

	// Channel settings resolved from the environment. Deployments that
	// store per-channel credentials in Saleor app metadata swap in
	// settings.NewMetadataStore here.
	store := settings.NewStaticStore(settings.ChannelConfig{
		APIKey:  cfg.TaxJar.APIKey,
		Sandbox: cfg.TaxJar.Sandbox,
		Active:  cfg.TaxJar.Active,
		ShipFrom: settings.ShipFrom{
			Country: cfg.TaxJar.FromCountry,
			Zip:     cfg.TaxJar.FromZip,
			State:   cfg.TaxJar.FromState,
			City:    cfg.TaxJar.FromCity,
			Street:  cfg.TaxJar.FromStreet,
		},
	})

	calculator := tax.NewCalculator(provider, logger)
	recorder := tax.NewRecorder(provider, logger)

	webhookHandler := webhook.NewSaleorHandler(store, calculator, recorder, metrics, logger)

	// Create router and register routes
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		router.Logger(logger),
	)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		httpMetrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Webhook routes, each guarded by the Saleor envelope check
	webhooks := r.Group(middleware.WithRequestLogger(logger))
	webhooks.Post("/api/webhooks/checkout-calculate-taxes",
		webhookHandler.CheckoutCalculateTaxes,
		middleware.SaleorEnvelope(cfg.SaleorDomain, payload.EventCheckoutCalculateTaxes))
	webhooks.Post("/api/webhooks/order-calculate-taxes",
		webhookHandler.OrderCalculateTaxes,
		middleware.SaleorEnvelope(cfg.SaleorDomain, payload.EventOrderCalculateTaxes))
	webhooks.Post("/api/webhooks/order-created",
		webhookHandler.OrderCreated,
		middleware.SaleorEnvelope(cfg.SaleorDomain, payload.EventOrderCreated))

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
