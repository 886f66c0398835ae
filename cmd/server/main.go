package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"payswiftly/internal/app"
	"payswiftly/internal/config"
	"payswiftly/internal/gateway"
	"payswiftly/internal/handler"
	internalRedis "payswiftly/internal/redis"
	"payswiftly/internal/repository/postgres"
	"payswiftly/internal/service"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, workers := wireServer(db, redisClient, nrApp, cfg)

	// Background units run under their own context, cancelled on shutdown.
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()
	workers.start(bgCtx, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	bgCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// backgroundWorkers holds the long-running units started alongside the server.
type backgroundWorkers struct {
	orchestrator *service.PayoutOrchestrator
	sweep        *service.BatchPayoutService
	reconciler   *service.WebhookReconciler
}

// start launches the payout dispatch loop, the batch payout sweep and the
// stale-collection reconciliation ticker.
func (w *backgroundWorkers) start(ctx context.Context, cfg *config.Config) {
	go w.orchestrator.Run(ctx, cfg.Payout.DispatchInterval)
	go w.sweep.RunLoop(ctx, cfg.Payout.SweepInterval, cfg.Payout.MinimumThreshold)

	go func() {
		ticker := time.NewTicker(cfg.Payout.StaleAfter)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := w.reconciler.ReconcileStalePending(ctx, cfg.Payout.StaleAfter); err != nil {
					log.Printf("stale collection sweep: %v", err)
				} else if n > 0 {
					log.Printf("stale collection sweep resolved %d transactions", n)
				}
			}
		}
	}()
}

// wireServer wires all dependencies and returns the HTTP server plus the
// background workers to start.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *backgroundWorkers) {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	driverRepo := postgres.NewDriverRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	payoutRepo := postgres.NewPayoutRepository(db)
	statsRepo := postgres.NewStatsRepository(db)
	jobRepo := postgres.NewPayoutJobRepository(db)

	// Initialize gateway client and services.
	gatewayClient := gateway.NewClient(cfg.Gateway)
	notificationService := service.NewNotificationService()
	feeCalculator := service.NewFeeCalculator(cfg.Fees)
	qrGenerator := service.NewQRGenerator(cfg.Server.BaseURL)

	transactionService := service.NewTransactionService(db, transactionRepo, driverRepo, payoutRepo, gatewayClient, feeCalculator, notificationService)
	orchestrator := service.NewPayoutOrchestrator(jobRepo, payoutRepo, transactionRepo, driverRepo, statsRepo, gatewayClient, notificationService)
	reconciler := service.NewWebhookReconciler(transactionService, transactionRepo, payoutRepo, statsRepo, lockStore, gatewayClient, orchestrator)
	sweepService := service.NewBatchPayoutService(driverRepo, payoutRepo, lockStore, gatewayClient, notificationService)
	driverService := service.NewDriverService(driverRepo, transactionRepo, payoutRepo, statsRepo, cacheStore, qrGenerator)
	authService := service.NewAuthService(driverRepo, cfg.Auth)
	statsService := service.NewStatsService(statsRepo, cacheStore)

	// Initialize handlers.
	driverHandler := handler.NewDriverHandler(driverService, authService)
	paymentHandler := handler.NewPaymentHandler(transactionService)
	webhookHandler := handler.NewWebhookHandler(reconciler, gatewayClient, cfg.Gateway.WebhookSecret != "")
	adminHandler := handler.NewAdminHandler(sweepService, statsService, cfg.Payout.MinimumThreshold)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		DriverHandler:  driverHandler,
		PaymentHandler: paymentHandler,
		WebhookHandler: webhookHandler,
		AdminHandler:   adminHandler,
		TokenParser:    authService,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	workers := &backgroundWorkers{
		orchestrator: orchestrator,
		sweep:        sweepService,
		reconciler:   reconciler,
	}

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, workers
}
