package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neurobudget/neurobudget-api/internal/config"
	"github.com/neurobudget/neurobudget-api/internal/handler"
	"github.com/neurobudget/neurobudget-api/internal/infra/cache"
	"github.com/neurobudget/neurobudget-api/internal/infra/observability"
	"github.com/neurobudget/neurobudget-api/internal/infra/resilience"
	"github.com/neurobudget/neurobudget-api/internal/infra/sqlite"
	"github.com/neurobudget/neurobudget-api/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("db_path", cfg.DBPath),
		zap.Int("max_writers", cfg.MaxWriters),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("identity_cache_ttl", cfg.IdentityCacheTTL),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
		zap.Duration("jwt_refresh_ttl", cfg.JWTRefreshTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "neurobudget-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Identity cache ---
	identities := cache.New[string](cfg.IdentityCacheTTL)

	// --- Store ---
	retryCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
	}
	store, err := sqlite.Open(cfg.DBPath, cfg.MaxWriters, retryCfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	authSvc := service.NewAuthService(store, tokens, logger)
	ledgerSvc := service.NewLedgerService(store, metrics, logger)
	txnSvc := service.NewTransactionService(store, metrics, logger)
	cashflowSvc := service.NewCashflowService(store, ledgerSvc, txnSvc, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Services{
		Auth:     authSvc,
		Ledger:   ledgerSvc,
		Txns:     txnSvc,
		Cashflow: cashflowSvc,
		Tokens:   tokens,
		Users:    store,
	}, identities, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
