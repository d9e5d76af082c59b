package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/evcomfg/invoice-backend/internal/di"
	"github.com/evcomfg/invoice-backend/internal/handlers"
	"github.com/evcomfg/invoice-backend/internal/platform/config"
	"github.com/evcomfg/invoice-backend/internal/platform/observability"
	"github.com/evcomfg/invoice-backend/internal/services"
)

func main() {
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			baseLogger.Fatal("invalid configuration", zap.Strings("fields", invalid.Fields()))
		}
		baseLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	if cfg.App.LogLevel != "" {
		leveled, err := observability.NewLoggerWithLevel(cfg.App.LogLevel)
		if err != nil {
			baseLogger.Warn("failed to apply configured log level", zap.String("level", cfg.App.LogLevel), zap.Error(err))
		} else {
			baseLogger = leveled
		}
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("invoice")

	buildInfo := services.BuildInfo{
		Version:     cfg.App.Version,
		CommitSHA:   cfg.App.Commit,
		Environment: cfg.App.Environment,
		StartedAt:   startedAt,
	}

	container, err := di.NewContainer(cfg,
		di.WithBuildInfo(buildInfo),
		di.WithEventLogger(observability.EventLogger(logger.Named("services"), zapcore.InfoLevel)),
	)
	if err != nil {
		logger.Fatal("failed to initialise invoice pipeline", zap.Error(err))
	}

	invoiceHandlers := handlers.NewInvoiceHandlers(container.Services.Invoices,
		handlers.WithInvoiceBodyLimit(cfg.Server.MaxBodyBytes),
		handlers.WithNegativePriceRejection(cfg.Pricing.RejectNegativePrices),
		handlers.WithInvoiceRateLimit(cfg.RateLimits.InvoicePerMinute, time.Now),
	)
	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(buildInfo),
		handlers.WithHealthService(container.Services.Health),
	)

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(cfg.Tracing.ProjectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
	}

	router := handlers.NewRouter(
		handlers.WithCORS(handlers.CORSPolicy{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
			MaxAge:         cfg.CORS.MaxAge,
		}),
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithInvoiceRoutes(invoiceHandlers.Routes),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("invoice api listening",
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
