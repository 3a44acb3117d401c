package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/domaingen/api/internal/config"
	"github.com/domaingen/api/internal/eventbus"
	"github.com/domaingen/api/internal/generation"
	"github.com/domaingen/api/internal/llm"
	"github.com/domaingen/api/internal/telemetry"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	serviceName    = "domaingen-api"
	serviceVersion = "0.1.0"
)

// @title Domain Name Suggestion API
// @version 0.1.0
// @description Suggests domain names for a business description using a locally served model.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger with stdout sync
	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("domaingen API starting...",
		zap.String("version", serviceVersion),
		zap.String("environment", cfg.Environment),
	)

	shutdownTelemetry, err := telemetry.InitTracer(ctx, serviceName, serviceVersion, cfg.OTLPEndpoint)
	if err != nil {
		// Log but don't fail, as collector might be down
		logger.Error("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTelemetry(ctx); err != nil {
				logger.Error("failed to shutdown telemetry", zap.Error(err))
			}
		}()
	}

	// The model must be present before serving; there is no lazy load.
	logger.Info("Loading model...",
		zap.String("backend", cfg.Model.Backend),
		zap.String("model", cfg.Model.Name),
	)
	model, err := llm.Load(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to load model", zap.Error(err))
	}

	opts := []generation.Option{}
	if cfg.NATSURL != "" {
		publisher, err := eventbus.Connect(cfg.NATSURL, cfg.NATSSubjectPrefix, logger)
		if err != nil {
			logger.Error("failed to connect to NATS, outcome events disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			opts = append(opts, generation.WithPublisher(publisher))
		}
	}
	service := generation.NewService(model, logger, opts...)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(service, model, cfg.CORSAllowedOrigins, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}
