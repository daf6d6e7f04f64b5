package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lingopath/backend/internal/config"
	"github.com/lingopath/backend/internal/llm"
	"github.com/lingopath/backend/internal/logger"
	"github.com/lingopath/backend/internal/repositories"
	"github.com/lingopath/backend/internal/retry"
	"github.com/lingopath/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}

	os.Exit(run(cfg))
}

// run generates every configured path and returns the process exit code
func run(cfg *config.Config) int {
	defer logger.Sync()

	paths, err := config.LoadPaths(cfg.Paths.File)
	if err != nil {
		logger.Logger.Error("Failed to load course paths", zap.Error(err))
		return 1
	}

	// Cancel the run on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the store
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	store, closeStore, err := repositories.Open(connectCtx, cfg.Store, logger.Logger)
	cancel()
	if err != nil {
		logger.Logger.Error("Failed to open store", zap.Error(err))
		return 1
	}
	defer closeStore()

	// Initialize model gateway and retry controller
	gen, err := llm.NewGenerator(llm.Options{
		Provider: cfg.Model.Provider,
		APIKey:   cfg.Model.APIKey,
		Model:    cfg.Model.Name,
		BaseURL:  cfg.Model.BaseURL,
		Timeout:  cfg.Model.Timeout,
	})
	if err != nil {
		logger.Logger.Error("Failed to create model client", zap.Error(err))
		return 1
	}
	gateway := llm.NewGateway(gen, logger.Logger)
	ctrl := retry.NewController(
		retry.NewScheduler(cfg.Model.CallDelay, cfg.Model.RequestsPerMinute),
		retry.Config{
			MaxAttempts:    cfg.Model.MaxAttempts,
			InitialBackoff: cfg.Model.RetryBackoff,
		},
		logger.Logger,
	)

	logger.Logger.Info("Starting course generation",
		zap.String("store", cfg.Store.Driver),
		zap.String("model", gen.Model()),
		zap.Int("paths", len(paths)),
	)

	pipeline := services.NewGenerationPipeline(gateway, ctrl, store, logger.Logger)
	report, err := pipeline.Run(ctx, paths)
	report.Log(logger.Logger)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Logger.Warn("Generation interrupted")
		} else {
			logger.Logger.Error("Generation failed", zap.Error(err))
		}
		return 1
	}

	return 0
}
