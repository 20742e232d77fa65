// cmd/server/main.go
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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"taskflow/internal/config"
	"taskflow/internal/notify"
	"taskflow/internal/repository"
	"taskflow/internal/server"
	"taskflow/internal/store"
	"taskflow/internal/view"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	feed := notify.NewFeed(sugar)

	taskRepo, categoryRepo, err := buildRepositories(cfg, sugar, feed)
	if err != nil {
		sugar.Fatalw("failed to build stores", "error", err)
	}

	coordinator := view.NewCoordinator(taskRepo, categoryRepo, feed, sugar)
	srv := server.New(taskRepo, categoryRepo, coordinator, feed, sugar)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		sugar.Infow("starting server", "addr", cfg.Server.Addr, "store", cfg.Store.Variant)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server stopped unexpectedly", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		sugar.Errorw("failed to shut down cleanly", "error", err)
	}
	sugar.Info("server shutdown complete")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildRepositories selects the store variant once for the whole process.
func buildRepositories(cfg *config.Config, sugar *zap.SugaredLogger, feed *notify.Feed) (*repository.TaskRepository, *repository.CategoryRepository, error) {
	switch cfg.Store.Variant {
	case config.StoreVariantRemote:
		remoteCfg := store.RemoteConfig{
			BaseURL: cfg.Store.RemoteBaseURL,
			AppID:   cfg.Store.RemoteAppID,
			APIKey:  cfg.Store.RemoteAPIKey,
		}
		taskClient := repository.NewRemoteTaskClient(remoteCfg, sugar, feed)
		categoryClient := repository.NewRemoteCategoryClient(remoteCfg, sugar, feed)
		return repository.NewTaskRepository(taskClient), repository.NewCategoryRepository(categoryClient), nil

	default:
		var taskLatency, categoryLatency store.Latency
		if cfg.Store.MockLatency {
			taskLatency = store.TaskLatency()
			categoryLatency = store.CategoryLatency()
		}
		taskClient, err := repository.NewMemoryTaskClient(taskLatency)
		if err != nil {
			return nil, nil, err
		}
		categoryClient, err := repository.NewMemoryCategoryClient(categoryLatency)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewTaskRepository(taskClient), repository.NewCategoryRepository(categoryClient), nil
	}
}
