package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/jobit-client/internal/app"
	"github.com/spec-kit/jobit-client/internal/config"
	"github.com/spec-kit/jobit-client/internal/fakeapi"
	"github.com/spec-kit/jobit-client/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fake *fakeapi.Server
	if cfg.FakeAPI.Enabled {
		fake, err = fakeapi.New(fakeapi.Config{Secret: cfg.FakeAPI.Secret, Logger: logger})
		if err != nil {
			logger.Fatal("failed to build fake api", zap.Error(err))
		}
		go func() {
			if err := fake.Listen(cfg.FakeAPI.Addr()); err != nil {
				logger.Fatal("fake api listen", zap.Error(err))
			}
		}()
	}

	client, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to start client", zap.Error(err))
	}

	go func() {
		if err := client.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := client.Close(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	if fake != nil {
		_ = fake.Shutdown(shutdownCtx)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
