package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/jobit-client/internal/config"
)

// Open builds the store selected by cfg.Driver, sealed when a secret is configured.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case "memory":
		store = NewMemoryStore()
	case "", "file":
		store, err = NewFileStore(cfg.Path)
	case "sqlite":
		store, err = NewSQLite(cfg.Path)
	case "postgres":
		store, err = NewPostgres(ctx, cfg, logger)
	case "redis":
		store = NewRedis(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}

	if cfg.Secret == "" {
		return store, nil
	}
	sealed, err := NewSealed(store, cfg.Secret)
	if err != nil {
		store.Close() //nolint:errcheck
		return nil, err
	}
	logger.Info("session storage sealed at rest", zap.String("driver", cfg.Driver))
	return sealed, nil
}
