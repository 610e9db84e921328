package backend

import (
	"context"
	"fmt"
	"log/slog"

	"spendwise/internal/kv/memory"
	applog "spendwise/internal/log"
	"spendwise/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	return &DefaultFactory{
		logger: applog.Or(logger).With(applog.FieldComponent, applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		applog.FieldBackend, config.Type.String(),
		"db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	var store *memory.Store
	if config.DataDirectory != "" {
		store = memory.NewFromDir(config.DataDirectory)
	} else {
		store = memory.New()
	}

	f.logger.InfoContext(ctx, "Initialized memory backend",
		applog.FieldBackend, config.Type.String(),
		"data_directory", config.DataDirectory)

	return &BackendResult{Store: store}, nil
}
