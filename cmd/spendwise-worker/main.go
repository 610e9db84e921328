package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"spendwise/internal/amqp"
	"spendwise/internal/cli"
	"spendwise/internal/config"
	"spendwise/internal/records"
	"spendwise/internal/views"
	"spendwise/internal/watch"
	"spendwise/internal/worker"
)

const reloadInterval = 5 * time.Minute

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting spendwise-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.AMQPEnabled() && cfg.DataBackend != config.BackendSQLite {
		logger.Error("Worker needs AMQP_URL or the sqlite backend to observe changes")
		os.Exit(1)
	}

	res := cli.OpenBackend(context.Background(), logger, cfg)
	defer res.Close()

	// The worker only reads, so its store does not publish changes.
	store := records.NewStore(res.Store, records.WithLogger(logger))
	dashboard := views.NewDashboard(store, nil, views.DashboardConfig{
		PageSize:      cfg.PageSize,
		TopCategories: cfg.TopCategories,
		Recent:        cfg.RecentTransactions,
	}, logger)
	reloadWorker := worker.NewReloadWorker(dashboard, logger)

	var amqpClient *amqp.Client
	if cfg.AMQPEnabled() {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if amqpClient == nil {
			return
		}
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Error closing AMQP client", "error", err)
		}
	})

	if err := reloadWorker.StartupReload(ctx); err != nil {
		logger.Error("Startup reload failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if amqpClient != nil {
		g.Go(func() error {
			return amqpClient.ConsumeWithRetry(gctx, reloadWorker.HandleChange)
		})
	} else {
		fw := watch.NewFileWatcher(cfg.SQLiteDBPath, watch.DefaultDebounce, logger)
		g.Go(func() error {
			return fw.Run(gctx, reloadWorker.Reload)
		})
	}
	g.Go(func() error {
		return reloadWorker.PeriodicReload(gctx, reloadInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", "error", err)
		os.Exit(1)
	}
	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
