package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"spendwise/internal/amqp"
	applog "spendwise/internal/log"
	"spendwise/internal/views"
)

// Reloader rebuilds a summary from the record store.
type Reloader interface {
	Load(ctx context.Context) (*views.DashboardView, error)
}

// ReloadWorker refreshes the dashboard summary whenever a change message arrives.
// Every message triggers a full reload; message contents only feed the logs.
type ReloadWorker struct {
	dashboard Reloader
	logger    *slog.Logger

	mu      sync.Mutex
	last    *views.DashboardView
	reloads int
}

func NewReloadWorker(dashboard Reloader, logger *slog.Logger) *ReloadWorker {
	return &ReloadWorker{
		dashboard: dashboard,
		logger:    applog.Or(logger).With(applog.FieldComponent, applog.ComponentWorker),
	}
}

// HandleChange processes a single change message from AMQP
func (w *ReloadWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	w.logger.InfoContext(ctx, "Processing change message",
		applog.FieldCollection, msg.Collection,
		applog.FieldRecordID, msg.RecordID,
		applog.FieldOperation, string(msg.Operation))

	if err := w.reload(ctx); err != nil {
		return fmt.Errorf("reload after %s %s/%s: %w", msg.Operation, msg.Collection, msg.RecordID, err)
	}
	return nil
}

// StartupReload builds the initial summary before messages are consumed.
func (w *ReloadWorker) StartupReload(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Performing startup reload", applog.FieldOperation, applog.OpStartup)
	return w.reload(ctx)
}

// Reload rebuilds the summary without a triggering message, e.g. after a file change.
func (w *ReloadWorker) Reload(ctx context.Context) error {
	return w.reload(ctx)
}

func (w *ReloadWorker) reload(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	view, err := w.dashboard.Load(ctx)
	if err != nil {
		return err
	}
	w.last = view
	w.reloads++

	attrs := []any{
		"total_spent", view.TotalSpent,
		"transactions", view.TransactionCount,
		"receipts", view.ReceiptCount,
		applog.FieldDuration, time.Since(start).Milliseconds(),
	}
	if len(view.TopCategories) > 0 {
		attrs = append(attrs, "top_category", view.TopCategories[0].Category.ID)
	}
	w.logger.InfoContext(ctx, "Summary refreshed", attrs...)
	return nil
}

// Last returns the most recent summary and how many reloads produced it.
func (w *ReloadWorker) Last() (*views.DashboardView, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.reloads
}

// PeriodicReload reloads on every tick to pick up changes whose messages were lost.
// It returns when ctx is cancelled. Reload errors are logged, not returned.
func (w *ReloadWorker) PeriodicReload(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.reload(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic reload failed", applog.FieldError, err)
			}
		}
	}
}
