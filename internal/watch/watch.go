// Package watch turns writes to a data file into debounced change callbacks.
// It backs the worker when no AMQP broker is configured.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	applog "spendwise/internal/log"
)

const DefaultDebounce = 250 * time.Millisecond

// FileWatcher reports changes to a file and its siblings sharing the same name
// prefix, such as SQLite -wal and -journal files.
type FileWatcher struct {
	dir      string
	prefix   string
	debounce time.Duration
	logger   *slog.Logger
}

func NewFileWatcher(path string, debounce time.Duration, logger *slog.Logger) *FileWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FileWatcher{
		dir:      filepath.Dir(path),
		prefix:   filepath.Base(path),
		debounce: debounce,
		logger:   applog.Or(logger).With(applog.FieldComponent, applog.ComponentWorker),
	}
}

func (w *FileWatcher) matches(name string) bool {
	return strings.HasPrefix(filepath.Base(name), w.prefix)
}

// Run calls onChange once a burst of matching events has been quiet for the
// debounce period. It blocks until ctx is cancelled. onChange errors are logged.
func (w *FileWatcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.InfoContext(ctx, "Watching data file for changes", "dir", w.dir, "file", w.prefix)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if w.matches(ev.Name) && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				pending = time.Now()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			w.logger.WarnContext(ctx, "Watch error", applog.FieldError, err)
		case now := <-ticker.C:
			if pending.IsZero() || now.Sub(pending) < w.debounce {
				continue
			}
			pending = time.Time{}
			if err := onChange(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Change handler failed", applog.FieldError, err)
			}
		}
	}
}
