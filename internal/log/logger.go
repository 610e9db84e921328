package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger and stamps every record with a component name.
type Logger struct {
	*slog.Logger
	root      *slog.Logger
	component string
}

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	Output    io.Writer
}

// DefaultConfig returns info-level text logging to stdout.
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Output:    os.Stdout,
	}
}

// New creates a logger writing text records to config.Output.
func New(config Config) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: config.Level})
	component := config.Component
	if component == "" {
		component = ComponentApp
	}
	root := slog.New(handler)
	return &Logger{
		Logger:    root.With(FieldComponent, component),
		root:      root,
		component: component,
	}
}

// WithComponent returns a logger tagged with a different component name.
func (l *Logger) WithComponent(component string) *Logger {
	root := l.root
	if root == nil {
		root = l.Logger
	}
	return &Logger{
		Logger:    root.With(FieldComponent, component),
		root:      root,
		component: component,
	}
}

// Component returns the logger's component name
func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs the logger's handler as the process default, without the
// component attribute so library code can add its own.
func SetDefault(logger *Logger) {
	if logger.root != nil {
		slog.SetDefault(logger.root)
		return
	}
	slog.SetDefault(logger.Logger)
}

// ParseLevel maps debug|info|warn|error to a slog level, falling back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ContextKey type for context keys
type ContextKey string

// LoggerContextKey is the context key for the logger
const LoggerContextKey ContextKey = "logger"

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from ctx, falling back to the process default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// Or returns l's slog.Logger, or slog.Default when l is nil.
func Or(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
