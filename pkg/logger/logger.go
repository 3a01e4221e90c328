package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
)

var (
	//nolint:gochecknoglobals // Global logger is intentional for application-wide logging
	defaultLogger *slog.Logger
	//nolint:gochecknoglobals // Global initOnce is intentional for thread-safe initialization
	initOnce sync.Once
	//nolint:gochecknoglobals // Global addSource is intentional for configuration
	addSource bool
)

// otelHandler wraps a slog.Handler to add OpenTelemetry trace context to logs.
type otelHandler struct {
	slog.Handler
}

func (h *otelHandler) Handle(ctx context.Context, r slog.Record) error {
	span := trace.SpanFromContext(ctx)
	spanCtx := span.SpanContext()
	if spanCtx.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
		if spanCtx.IsSampled() {
			r.AddAttrs(slog.Bool("trace_sampled", true))
		}
	}
	return h.Handler.Handle(ctx, r)
}

// InitLogger initializes the global logger writing to stdout.
// It is safe to call multiple times, but only the first call will take effect.
func InitLogger(level, format string, enableSource bool) {
	InitLoggerWithWriter(os.Stdout, level, format, enableSource)
}

// InitLoggerWithWriter is InitLogger with an explicit destination.
func InitLoggerWithWriter(w io.Writer, level, format string, enableSource bool) {
	initOnce.Do(func() {
		addSource = enableSource

		var handler slog.Handler
		if format == "json" {
			handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level:     parseLevel(level),
				AddSource: addSource,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{
							Key:   "timestamp",
							Value: a.Value,
						}
					}
					return a
				},
			})
		} else {
			handler = slog.NewTextHandler(w, &slog.HandlerOptions{
				Level:     parseLevel(level),
				AddSource: addSource,
			})
		}

		// Wrap handler with OpenTelemetry trace context integration.
		defaultLogger = slog.New(&otelHandler{Handler: handler})
	})
}

// Secret renders a sensitive value as its length only.
func Secret(key, value string) slog.Attr {
	if value == "" {
		return slog.String(key, "<unset>")
	}
	return slog.String(key, fmt.Sprintf("<redacted:%d>", len(value)))
}

// InfoContext logs at Info level with context.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAt(ctx, slog.LevelInfo, msg, attrs...)
}

// DebugContext logs at Debug level with context.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAt(ctx, slog.LevelDebug, msg, attrs...)
}

// WarnContext logs at Warn level with context.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAt(ctx, slog.LevelWarn, msg, attrs...)
}

// ErrorContext logs at Error level with context.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAt(ctx, slog.LevelError, msg, attrs...)
}

// logAt must be called directly from an exported helper so the recorded
// source points at the helper's caller.
func logAt(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if defaultLogger == nil {
		return
	}

	handler := defaultLogger.Handler()
	if !handler.Enabled(ctx, level) {
		return
	}

	var pc uintptr
	if addSource {
		var pcs [1]uintptr
		// Skip runtime.Callers, logAt and the exported helper.
		runtime.Callers(3, pcs[:])
		pc = pcs[0]
	}

	r := slog.NewRecord(time.Now(), level, msg, pc)
	r.AddAttrs(attrs...)
	_ = handler.Handle(ctx, r)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
