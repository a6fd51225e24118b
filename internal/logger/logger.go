package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

const defaultLevel = slog.LevelWarn

// Logger is the logging surface used by the runtime.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// LogCtx logs with attributes, adding trace/span ids when ctx carries a span.
	LogCtx(ctx context.Context, level slog.Level, msg string, args ...any)

	With(args ...any) Logger
	IsEnabled(level slog.Level) bool
}

// ParseLevel converts a case-insensitive level name to a slog.Level.
// Unknown names fall back to WARN.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return defaultLevel
	}
}

type defaultLogger struct {
	*slog.Logger
}

var _ Logger = (*defaultLogger)(nil)

// New creates a Logger writing to w (stderr when nil) in "text" or "json" format.
func New(level, format string, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: replaceLevelAttribute,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return &defaultLogger{Logger: slog.New(NewOtelHandler(handler))}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &defaultLogger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

var levelNames = map[slog.Level]string{
	slog.LevelDebug: "DEBUG",
	slog.LevelInfo:  "INFO",
	slog.LevelWarn:  "WARN",
	slog.LevelError: "ERROR",
}

func replaceLevelAttribute(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	name, ok := levelNames[level]
	if !ok {
		name = level.String()
	}
	a.Value = slog.StringValue(name)

	return a
}

func (l *defaultLogger) logf(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !l.Logger.Enabled(ctx, level) {
		return
	}

	var attrs []any
	if n := len(args); n > 0 {
		if err, ok := args[n-1].(error); ok {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
	}

	l.Logger.Log(ctx, level, fmt.Sprintf(format, args...), attrs...)
}

func (l *defaultLogger) Debugf(format string, args ...any) { l.logf(slog.LevelDebug, format, args...) }
func (l *defaultLogger) Infof(format string, args ...any)  { l.logf(slog.LevelInfo, format, args...) }
func (l *defaultLogger) Warnf(format string, args ...any)  { l.logf(slog.LevelWarn, format, args...) }
func (l *defaultLogger) Errorf(format string, args ...any) { l.logf(slog.LevelError, format, args...) }

func (l *defaultLogger) LogCtx(ctx context.Context, level slog.Level, msg string, args ...any) {
	l.Logger.Log(ctx, level, msg, args...)
}

func (l *defaultLogger) With(args ...any) Logger {
	return &defaultLogger{Logger: l.Logger.With(args...)}
}

func (l *defaultLogger) IsEnabled(level slog.Level) bool {
	return l.Logger.Enabled(context.Background(), level)
}

// OtelHandler injects trace_id and span_id into records logged with a span context.
type OtelHandler struct {
	next slog.Handler
}

func NewOtelHandler(next slog.Handler) *OtelHandler {
	return &OtelHandler{next: next}
}

func (h *OtelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *OtelHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	return h.next.Handle(ctx, record)
}

func (h *OtelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewOtelHandler(h.next.WithAttrs(attrs))
}

func (h *OtelHandler) WithGroup(name string) slog.Handler {
	return NewOtelHandler(h.next.WithGroup(name))
}
