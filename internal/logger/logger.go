package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// New builds the service logger. Output format follows the runtime
// environment: JSON inside Kubernetes and in dev/prod for log aggregation,
// human-readable text locally. Every record carries the service identity, and
// records emitted with a context holding an OTel span get trace_id/span_id.
func New(service, version string) *slog.Logger {
	env := os.Getenv("ENV")
	_, inK8s := os.LookupEnv("KUBERNETES_SERVICE_HOST")
	useJSON := inK8s || env == "prod" || env == "dev"

	opts := &slog.HandlerOptions{Level: levelFromEnv(env), AddSource: useJSON}

	var inner slog.Handler
	if useJSON {
		inner = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		inner = slog.NewTextHandler(os.Stdout, opts)
	}

	base := slog.New(&recordsHandler{handler: inner, colorize: !useJSON})
	return base.With(
		slog.String("service", service),
		slog.String("version", version),
		slog.String("environment", env),
	)
}

// levelFromEnv reads LOG_LEVEL; local runs default to debug, everything else
// to info.
func levelFromEnv(env string) slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if env == "" || env == "local" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// recordsHandler decorates records on their way to the underlying handler:
// trace_id/span_id from the request context, and a red message for ERROR
// records when writing for a terminal.
type recordsHandler struct {
	handler  slog.Handler
	colorize bool
}

func (h *recordsHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *recordsHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.colorize && r.Level >= slog.LevelError {
		colored := slog.NewRecord(r.Time, r.Level, fmt.Sprintf("\x1b[31m%s\x1b[0m", r.Message), r.PC)
		r.Attrs(func(a slog.Attr) bool {
			colored.AddAttrs(a)
			return true
		})
		r = colored
	}

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	return h.handler.Handle(ctx, r)
}

func (h *recordsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recordsHandler{handler: h.handler.WithAttrs(attrs), colorize: h.colorize}
}

func (h *recordsHandler) WithGroup(name string) slog.Handler {
	return &recordsHandler{handler: h.handler.WithGroup(name), colorize: h.colorize}
}
