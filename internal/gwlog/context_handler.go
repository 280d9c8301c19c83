// Package gwlog wires the gateway's structured logging: a slog.Handler
// that pulls a request id out of context automatically, and the
// http.Handler middleware that puts it there in the first place.
package gwlog

import (
	"context"
	"log/slog"
)

// ContextHandler wraps a base slog.Handler and enriches every record with
// the request id the RequestID middleware stashed in context, so handlers
// and background goroutines can log through slog.InfoContext/ErrorContext
// without threading the id through every call explicitly.
//
// Usage in cmd/wdxgwd:
//
//	base := slog.NewJSONHandler(os.Stdout, nil)
//	slog.SetDefault(slog.New(gwlog.NewContextHandler(base)))
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler wraps inner.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if id := RequestIDFromContext(ctx); id != "" {
		record.AddAttrs(slog.String("request_id", id))
	}
	return h.inner.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}
