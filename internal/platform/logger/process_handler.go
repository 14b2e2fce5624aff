package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ProcessHandler is a slog.Handler that adds process metadata (pid, worker
// id, role) to every record. The supervisor and each worker run as separate
// processes writing to the same stream, so records must say who wrote them.
type ProcessHandler struct {
	handler  slog.Handler
	metadata []slog.Attr
}

// NewProcessHandler creates a ProcessHandler that wraps a JSON handler
// writing to out. The current pid is always included.
func NewProcessHandler(out io.Writer, opts *slog.HandlerOptions, meta ...slog.Attr) *ProcessHandler {
	var handlerOpts slog.HandlerOptions
	if opts != nil {
		handlerOpts = *opts
	}

	metadata := make([]slog.Attr, 0, len(meta)+1)
	metadata = append(metadata, slog.Int("pid", os.Getpid()))
	metadata = append(metadata, meta...)

	return &ProcessHandler{
		handler:  slog.NewJSONHandler(out, &handlerOpts),
		metadata: metadata,
	}
}

// Enabled implements the slog.Handler interface.
func (h *ProcessHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface.
func (h *ProcessHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ProcessHandler{
		handler:  h.handler.WithAttrs(attrs),
		metadata: h.metadata,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *ProcessHandler) WithGroup(name string) slog.Handler {
	return &ProcessHandler{
		handler:  h.handler.WithGroup(name),
		metadata: h.metadata,
	}
}

// Handle implements the slog.Handler interface.
func (h *ProcessHandler) Handle(ctx context.Context, record slog.Record) error {
	enhanced := record.Clone()
	enhanced.AddAttrs(h.metadata...)
	return h.handler.Handle(ctx, enhanced)
}
