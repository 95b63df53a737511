package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// StacktraceHandler is slog middleware that watches records for an error
// attribute and attaches the stack trace recorded by cockroachdb/errors.
type StacktraceHandler struct {
	next slog.Handler
}

// NewStacktraceHandler wraps next so that records carrying an error under
// ErrAttrKey gain a StacktraceAttrKey attribute with the extracted trace.
// Errors without recorded stack information pass through unchanged.
func NewStacktraceHandler(next slog.Handler) slog.Handler {
	return &StacktraceHandler{next: next}
}

func (h *StacktraceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *StacktraceHandler) Handle(ctx context.Context, r slog.Record) error {
	if trace := stacktraceFrom(r); trace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, trace))
	}
	return h.next.Handle(ctx, r)
}

func (h *StacktraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StacktraceHandler{next: h.next.WithAttrs(attrs)}
}

func (h *StacktraceHandler) WithGroup(name string) slog.Handler {
	return &StacktraceHandler{next: h.next.WithGroup(name)}
}

// stacktraceFrom scans the record for ErrAttrKey and pulls the first safe
// detail, which is where cockroachdb/errors keeps the formatted trace.
func stacktraceFrom(r slog.Record) string {
	var trace string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			details := errors.GetSafeDetails(err).SafeDetails
			if len(details) > 0 {
				trace = details[0]
			}
		}
		return false
	})
	return trace
}
