package logging

import (
	"context"
	"log/slog"
)

// StateFunc reports the live scenario state to attach to a record.
type StateFunc func() []slog.Attr

// stateGroup is the group key scenario state is logged under.
const stateGroup = "scenario"

// StateHandler attaches the current scenario state to every record it passes
// on. The state is read at log time, so records carry the wave that was
// current when they were written.
type StateHandler struct {
	next  slog.Handler
	state StateFunc
}

// NewStateHandler wraps next. A nil state passes records through unchanged.
func NewStateHandler(next slog.Handler, state StateFunc) *StateHandler {
	return &StateHandler{next: next, state: state}
}

func (h *StateHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *StateHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.state != nil {
		if attrs := h.state(); len(attrs) > 0 {
			args := make([]any, len(attrs))
			for i, a := range attrs {
				args[i] = a
			}
			r.AddAttrs(slog.Group(stateGroup, args...))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *StateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StateHandler{next: h.next.WithAttrs(attrs), state: h.state}
}

func (h *StateHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &StateHandler{next: h.next.WithGroup(name), state: h.state}
}
