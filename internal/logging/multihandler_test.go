package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink down")
}

func textHandler(buf *bytes.Buffer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	slog.New(NewMultiHandler(textHandler(&a, slog.LevelInfo), textHandler(&b, slog.LevelInfo))).Info("both")

	assert.Contains(t, a.String(), "both")
	assert.Contains(t, b.String(), "both")
}

func TestMultiHandler_PerHandlerLevel(t *testing.T) {
	var info, debug bytes.Buffer
	multi := NewMultiHandler(textHandler(&info, slog.LevelInfo), textHandler(&debug, slog.LevelDebug))

	assert.True(t, multi.Enabled(context.Background(), slog.LevelDebug))
	slog.New(multi).Debug("detail")

	assert.Empty(t, info.String())
	assert.Contains(t, debug.String(), "detail")
}

func TestMultiHandler_NilAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(nil, textHandler(&buf, slog.LevelInfo), nil)
	require.Len(t, multi.handlers, 1)

	assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelError))
}

func TestMultiHandler_FailingSinkDoesNotBlockOthers(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(failingHandler{}, textHandler(&buf, slog.LevelInfo))

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "delivered", 0)
	err := multi.Handle(context.Background(), r)

	assert.EqualError(t, err, "sink down")
	assert.Contains(t, buf.String(), "delivered")
}

func TestMultiHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(textHandler(&buf, slog.LevelInfo))

	slog.New(multi.WithAttrs([]slog.Attr{slog.String("component", "worker")})).Info("a")
	slog.New(multi.WithGroup("grp")).Info("b", "key", "val")

	assert.Contains(t, buf.String(), "component=worker")
	assert.Contains(t, buf.String(), "grp.key=val")
	assert.Same(t, multi, multi.WithGroup(""))
}
