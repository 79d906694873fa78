package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// captureStdout redirects osStdout to a pipe until the returned func is
// called, which yields what was written.
func captureStdout(t *testing.T) func() string {
	t.Helper()

	r, w, err := osPipe()
	require.NoError(t, err)

	orig := osStdout
	osStdout = w

	return func() string {
		w.Close()
		osStdout = orig
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		r.Close()
		return buf.String()
	}
}

func TestSetup_FileAndStdout(t *testing.T) {
	stdout := captureStdout(t)

	var file bytes.Buffer
	m := NewSlogManager()
	m.Setup("info", Outputs{File: &file})
	m.Logger().Info("to both")

	console := stdout()
	assert.Contains(t, console, "to both")
	assert.Contains(t, console, "handlers=2")
	assert.Contains(t, file.String(), "to both")
	assert.Contains(t, file.String(), "Logging initialized")
}

func TestSetup_StdoutWithoutFile(t *testing.T) {
	stdout := captureStdout(t)

	m := NewSlogManager()
	m.Setup("info", Outputs{})
	m.Logger().Info("to console")

	assert.Contains(t, stdout(), "to console")
}

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewSlogManager()
			m.Setup(tt.level, Outputs{File: &buf})

			m.Logger().Debug("debug line")
			m.Logger().Error("error line")

			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Contains(t, buf.String(), "error line")
		})
	}
}

func TestSetLevel_AppliesToLiveLogger(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup("info", Outputs{File: &buf})
	logger := m.Logger()

	logger.Debug("before")
	m.SetLevel("debug")
	logger.Debug("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestSetup_SecondCallSwitchesOutput(t *testing.T) {
	var first, second bytes.Buffer
	m := NewSlogManager()

	m.Setup("info", Outputs{File: &first})
	m.Logger().Info("early")
	m.Setup("info", Outputs{File: &second})
	m.Logger().Info("late")

	assert.Contains(t, first.String(), "early")
	assert.NotContains(t, first.String(), "late")
	assert.Contains(t, second.String(), "late")
}

func TestSetup_SinksGetJSON(t *testing.T) {
	var file, sink bytes.Buffer
	m := NewSlogManager()
	m.Setup("info", Outputs{File: &file, Sinks: []io.Writer{&sink, nil}})

	m.Logger().Info("wave spawned", "wave", 3)

	assert.Contains(t, file.String(), "wave spawned")
	assert.Contains(t, sink.String(), `"msg":"wave spawned"`)
	assert.Contains(t, sink.String(), `"wave":3`)
}

func TestSetup_ScenarioState(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup("info", Outputs{File: &buf})
	m.Logger().Info("before state")
	assert.NotContains(t, buf.String(), "scenario.")

	wave := 2
	m.SetState(func() int { return wave }, func() bool { return true })
	wave = 4
	m.Logger().Info("tick")

	assert.Contains(t, buf.String(), "scenario.wave=4")
	assert.Contains(t, buf.String(), "scenario.matchStarted=true")
}

func TestSetState_WhileLogging(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup("info", Outputs{File: &buf})
	logger := m.Logger()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			logger.Info("flush")
		}
	}()
	m.SetState(func() int { return 1 }, nil)
	wg.Wait()

	logger.Info("after")
	assert.Contains(t, buf.String(), "scenario.wave=1")
	assert.NotContains(t, buf.String(), "matchStarted")
}

func TestSetup_OTelProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup("info", Outputs{File: &buf, Provider: provider})

	m.Logger().Info("bridged")

	assert.Contains(t, buf.String(), "bridged")
	assert.NoError(t, m.Flush(context.Background()))
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	assert.Equal(t, slog.Default(), m.Logger())
	assert.NoError(t, m.Flush(context.Background()))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}
