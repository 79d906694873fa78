package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// swapped by tests
var (
	osStdout = os.Stdout
	osPipe   = os.Pipe
)

const instrumentationName = "samurai-practice"

// Outputs selects where records go.
type Outputs struct {
	// File receives text records alongside stdout. Nil means stdout only.
	File io.Writer

	// Sinks receive JSON records, e.g. a GELF writer. Nil entries are skipped.
	Sinks []io.Writer

	// Provider, when set, bridges records into the OTel log pipeline.
	Provider *sdklog.LoggerProvider
}

// SlogManager owns the process logger. Setup can be called again once the
// session log file and OTel pipeline exist; the level survives re-setup and
// can be changed at runtime.
type SlogManager struct {
	logger      *slog.Logger
	level       slog.LevelVar
	logProvider *sdklog.LoggerProvider

	// Scenario state, read on every record once SetState has run.
	state atomic.Pointer[scenarioState]
}

type scenarioState struct {
	wave         func() int
	matchStarted func() bool
}

func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel accepts slog level names in any case. Unknown names mean info.
func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// SetLevel changes the level of the current logger in place.
func (m *SlogManager) SetLevel(level string) {
	m.level.Set(parseLevel(level))
}

// Setup builds a fresh logger. Loggers handed out before keep writing to
// their old outputs.
func (m *SlogManager) Setup(level string, out Outputs) {
	m.level.Set(parseLevel(level))
	m.logProvider = out.Provider

	opts := &slog.HandlerOptions{
		Level: &m.level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if t, ok := a.Value.Any().(time.Time); ok && a.Key == slog.TimeKey {
				a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
			}
			return a
		},
	}

	handlers := []slog.Handler{slog.NewTextHandler(osStdout, opts)}
	if out.File != nil {
		handlers = append(handlers, slog.NewTextHandler(out.File, opts))
	}
	for _, sink := range out.Sinks {
		if sink != nil {
			handlers = append(handlers, slog.NewJSONHandler(sink, opts))
		}
	}
	if out.Provider != nil {
		handlers = append(handlers, otelslog.NewHandler(instrumentationName, otelslog.WithLoggerProvider(out.Provider)))
	}

	m.logger = slog.New(NewStateHandler(NewMultiHandler(handlers...), m.stateAttrs))
	m.logger.Info("Logging initialized", "level", m.level.Level().String(), "handlers", len(handlers))
}

// SetState attaches scenario state to every record. It is safe to call
// while other goroutines are logging. Nil funcs are omitted.
func (m *SlogManager) SetState(wave func() int, matchStarted func() bool) {
	m.state.Store(&scenarioState{wave: wave, matchStarted: matchStarted})
}

func (m *SlogManager) stateAttrs() []slog.Attr {
	st := m.state.Load()
	if st == nil {
		return nil
	}
	var attrs []slog.Attr
	if st.matchStarted != nil {
		attrs = append(attrs, slog.Bool("matchStarted", st.matchStarted()))
	}
	if st.wave != nil {
		attrs = append(attrs, slog.Int("wave", st.wave()))
	}
	return attrs
}

// Logger returns slog.Default until Setup has run.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush exports pending OTel records.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider == nil {
		return nil
	}
	return m.logProvider.ForceFlush(ctx)
}
