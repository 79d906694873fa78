package logging

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// badKey holds a trailing value that has no key, as log/slog does.
const badKey = "!BADKEY"

// DispatcherLogger lets the dispatcher and the in-memory world log through
// zerolog with slog-style key/value arguments.
type DispatcherLogger struct {
	log zerolog.Logger
}

func NewDispatcherLogger(logger zerolog.Logger) *DispatcherLogger {
	return &DispatcherLogger{log: logger}
}

func (l *DispatcherLogger) Debug(msg string, keysAndValues ...any) {
	emit(l.log.Debug(), msg, keysAndValues)
}

func (l *DispatcherLogger) Info(msg string, keysAndValues ...any) {
	emit(l.log.Info(), msg, keysAndValues)
}

func (l *DispatcherLogger) Error(msg string, keysAndValues ...any) {
	emit(l.log.Error(), msg, keysAndValues)
}

// emit writes the pairs in order. e is nil when the level is disabled.
func emit(e *zerolog.Event, msg string, kv []any) {
	if e == nil {
		return
	}
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			e.Interface(badKey, kv[i])
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		switch v := kv[i+1].(type) {
		case error:
			e.AnErr(key, v)
		case time.Duration:
			e.Dur(key, v)
		case fmt.Stringer:
			e.Stringer(key, v)
		default:
			e.Interface(key, v)
		}
	}
	e.Msg(msg)
}
