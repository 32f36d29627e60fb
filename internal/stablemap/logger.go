package stablemap

import (
	"fmt"
	"log/slog"

	"github.com/cockroachdb/pebble"
)

var _ pebble.Logger = pebbleLogger{}

// pebbleLogger routes pebble's internal messages to slog.
// Info messages are mostly compaction and WAL chatter, so they log at debug.
type pebbleLogger struct {
	logger *slog.Logger
}

func newPebbleLogger(logger *slog.Logger) pebbleLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return pebbleLogger{logger: logger.With("component", "pebble")}
}

func (l pebbleLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l pebbleLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

// Fatalf logs and panics. Pebble calls it on unrecoverable corruption and
// does not expect it to return.
func (l pebbleLogger) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.logger.Error(msg, "fatal", true)
	panic(msg)
}
