// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger for service. format "console" writes
// human-readable lines; anything else writes JSON. A nil w means stdout.
func Init(service, level, format string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := w
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	logger := zerolog.New(out).Level(lvl).With().
		Timestamp().
		Str("service", service).
		Logger()

	log.Logger = logger
	zerolog.SetGlobalLevel(lvl)
	return logger
}

// CronLogger adapts zerolog to the robfig/cron Logger interface.
type CronLogger struct {
	L zerolog.Logger
}

// Info logs routine scheduler messages at debug level.
func (c CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.L.Debug().Fields(keysAndValues).Msg(msg)
}

// Error logs scheduler failures, including recovered job panics.
func (c CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.L.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
