// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

// Package logging holds the process-wide zerolog logger for UrbanWaste.
//
// The store, the backend client and the gateway all log through it, so
// they share one level, one format and the request context fields.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Str("entity", "points").Int("count", n).Msg("Fetched")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Backend call failed")
//
// An event is only written once Msg or Send is called on it.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level, encoding and decoration of log lines.
type Config struct {
	Level     string    // trace, debug, info, warn, error, fatal or disabled
	Format    string    // json or console
	Caller    bool      // add file:line
	Timestamp bool      // add the time field
	Output    io.Writer // os.Stderr when nil
}

// DefaultConfig is JSON at info level with timestamps on stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Timestamp: true, Output: os.Stderr}
}

// levels maps accepted level names, including aliases.
var levels = map[string]zerolog.Level{
	"trace":    zerolog.TraceLevel,
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"fatal":    zerolog.FatalLevel,
	"disabled": zerolog.Disabled,
	"off":      zerolog.Disabled,
}

var (
	mu     sync.RWMutex
	global zerolog.Logger
)

//nolint:gochecknoinits // packages log before main calls Init
func init() {
	global = build(DefaultConfig())
}

// Init replaces the global logger with one built from cfg.
func Init(cfg Config) {
	l := build(cfg)
	mu.Lock()
	global = l
	mu.Unlock()
}

func build(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	ctx := zerolog.New(out).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// parseLevel falls back to info for unknown names.
func parseLevel(name string) zerolog.Level {
	if lvl, ok := levels[strings.ToLower(name)]; ok {
		return lvl
	}
	return zerolog.InfoLevel
}

// ValidLevel reports whether name is an accepted level.
func ValidLevel(name string) bool {
	_, ok := levels[strings.ToLower(name)]
	return ok
}

func current() *zerolog.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	return &l
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	return *current()
}

// SetLogger swaps the global logger, typically to capture output in tests.
//
//nolint:gocritic // zerolog.Logger is a value type
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	global = l
	mu.Unlock()
}

// With starts a child logger context.
func With() zerolog.Context { return current().With() }

// WithComponent returns a child logger carrying a component field.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}

func Debug() *zerolog.Event { return current().Debug() }
func Info() *zerolog.Event  { return current().Info() }
func Warn() *zerolog.Event  { return current().Warn() }
func Error() *zerolog.Event { return current().Error() }

// Fatal exits the process with status 1 once the event is sent.
func Fatal() *zerolog.Event { return current().Fatal() }

// Err logs at error level, or at info when err is nil.
func Err(err error) *zerolog.Event { return current().Err(err) }

// NewTestLogger writes JSON lines with timestamps to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
