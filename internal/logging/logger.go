// Package logging provides the diagnostic logger used across modkill.
//
// User-facing output (tables, summaries, prompts) is written directly by the
// commands; this logger carries debug diagnostics such as abandoned subtrees
// or a restore log that could not be written. It is quiet unless debug mode
// is enabled with --verbose or the DEBUG / MODKILL_DEBUG environment variables.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the process-wide diagnostic logger.
var Logger zerolog.Logger

func init() {
	Logger = New(os.Stderr, DebugFromEnv())
}

// New builds a console logger writing to w.
func New(w io.Writer, debug bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// DebugFromEnv reports whether DEBUG or MODKILL_DEBUG is set to a non-empty value.
func DebugFromEnv() bool {
	return os.Getenv("DEBUG") != "" || os.Getenv("MODKILL_DEBUG") != ""
}

// SetDebugMode switches the process-wide logger to debug level.
func SetDebugMode() {
	Logger = Logger.Level(zerolog.DebugLevel)
}

// Debug starts a debug-level event on the process-wide logger.
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Warn starts a warn-level event on the process-wide logger.
func Warn() *zerolog.Event {
	return Logger.Warn()
}
