// Package logging provides the leveled logger used across naeonm. It keeps
// a printf-style API on top of zerolog: a human console stream on
// stdout/stderr and, optionally, the same events as JSON lines in a file.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hkteamnoob/naeonm/internal/config"
	"github.com/hkteamnoob/naeonm/internal/term"
)

const consoleTimeFormat = "2006-01-02 15:04:05"

// Logger provides leveled, optionally colored logging with an optional
// file sink. Child loggers from With share the sink; only the root closes it.
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

// NewLogger configures terminal colors from cfg and optionally opens the
// log file. Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.Logging.Color)

	var file *os.File
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		file = f
	}

	l := newLogger(os.Stdout, os.Stderr, file, term.Enabled(), cfg.Logging.Verbose)
	l.file = file
	return l, nil
}

// New returns an uncolored logger writing every level to w.
func New(w io.Writer, verbose bool) *Logger {
	return newLogger(w, w, nil, false, verbose)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// newLogger wires the writers. sink may be nil.
func newLogger(out, errOut io.Writer, sink io.Writer, color, verbose bool) *Logger {
	console := func(w io.Writer) zerolog.ConsoleWriter {
		return zerolog.ConsoleWriter{Out: w, NoColor: !color, TimeFormat: consoleTimeFormat}
	}
	var w io.Writer = splitWriter{out: console(out), err: console(errOut)}
	if sink != nil {
		w = zerolog.MultiLevelWriter(w, sink)
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return &Logger{zl: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// With returns a child logger that tags every event with key=value.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Success logs a completed step at INFO level with status=ok.
func (l *Logger) Success(format string, args ...interface{}) {
	l.zl.Info().Str("status", "ok").Msgf(format, args...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs at ERROR level, on stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// Debug logs at DEBUG level; dropped unless verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// splitWriter sends errors to the error console and everything else to the
// normal one.
type splitWriter struct {
	out, err io.Writer
}

func (s splitWriter) Write(p []byte) (int, error) { return s.out.Write(p) }

func (s splitWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.ErrorLevel {
		return s.err.Write(p)
	}
	return s.out.Write(p)
}
