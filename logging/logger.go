// Package logging builds the process logger handed to every service component.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rpupo63/blog-platform/config"
)

const timeFormat = "2006-01-02 15:04:05"

// Logger owns the zerolog logger and any files it writes to.
type Logger struct {
	zerolog.Logger
	files []*os.File
}

// New constructs the logger for cfg. Outside production, console output is human readable.
// With LOG_DIR set, info and above also go to info.log and errors to error.log.
func New(cfg config.Config) (*Logger, error) {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg config.Config, stdout io.Writer) (*Logger, error) {
	level, err := parseLevel(cfg)
	if err != nil {
		return nil, err
	}

	var console io.Writer = stdout
	if !cfg.IsProduction() {
		console = zerolog.ConsoleWriter{Out: stdout, TimeFormat: timeFormat}
	}

	writers := []io.Writer{console}
	l := &Logger{}

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}

		for _, sink := range []struct {
			name  string
			level zerolog.Level
		}{
			{"info.log", zerolog.InfoLevel},
			{"error.log", zerolog.ErrorLevel},
		} {
			f, err := os.OpenFile(filepath.Join(cfg.LogDir, sink.name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				l.Close()
				return nil, fmt.Errorf("open %s: %w", sink.name, err)
			}
			l.files = append(l.files, f)
			writers = append(writers, minLevelWriter{w: f, min: sink.level})
		}
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.Service).
		Logger()

	return l, nil
}

// Close releases the log files.
func (l *Logger) Close() error {
	var errList []error
	for _, f := range l.files {
		if err := f.Close(); err != nil {
			errList = append(errList, err)
		}
	}
	l.files = nil
	return errors.Join(errList...)
}

func parseLevel(cfg config.Config) (zerolog.Level, error) {
	if cfg.LogLevel == "" {
		if cfg.IsProduction() {
			return zerolog.InfoLevel, nil
		}
		return zerolog.DebugLevel, nil
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	return level, nil
}

// minLevelWriter drops events below min.
type minLevelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (m minLevelWriter) Write(p []byte) (int, error) {
	return m.w.Write(p)
}

func (m minLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < m.min {
		return len(p), nil
	}
	return m.w.Write(p)
}

// Nop returns a logger that discards everything, for tests.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}
