// ABOUTME: Structured logging for nourish with a rotating log file.
// ABOUTME: Quiet on stderr unless debug is enabled.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger.
type Options struct {
	Debug bool
	// File is the log file path; empty disables file output.
	File string
	// Stderr receives debug output; defaults to os.Stderr.
	Stderr io.Writer
}

// Logger wraps a charm logger and the file writer behind it.
type Logger struct {
	*log.Logger
	file *lumberjack.Logger
}

// New creates a logger. Warnings and errors go to the file; with Debug,
// everything also goes to stderr.
func New(opts Options) (*Logger, error) {
	var writers []io.Writer
	var file *lumberjack.Logger

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
			return nil, err
		}
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		writers = append(writers, file)
	}

	level := log.WarnLevel
	if opts.Debug {
		level = log.DebugLevel
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writers = append(writers, stderr)
	}

	var w io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    opts.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "nourish",
	})
	return &Logger{Logger: l, file: file}, nil
}

// Discard returns a logger that writes nowhere.
func Discard() *Logger {
	return &Logger{Logger: log.New(io.Discard)}
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
