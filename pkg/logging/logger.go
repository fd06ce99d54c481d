package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger provides structured logging for browserkit components.
// Entries are written to a run-specific file in ~/.browserkit/logs/ unless
// file logging cannot be set up, in which case they go to stderr.
type Logger struct {
	runID     string
	component string
	file      *os.File
	base      *logrus.Logger
	entry     *logrus.Entry
	logPath   string
	closeOnce sync.Once
}

var (
	// Run ID shared by every logger created in this process
	runID     string
	runIDOnce sync.Once

	// logDir is the directory where log files are stored
	logDir string

	initOnce sync.Once
	initErr  error
)

func getRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// SetDirectory overrides the log directory. It must be called before the
// first logger is created to take effect.
func SetDirectory(dir string) {
	if dir == "" {
		return
	}
	logDir = dir
}

// initLogDirectory ensures the log directory exists
func initLogDirectory() error {
	initOnce.Do(func() {
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				initErr = fmt.Errorf("failed to get home directory: %w", err)
				return
			}
			logDir = filepath.Join(homeDir, ".browserkit", "logs")
		}

		if err := os.MkdirAll(logDir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}
	})
	return initErr
}

// NewLogger creates a new logger for a specific component.
// The logger writes to <log dir>/<run-id>-browserkit.log.
//
// If the log file cannot be opened it returns a logger writing to stderr
// together with the error, so callers can warn about the fallback.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, err), err
	}

	id := getRunID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-browserkit.log", id))

	// Several components append to the same file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, err), err
	}

	l := newLogger(component, file)
	l.file = file
	l.logPath = logPath
	return l, nil
}

// NullLogger returns a logger that discards everything.
func NullLogger() *Logger {
	return newLogger("null", io.Discard)
}

// NewWriterLogger returns a logger writing to w. Mostly useful in tests.
func NewWriterLogger(component string, w io.Writer) *Logger {
	return newLogger(component, w)
}

func newLogger(component string, w io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	return &Logger{
		runID:     getRunID(),
		component: component,
		base:      base,
		entry:     base.WithField("component", component),
	}
}

// newFallbackLogger creates a logger that writes to stderr when file logging fails
func newFallbackLogger(component string, err error) *Logger {
	l := newLogger(component, os.Stderr)
	l.entry.Warnf("failed to initialize file logging: %v", err)
	l.entry.Warn("falling back to stderr logging")
	return l
}

// SetVerbosity maps a verbosity name (quiet, normal, verbose, debug) or a
// logrus level name onto the logger.
func (l *Logger) SetVerbosity(verbosity string) error {
	level, err := ParseVerbosity(verbosity)
	if err != nil {
		return err
	}
	l.base.SetLevel(level)
	return nil
}

// ParseVerbosity converts a verbosity name to a logrus level.
func ParseVerbosity(verbosity string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(verbosity)) {
	case "", "normal":
		return logrus.InfoLevel, nil
	case "quiet":
		return logrus.WarnLevel, nil
	case "verbose", "debug":
		return logrus.DebugLevel, nil
	}
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log verbosity %q: %w", verbosity, err)
	}
	return level, nil
}

// With returns a child logger carrying an extra field.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{
		runID:     l.runID,
		component: l.component,
		base:      l.base,
		entry:     l.entry.WithField(key, value),
		logPath:   l.logPath,
	}
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// DebugMode returns true if the logger level is set to Debug or higher.
func (l *Logger) DebugMode() bool {
	return l.base.GetLevel() >= logrus.DebugLevel
}

// Writer returns an io.Writer that writes to this logger's destination
func (l *Logger) Writer() io.Writer {
	return l.base.Out
}

// RunID returns the ID shared by all loggers in this process
func (l *Logger) RunID() string {
	return l.runID
}

// LogPath returns the path to the log file, empty when not logging to a file
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}

// GetLogDirectory returns the directory where logs are stored
func GetLogDirectory() (string, error) {
	if err := initLogDirectory(); err != nil {
		return "", err
	}
	return logDir, nil
}
