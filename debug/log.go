package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	logger   = newLogger(os.Stderr)
	file     *os.File
	mu       sync.Mutex
	counters = make(map[string]int)
)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return l
}

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	return logger
}

// For returns an entry tagged with the given category.
func For(category string) *logrus.Entry {
	return logger.WithField("category", category)
}

// DefaultLogPath returns ~/.config/midiclock/debug.log
func DefaultLogPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "midiclock", "debug.log")
}

// Enable redirects logging to the file at path (truncated) and turns on debug level.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "create log dir for %s", path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "open log file %s", path)
	}

	file = f
	logger.SetOutput(f)
	logger.SetLevel(logrus.DebugLevel)
	For("debug").Info("=== Debug logging started ===")
	return nil
}

// Disable closes the log file and returns output to stderr.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	logger.SetOutput(os.Stderr)
	if file != nil {
		file.Close()
		file = nil
	}
}

// SetLevel parses a logrus level name ("debug", "info", "warn", ...).
func SetLevel(name string) error {
	if name == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	logger.SetLevel(lvl)
	return nil
}

// Log writes a debug message under category
func Log(category, format string, args ...any) {
	For(category).Debugf(format, args...)
}

// LogEvery logs only every N calls (use for high-frequency events like pulses)
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if n > 0 && count%n == 0 {
		For(category).WithField("count", count).Debug(fmt.Sprintf(format, args...))
	}
}
