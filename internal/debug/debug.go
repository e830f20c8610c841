// Package debug owns gitpick's diagnostic logger.
//
// The picker owns the terminal, so log lines go to a file instead of stderr.
// Logging is off unless GITPICK_DEBUG=1 or --debug is given.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.Mutex
	enabled = os.Getenv("GITPICK_DEBUG") == "1"
	logger  = zerolog.Nop()
)

// Enabled reports whether debug logging was requested.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Enable turns debug logging on. It takes effect at the next Setup.
func Enable() {
	mu.Lock()
	enabled = true
	mu.Unlock()
}

// Setup opens the log file at path and installs the logger when debug
// logging is enabled. The returned closer must be closed on exit.
func Setup(path string) (io.Closer, error) {
	if !Enabled() {
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	SetOutput(f)
	return f, nil
}

// SetOutput installs a debug-level logger writing JSON lines to w.
func SetOutput(w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Logger returns the installed logger, a no-op one when logging is off.
func Logger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Logf writes a formatted debug message.
func Logf(format string, args ...any) {
	l := Logger()
	l.Debug().Msgf(format, args...)
}
