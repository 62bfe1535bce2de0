// Package debug provides conditional debug logging for taskpeek.
//
// Debug logging is enabled by setting TASKPEEK_DEBUG:
//
//	TASKPEEK_DEBUG=1 tp --url http://localhost:8080
//
// Messages go to stderr with timestamps unless redirected with SetOutput,
// which the TUI does because it owns the terminal. When disabled, every
// function is a no-op.
package debug

import (
	"io"
	"log"
	"os"
	"time"
)

const prefix = "[TP_DEBUG] "

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("TASKPEEK_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled turns debug logging on or off. It must be called before any
// goroutine that logs is started.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output, enabling logging if it was off.
func SetOutput(w io.Writer) {
	logger = log.New(w, prefix, log.Ltime|log.Lmicroseconds)
	enabled = true
}

// Log writes a printf-style message if debug logging is enabled.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes how long name took.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogIf writes a message only if cond holds.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
		return
	}
	logger.Printf(format, args...)
}

// LogEnterExit logs entry and returns a function that logs exit with the
// elapsed time:
//
//	defer debug.LogEnterExit("peek.Load")()
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type.
func Dump(name string, v any) {
	if !enabled {
		return
	}
	logger.Printf("%s: %T = %+v", name, v, v)
}
