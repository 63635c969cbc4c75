// Package logger provides leveled stderr logging for the Duet CLI.
// Debug, info, and stage traces are gated behind the --verbose flag;
// warnings always print because they report conditions that affect
// answers, such as skipped files or stale embeddings.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf writes one prefixed line. Gated lines are dropped unless
// verbose mode is on.
func logf(prefix string, gated bool, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", true, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf("[INFO] ", true, format, args...)
}

// Warn prints a warning message. Warnings are not gated by verbose
// mode.
func Warn(format string, args ...any) {
	logf("[WARN] ", false, format, args...)
}

// Stage traces a session's pipeline stage transition if verbose mode
// is enabled.
func Stage(sessionID, stage string) {
	logf("[STAGE] ", true, "%s: %s", sessionID, stage)
}
