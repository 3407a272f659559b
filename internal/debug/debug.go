// Package debug is a process-wide, opt-in trace sink used by the engine's
// search, replace, and indexing workers. It never writes anywhere unless
// the caller enables it, so the hot path pays nothing when it's off.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnableDebug can be overridden at build time:
// go build -ldflags "-X github.com/largefile/ltv/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// sink bundles the destination writer with the file it owns, if any, so
// SetDebugOutput and the file-backed path share one lock instead of three
// loose globals.
type sink struct {
	mu   sync.Mutex
	w    io.Writer
	file *os.File
}

var active sink

// writer returns the currently configured destination, or nil if none.
func (s *sink) writer() io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w
}

// setWriter points output at w, closing any file this sink previously
// opened for itself.
func (s *sink) setWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	s.w = w
}

// openFile creates a fresh timestamped log file under dir and adopts it
// as both the owned file and the active writer, returning its path.
func (s *sink) openFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create debug log directory: %w", err)
	}
	name := fmt.Sprintf("debug-%s.log", time.Now().Format("2006-01-02T150405"))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("create debug log file: %w", err)
	}

	s.mu.Lock()
	s.file = f
	s.w = f
	s.mu.Unlock()
	return path, nil
}

// closeFile closes and forgets the sink's owned file, if it has one.
func (s *sink) closeFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.w = nil
	return err
}

// SetDebugOutput sets a custom writer for debug output. Pass nil to
// disable debug output entirely.
func SetDebugOutput(w io.Writer) { active.setWriter(w) }

// InitDebugLogFile opens a timestamped log file under the OS temp
// directory and directs debug output to it. Returns the log path.
func InitDebugLogFile() (string, error) {
	return active.openFile(filepath.Join(os.TempDir(), "ltv-debug-logs"))
}

// CloseDebugLog closes the debug log file if one is open.
func CloseDebugLog() error { return active.closeFile() }

// IsDebugEnabled reports whether debug output should be produced.
func IsDebugEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	switch os.Getenv("LTV_DEBUG") {
	case "1", "true":
		return true
	default:
		return false
	}
}

// emit writes a formatted, optionally component-tagged line to the active
// sink, doing nothing when debugging is off or no writer is configured.
func emit(tag, format string, args []interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := active.writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, tag+format, args...)
}

// Printf writes a debug line when debug output is enabled and configured.
func Printf(format string, args ...interface{}) {
	emit("[DEBUG] ", format, args)
}

// Log writes a component-tagged debug line, e.g. Log("search", "counted %d", n).
func Log(component, format string, args ...interface{}) {
	emit(fmt.Sprintf("[DEBUG:%s] ", component), format, args)
}

// LogSearch is shorthand for Log("SEARCH", ...).
func LogSearch(format string, args ...interface{}) { Log("SEARCH", format, args...) }

// LogReplace is shorthand for Log("REPLACE", ...).
func LogReplace(format string, args ...interface{}) { Log("REPLACE", format, args...) }

// LogIndex is shorthand for Log("INDEX", ...).
func LogIndex(format string, args ...interface{}) { Log("INDEX", format, args...) }
