// Package progress keeps the per-file failure log of a conversion run.
package progress

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrorEntry is one failed file in one pass
type ErrorEntry struct {
	Pass      string
	File      string
	Error     string
	Timestamp time.Time
}

// ErrorLogger collects per-file failures and optionally appends them to a file.
type ErrorLogger struct {
	mu      sync.Mutex
	logFile string
	errors  []ErrorEntry
	file    *os.File
	now     func() time.Time
}

// NewErrorLogger creates an error logger. With an empty logFile entries are
// only kept in memory.
func NewErrorLogger(logFile string) (*ErrorLogger, error) {
	logger := &ErrorLogger{
		logFile: logFile,
		errors:  []ErrorEntry{},
		now:     time.Now,
	}

	if logFile != "" {
		dir := filepath.Dir(logFile)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("could not create log directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		logger.file = file
	}

	return logger, nil
}

// Log records a failure of filePath during pass.
func (l *ErrorLogger) Log(pass, filePath, errorMsg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := ErrorEntry{
		Pass:      pass,
		File:      filePath,
		Error:     errorMsg,
		Timestamp: l.now(),
	}
	l.errors = append(l.errors, entry)

	if l.file != nil {
		line := fmt.Sprintf("%s | %s | %s | %s\n",
			entry.Timestamp.Format(time.RFC3339),
			entry.Pass,
			filepath.Base(filePath),
			errorMsg)
		l.file.WriteString(line)
	}
}

// Entries returns a copy of the logged failures.
func (l *ErrorLogger) Entries() []ErrorEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]ErrorEntry, len(l.errors))
	copy(out, l.errors)
	return out
}

// Summary returns a summary of logged errors.
func (l *ErrorLogger) Summary() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.errors) == 0 {
		return "No errors"
	}
	if l.logFile == "" {
		return fmt.Sprintf("%d errors", len(l.errors))
	}
	return fmt.Sprintf("%d errors logged to %s", len(l.errors), l.logFile)
}

// ErrorCount returns the number of logged errors.
func (l *ErrorLogger) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

// Close closes the log file.
func (l *ErrorLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
