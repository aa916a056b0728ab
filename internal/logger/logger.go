// Package logger writes docrag's diagnostic output to stderr.
//
// Warnings are always written. Debug and info messages, section headers and
// stage timings appear only in verbose mode (--verbose), where they trace the
// index and query pipelines step by step.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level orders messages by importance.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

// String returns the tag written before each message.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	default:
		return "WARN"
	}
}

var (
	mu        sync.Mutex
	threshold           = LevelWarn
	output    io.Writer = os.Stderr
	now                 = time.Now
)

// SetVerbose lowers the threshold to LevelDebug, or restores LevelWarn.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	if v {
		threshold = LevelDebug
	} else {
		threshold = LevelWarn
	}
}

// IsVerbose reports whether debug output is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return threshold == LevelDebug
}

// SetOutput redirects all output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug writes a pipeline detail.
func Debug(format string, args ...any) {
	write(LevelDebug, format, args...)
}

// Info writes a progress message.
func Info(format string, args ...any) {
	write(LevelInfo, format, args...)
}

// Warn writes a recoverable problem. Warnings are never suppressed.
func Warn(format string, args ...any) {
	write(LevelWarn, format, args...)
}

// Section writes a header that groups the debug lines after it.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if threshold <= LevelDebug {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timed starts timing a stage and returns the func that reports it:
//
//	defer logger.Timed("embed")()
func Timed(stage string) func() {
	start := now()
	return func() {
		Debug("%s took %s", stage, now().Sub(start).Round(time.Millisecond))
	}
}

func write(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level < threshold {
		return
	}
	fmt.Fprintf(output, "[%s] %s\n", level, fmt.Sprintf(format, args...))
}
