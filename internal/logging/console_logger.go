package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02,15:04:05.000"

// ConsoleLogger writes leveled log lines to stderr.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	threshold Level
	pipeline  string
	out       io.Writer
	now       func() time.Time
	mu        sync.Mutex
}

// NewConsoleLogger creates a ConsoleLogger writing to stderr.
// pipeline is the pipeline name printed on every line.
func NewConsoleLogger(threshold Level, pipeline string) *ConsoleLogger {
	return NewWriterLogger(os.Stderr, threshold, pipeline)
}

// NewWriterLogger creates a ConsoleLogger writing to w.
func NewWriterLogger(w io.Writer, threshold Level, pipeline string) *ConsoleLogger {
	return &ConsoleLogger{
		threshold: threshold,
		pipeline:  pipeline,
		out:       w,
		now:       time.Now,
	}
}

// Enabled reports whether messages at level are emitted.
func (l *ConsoleLogger) Enabled(level Level) bool {
	return level >= l.threshold
}

func (l *ConsoleLogger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

func (l *ConsoleLogger) Warning(format string, args ...interface{}) {
	l.log(LevelWarning, format, args...)
}

func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

func (l *ConsoleLogger) Critical(format string, args ...interface{}) {
	l.log(LevelCritical, format, args...)
}

func (l *ConsoleLogger) log(level Level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s [%s] %s\n", l.now().Format(timestampLayout), level, l.pipeline, msg)
}
