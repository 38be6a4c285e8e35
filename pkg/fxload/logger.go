package fxload

// Logger provides a pluggable, leveled logging interface.
// Implementations must be safe for concurrent use by multiple goroutines.
type Logger interface {
	// Debug logs detailed diagnostic information.
	Debug(format string, args ...interface{})

	// Info logs informational messages about normal operations.
	Info(format string, args ...interface{})

	// Warning logs recoverable oddities.
	Warning(format string, args ...interface{})

	// Error logs failures.
	Error(format string, args ...interface{})

	// Critical logs failures that end the run.
	Critical(format string, args ...interface{})
}
