// Package logging provides concrete implementations of the fxload.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: leveled, timestamped lines on stderr (or any io.Writer)
//   - NullLogger: discards all messages (useful for testing)
//
// Levels follow the CRITICAL/ERROR/WARNING/INFO/DEBUG/NOTSET scale; a logger
// emits every message at or above its threshold.
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
