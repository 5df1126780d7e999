// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package and selects the output format
// based on the runtime environment.
package logger
