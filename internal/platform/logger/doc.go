// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. Records carry the writing process's pid and, for
// supervised workers, the worker id, and a request-scoped logger can travel in a
// context.Context.
package logger
