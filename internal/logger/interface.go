package logger

import "context"

// Logger is the logging interface shared by every package. Messages are
// printf-style; a request id stored in ctx is attached as a field.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
}
