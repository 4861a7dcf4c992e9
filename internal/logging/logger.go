// Package logging is the structured-logging seam used by the server and
// its tests. SlogLogger is the production implementation; Nop discards.
package logging

import "context"

// Logger is a context-aware, structured logger. args are key/value pairs:
//
//	log.Info(ctx, "user created", "user_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
