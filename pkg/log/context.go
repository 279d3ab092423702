package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Ctx retrieves the logger from the context, falling back to the
// global logger when none is stored.
func Ctx(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return l
	}
	return L()
}
