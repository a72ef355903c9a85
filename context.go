package custody

import (
	"context"

	"github.com/tendermint/tendermint/libs/log"
)

// DefaultLogger is used for all context that have not
// set anything themselves
var DefaultLogger = log.NewNopLogger()

type contextKey int // local to the custody package

const (
	contextKeyLogger contextKey = iota
)

// WithLogger sets the logger on the context. Engine components read it
// back with GetLogger.
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger stored on the context, or DefaultLogger
// if none was set.
func GetLogger(ctx context.Context) log.Logger {
	if ctx == nil {
		return DefaultLogger
	}
	if l, ok := ctx.Value(contextKeyLogger).(log.Logger); ok && l != nil {
		return l
	}
	return DefaultLogger
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx context.Context, keyvals ...interface{}) context.Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}
