package logging

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

type contextKey struct{}

var discard = New(io.Discard, Flags{})

func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger carried by ctx, or one that discards
// everything.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*log.Logger); ok {
			return l
		}
	}
	return discard
}
