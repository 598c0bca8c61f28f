package toast

import "context"

type contextKey struct{}

// WithDispatcher returns a context carrying d.
func WithDispatcher(ctx context.Context, d *Dispatcher) context.Context {
	return context.WithValue(ctx, contextKey{}, d)
}

// FromContext returns the dispatcher stored by WithDispatcher.
func FromContext(ctx context.Context) (*Dispatcher, bool) {
	d, ok := ctx.Value(contextKey{}).(*Dispatcher)
	return d, ok && d != nil
}

// MustFromContext is like FromContext but panics with ErrUninitialized when
// no dispatcher is present.
func MustFromContext(ctx context.Context) *Dispatcher {
	d, ok := FromContext(ctx)
	if !ok {
		panic(ErrUninitialized)
	}
	return d
}
