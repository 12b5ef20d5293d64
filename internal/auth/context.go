package auth

import "context"

// Identity is the verified subject of a request, resolved once by the gate
// and threaded into facade calls as an explicit argument. It lives only for
// the request that produced it.
type Identity struct {
	Subject string
}

type contextKey struct{}

// WithIdentity returns a context carrying the verified identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the identity attached by the gate, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
