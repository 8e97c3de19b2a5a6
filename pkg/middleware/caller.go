// pkg/middleware/caller.go
package middleware

import (
	"context"
	"net/http"

	"sentra/pkg/authority"
	"sentra/pkg/problems"
)

// local context key type (unique to this file)
type callerCtxKey struct{}

// WithCaller stores the caller in context.
func WithCaller(ctx context.Context, c authority.Caller) context.Context {
	return context.WithValue(ctx, callerCtxKey{}, c)
}

// CallerFrom extracts the caller from context; anonymous if absent.
func CallerFrom(ctx context.Context) authority.Caller {
	if v := ctx.Value(callerCtxKey{}); v != nil {
		if c, ok := v.(authority.Caller); ok {
			return c
		}
	}
	return authority.Anonymous()
}

// RequireAuthority guards a route subtree: 401 for anonymous callers, 403 when
// the required authority is missing.
func RequireAuthority(required string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := CallerFrom(r.Context())
			if !c.Authenticated {
				problems.Write(w, http.StatusUnauthorized, "unauthenticated", "Authentication required", "This endpoint requires a valid bearer token")
				return
			}
			if !c.HasAuthority(required) {
				problems.Write(w, http.StatusForbidden, "forbidden", "Access denied", "Caller lacks the required authority")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
