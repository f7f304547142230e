// Package tenantctx carries the authenticated caller's tenant and user
// identity on the request context. The request boundary installs a Scope once
// the caller has been resolved; everything downstream, including the
// data-access tenant filter, reads it from the context it already receives.
//
// Binding the scope to context.Context rather than to shared mutable state
// gives the required lifecycle for free: the scope exists exactly as long as
// the request's context does, concurrent requests cannot observe each other's
// bindings, and release happens on every exit path, including panics and
// cancellation.
package tenantctx

import (
	"context"

	"repairshop/internal/core/domain/model/kernel"
)

type scopeKey struct{}

// Scope identifies the tenant a request acts for and the acting user.
type Scope struct {
	TenantID kernel.UUID
	UserID   kernel.UUID
}

// WithScope returns a context carrying the given tenant scope. It is called
// once per request by the authentication middleware, after the caller's
// tenant has been resolved.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the tenant scope bound to the context. The second return
// value is false when no scope is bound; callers running without a scope are
// system-level operations and must be deliberate about it.
func ScopeFrom(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(Scope)
	return scope, ok
}

// TenantID returns the tenant bound to the context, if any.
func TenantID(ctx context.Context) (kernel.UUID, bool) {
	scope, ok := ScopeFrom(ctx)
	return scope.TenantID, ok
}

// UserID returns the acting user bound to the context, if any.
func UserID(ctx context.Context) (kernel.UUID, bool) {
	scope, ok := ScopeFrom(ctx)
	return scope.UserID, ok
}
