package types

import (
	"context"
)

// Principal represents the authenticated caller of a request. Callers are
// other internal services or operators identified by a numeric user ID passed
// in the Authorization header; anonymous callers carry no ID and no roles.
type Principal struct {
	UserID *int64
	Roles  []Role
}

// Anonymous returns a Principal with no identity and no roles.
func Anonymous() Principal {
	return Principal{}
}

// HasRole reports whether the principal holds the given role.
func (p Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Context Keys
type contextKey string

const (
	principalKey contextKey = "principal"
	requestIDKey contextKey = "request_id"
)

// WithPrincipal stores the Principal in the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal retrieves the Principal from the context.
// An absent principal is treated as anonymous.
func GetPrincipal(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey).(Principal); ok {
		return p
	}
	return Anonymous()
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
