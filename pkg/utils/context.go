package utils

import (
	"context"

	"media-review/internal/policy"
)

type contextKey string

const PrincipalKey contextKey = "principal"

// SetPrincipal stores the authenticated caller on ctx.
func SetPrincipal(ctx context.Context, p *policy.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetPrincipal returns the caller stored by the auth middleware, or nil for
// anonymous requests.
func GetPrincipal(ctx context.Context) *policy.Principal {
	p, _ := ctx.Value(PrincipalKey).(*policy.Principal)
	return p
}
