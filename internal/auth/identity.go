package auth

import (
	"context"
	"net/http"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/apierror"
)

// Role is the privilege level carried in a token.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleBasic Role = "basic"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleBasic
}

// Identity is the claim embedded in every bearer token. It is never mutated
// after issue.
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by Middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// FromRequest returns the caller's identity, or an authentication error when
// the request did not pass through Middleware.
func FromRequest(r *http.Request) (Identity, error) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		return Identity{}, apierror.Unauthenticated(deniedMessage, ErrMissingCredential)
	}
	return id, nil
}
