// Package auth provides bearer-token authentication for bingeclub-engine.
// Tokens are issued by the external identity provider and verified against
// its JWKS endpoints; this service only consumes the decoded identity.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// IdentityKey is the context key under which the middleware stores the
// authenticated identity.
const IdentityKey contextKey = "identity"

// Claims represents the token claims decoded by the identity provider.
// It embeds RegisteredClaims for standard fields (sub, iss, exp, etc.)
// and adds the profile claims the provider includes.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Identity is the decoded caller identity attached to authenticated requests.
// UserID is the issuer-assigned stable identifier (the token subject); every
// persistence operation is scoped by it.
type Identity struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// IdentityFromClaims converts verified token claims into an Identity.
func IdentityFromClaims(claims *Claims) Identity {
	return Identity{
		UserID:  claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}
}

// GetIdentity retrieves the authenticated identity from the request context.
// Returns a zero Identity and false if the request was not authenticated.
func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(Identity)
	if !ok || identity.UserID == "" {
		return Identity{}, false
	}
	return identity, true
}
