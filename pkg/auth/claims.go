// Package auth resolves the "is this session allowed to view data"
// gate for portfolio-engine. Identity arrives as a JWT issued by the
// account service; the engine validates it (JWKS) or accepts an
// established cookie session, and only passes approved accounts
// through. Registration, password storage and the approval workflow
// live entirely in the account service.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// IdentityKey is the context key for storing the resolved identity.
	IdentityKey contextKey = "identity"
)

// Account status values issued by the account service. Only approved
// accounts pass the gate.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// Claims is the JWT claims structure from the account service. It
// embeds RegisteredClaims for the standard fields (sub, iss, exp) and
// adds the account's email, approval status and admin flag.
type Claims struct {
	jwt.RegisteredClaims
	Email  string `json:"email,omitempty"`
	Status string `json:"status,omitempty"`
	Admin  bool   `json:"admin,omitempty"`
}

// Identity is the resolved session identity handed to handlers: who is
// viewing, and whether they hold the admin flag. By the time an
// Identity exists the approval gate has already passed.
type Identity struct {
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

// Approved reports whether the claims pass the viewing gate.
func (c *Claims) Approved() bool {
	return c.Status == StatusApproved
}

// GetIdentity retrieves the resolved identity from the request context.
// Returns false if the request did not pass the gate.
func GetIdentity(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(*Identity)
	return id, ok
}
