// Package claims decodes bearer-token payloads without verifying their
// signature. The result is advisory only: it steers navigation at the edge,
// while the authoritative identity check always happens on the backend.
package claims

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the role claim that unlocks the admin area.
const RoleAdmin = "admin"

// ErrMalformed reports a token whose payload could not be structurally
// decoded. Callers must treat this identically to "unauthenticated".
var ErrMalformed = errors.New("claims: malformed token")

// UnverifiedClaims are the decoded-but-unverified payload fields of a bearer
// token. The name is deliberate: a value of this type must never be treated
// as proof of authenticity, only as a routing hint.
type UnverifiedClaims struct {
	jwt.RegisteredClaims

	// Roles granted to the subject, e.g. ["customer"] or ["admin"].
	Roles []string `json:"roles,omitempty"`

	// Role is the primary role. Some backend token versions emit the
	// singular form only.
	Role string `json:"role,omitempty"`

	// Email of the subject, informational.
	Email string `json:"email,omitempty"`
}

// Decode structurally decodes the payload segment of a JWT (base64url +
// JSON) without verifying its signature. A malformed token yields
// ErrMalformed.
func Decode(raw string) (*UnverifiedClaims, error) {
	if raw == "" {
		return nil, ErrMalformed
	}

	var c UnverifiedClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &c); err != nil {
		return nil, ErrMalformed
	}

	return &c, nil
}

// HasRole reports whether the claims carry the given role, in either the
// plural or singular claim form.
func (c *UnverifiedClaims) HasRole(role string) bool {
	if c.Role == role {
		return true
	}
	return slices.Contains(c.Roles, role)
}

// IsAdmin reports whether the claims carry the admin role.
func (c *UnverifiedClaims) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}

// Expired reports whether the token's exp claim is in the past. Absent exp
// counts as not expired; this is a hint, not an authorization decision.
func (c *UnverifiedClaims) Expired() bool {
	if c.ExpiresAt == nil {
		return false
	}
	return time.Now().UTC().After(c.ExpiresAt.Time)
}
