package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService issues and verifies signed bearer tokens that carry an
// intern's identity.
type TokenService interface {
	// GenerateToken creates a signed token for internID.
	GenerateToken(ctx context.Context, internID uuid.UUID) (string, error)

	// ValidateToken checks the signature and expiry of tokenString and
	// returns its claims. It has no side effects, so the same token
	// validates any number of times until it expires.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded payload of a valid token.
type Claims struct {
	// InternID is the identity the token was issued for (claim "id").
	InternID  uuid.UUID `json:"id"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
