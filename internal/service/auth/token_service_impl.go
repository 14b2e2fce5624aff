package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/config"
	"github.com/internbook/internbook-api/internal/platform/logger"
)

// MinSecretLength is the shortest signing secret NewTokenService accepts.
const MinSecretLength = 32

// hmacTokenService implements TokenService with HMAC-SHA256 signing.
// All fields are fixed at construction, so one instance is safe for
// concurrent use.
type hmacTokenService struct {
	signingKey    []byte
	tokenLifetime time.Duration
	clockSkew     time.Duration
	timeFunc      func() time.Time // injectable for testing
}

// tokenClaims is the wire form of the token payload.
type tokenClaims struct {
	InternID string `json:"id"`
	jwt.RegisteredClaims
}

var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a TokenService from the auth configuration.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	return newTokenService(
		cfg.JWTSecret,
		time.Duration(cfg.TokenLifetimeMinutes)*time.Minute,
		time.Duration(cfg.ClockSkewSeconds)*time.Second,
		time.Now,
	)
}

func newTokenService(
	secret string,
	lifetime, skew time.Duration,
	timeFunc func() time.Time,
) (*hmacTokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", lifetime)
	}
	if skew < 0 {
		return nil, fmt.Errorf("clock skew must not be negative, got %s", skew)
	}

	return &hmacTokenService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		clockSkew:     skew,
		timeFunc:      timeFunc,
	}, nil
}

// GenerateToken creates a signed token with the intern's id claim.
func (s *hmacTokenService) GenerateToken(ctx context.Context, internID uuid.UUID) (string, error) {
	return s.generate(ctx, internID, s.timeFunc().Add(s.tokenLifetime))
}

func (s *hmacTokenService) generate(ctx context.Context, internID uuid.UUID, expiresAt time.Time) (string, error) {
	if internID == uuid.Nil {
		return "", fmt.Errorf("cannot issue token: %w", ErrMissingIdentity)
	}

	claims := tokenClaims{
		InternID: internID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   internID.String(),
			IssuedAt:  jwt.NewNumericDate(s.timeFunc()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign token",
			"error", err,
			"intern_id", internID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	return signed, nil
}

// ValidateToken verifies signature and expiry and decodes the claims.
// Expired tokens yield ErrExpiredToken; every other failure yields
// ErrInvalidToken.
func (s *hmacTokenService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("token validation failed: malformed token", "error", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("token validation failed: invalid signature", "error", err)
		default:
			log.Debug("token validation failed",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	internID, err := uuid.Parse(claims.InternID)
	if err != nil || internID == uuid.Nil {
		log.Debug("token validation failed: bad identity claim")
		return nil, ErrInvalidToken
	}

	result := &Claims{
		InternID:  internID,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}

	return result, nil
}
