package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/config"
	"github.com/stretchr/testify/require"
)

// TestSecret is a signing secret long enough for NewTokenService.
const TestSecret = "test-jwt-secret-that-is-32-chars-long"

// DefaultTestConfig returns the auth configuration used across tests.
func DefaultTestConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            TestSecret,
		TokenLifetimeMinutes: 60,
		BCryptCost:           4,
	}
}

// NewTokenServiceWithClock creates a TokenService whose notion of "now" is
// timeFunc. Tests use it to issue and validate tokens at fixed instants.
func NewTokenServiceWithClock(
	secret string,
	lifetime, skew time.Duration,
	timeFunc func() time.Time,
) (TokenService, error) {
	return newTokenService(secret, lifetime, skew, timeFunc)
}

// RequireTestTokenService creates a TokenService with the default test
// configuration and fails the test on error.
func RequireTestTokenService(t *testing.T) TokenService {
	t.Helper()
	svc, err := NewTokenService(DefaultTestConfig())
	require.NoError(t, err, "Failed to create test token service")
	return svc
}

// GenerateAuthHeaderForTestingT returns an Authorization header value with a
// valid token for internID signed by svc.
func GenerateAuthHeaderForTestingT(t *testing.T, svc TokenService, internID uuid.UUID) string {
	t.Helper()
	token, err := svc.GenerateToken(context.Background(), internID)
	require.NoError(t, err, "Failed to generate auth header")
	return "Bearer " + token
}

// GenerateExpiredTokenForTesting returns a token for internID, signed with
// secret, that expired an hour ago.
func GenerateExpiredTokenForTesting(t *testing.T, secret string, internID uuid.UUID) string {
	t.Helper()
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc, err := newTokenService(secret, time.Hour, 0, func() time.Time { return issuedAt })
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), internID)
	require.NoError(t, err)
	return token
}
