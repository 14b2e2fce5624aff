package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing.
type MockTokenService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, internID uuid.UUID) (string, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Err         error
	Claims      *auth.Claims
	ValidateErr error

	mu             sync.Mutex
	validateCalls  []string
	generateCalled []uuid.UUID
}

var _ auth.TokenService = (*MockTokenService)(nil)

// GenerateToken implements auth.TokenService.
func (m *MockTokenService) GenerateToken(ctx context.Context, internID uuid.UUID) (string, error) {
	m.mu.Lock()
	m.generateCalled = append(m.generateCalled, internID)
	m.mu.Unlock()

	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, internID)
	}
	return m.Token, m.Err
}

// ValidateToken implements auth.TokenService.
func (m *MockTokenService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	m.mu.Lock()
	m.validateCalls = append(m.validateCalls, token)
	m.mu.Unlock()

	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return m.Claims, m.ValidateErr
}

// ValidateCalls returns the tokens passed to ValidateToken, in call order.
func (m *MockTokenService) ValidateCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.validateCalls...)
}

// GenerateCalls returns the ids passed to GenerateToken, in call order.
func (m *MockTokenService) GenerateCalls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.generateCalled...)
}
