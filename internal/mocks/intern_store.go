package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/domain"
	"github.com/internbook/internbook-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockInternStore is a testify mock of store.InternStore.
type MockInternStore struct {
	mock.Mock
}

var _ store.InternStore = (*MockInternStore)(nil)

// Create is a mock implementation of store.InternStore.Create
func (m *MockInternStore) Create(ctx context.Context, intern *domain.Intern) error {
	args := m.Called(ctx, intern)
	return args.Error(0)
}

// GetByID is a mock implementation of store.InternStore.GetByID
func (m *MockInternStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Intern, error) {
	args := m.Called(ctx, id)
	if intern, ok := args.Get(0).(*domain.Intern); ok {
		return intern, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByEmail is a mock implementation of store.InternStore.GetByEmail
func (m *MockInternStore) GetByEmail(ctx context.Context, email string) (*domain.Intern, error) {
	args := m.Called(ctx, email)
	if intern, ok := args.Get(0).(*domain.Intern); ok {
		return intern, args.Error(1)
	}
	return nil, args.Error(1)
}

// List is a mock implementation of store.InternStore.List
func (m *MockInternStore) List(ctx context.Context) ([]*domain.Intern, error) {
	args := m.Called(ctx)
	if interns, ok := args.Get(0).([]*domain.Intern); ok {
		return interns, args.Error(1)
	}
	return nil, args.Error(1)
}
