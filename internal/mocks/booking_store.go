package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/domain"
	"github.com/internbook/internbook-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockBookingStore is a testify mock of store.BookingStore. WithTx returns
// the same mock so expectations cover transactional calls too.
type MockBookingStore struct {
	mock.Mock
}

var _ store.BookingStore = (*MockBookingStore)(nil)

// Create is a mock implementation of store.BookingStore.Create
func (m *MockBookingStore) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

// GetByID is a mock implementation of store.BookingStore.GetByID
func (m *MockBookingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if booking, ok := args.Get(0).(*domain.Booking); ok {
		return booking, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByIntern is a mock implementation of store.BookingStore.ListByIntern
func (m *MockBookingStore) ListByIntern(ctx context.Context, internID uuid.UUID) ([]*domain.Booking, error) {
	args := m.Called(ctx, internID)
	if bookings, ok := args.Get(0).([]*domain.Booking); ok {
		return bookings, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.BookingStore.Update
func (m *MockBookingStore) Update(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

// Delete is a mock implementation of store.BookingStore.Delete
func (m *MockBookingStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithTx returns m.
func (m *MockBookingStore) WithTx(_ *sql.Tx) store.BookingStore {
	return m
}
