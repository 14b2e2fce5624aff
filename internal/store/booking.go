package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/domain"
)

// BookingStore defines the interface for booking persistence.
type BookingStore interface {
	// Create saves a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by id.
	// Returns ErrBookingNotFound if the booking does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)

	// ListByIntern returns the bookings owned by internID ordered by start time.
	ListByIntern(ctx context.Context, internID uuid.UUID) ([]*domain.Booking, error)

	// Update replaces a stored booking.
	// Returns ErrBookingNotFound if the booking does not exist.
	Update(ctx context.Context, booking *domain.Booking) error

	// Delete removes a booking.
	// Returns ErrBookingNotFound if the booking does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a BookingStore that runs its queries in tx.
	WithTx(tx *sql.Tx) BookingStore
}
