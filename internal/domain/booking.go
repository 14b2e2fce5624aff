package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Booking validation errors
var (
	ErrEmptyBookingID = errors.New("booking ID cannot be empty")
	ErrEmptyResource  = errors.New("resource cannot be empty")
	ErrEmptyStartTime = errors.New("start time cannot be empty")
)

// Booking reserves a shared resource (desk, meeting room, equipment) for an
// intern over a time window. Every booking belongs to exactly one intern.
type Booking struct {
	ID        uuid.UUID `json:"id"`
	InternID  uuid.UUID `json:"intern_id"`
	Resource  string    `json:"resource"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBooking creates a validated booking owned by internID.
func NewBooking(internID uuid.UUID, resource string, startsAt, endsAt time.Time, note string) (*Booking, error) {
	now := time.Now().UTC()
	booking := &Booking{
		ID:        uuid.New(),
		InternID:  internID,
		Resource:  strings.TrimSpace(resource),
		StartsAt:  startsAt.UTC(),
		EndsAt:    endsAt.UTC(),
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := booking.Validate(); err != nil {
		return nil, err
	}

	return booking, nil
}

// Validate checks field presence and that the window is not inverted.
// Overlap with other bookings is not checked here.
func (b *Booking) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBookingID
	}
	if b.InternID == uuid.Nil {
		return ErrEmptyInternID
	}
	if b.Resource == "" {
		return ErrEmptyResource
	}
	if b.StartsAt.IsZero() {
		return ErrEmptyStartTime
	}
	if !b.EndsAt.After(b.StartsAt) {
		return NewValidationError("ends_at", "must be after starts_at", ErrInvalidTimeRange)
	}
	return nil
}

// OwnedBy reports whether the booking belongs to internID.
func (b *Booking) OwnedBy(internID uuid.UUID) bool {
	return b.InternID == internID
}
