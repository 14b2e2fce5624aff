package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/domain"
)

// RegisterRequest defines the payload for the intern registration endpoint.
type RegisterRequest struct {
	Name       string `json:"name"       validate:"required,max=200"`
	Email      string `json:"email"      validate:"required,email"`
	Department string `json:"department" validate:"max=200"`
	Password   string `json:"password"   validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// InternID is the identity the token asserts
	InternID uuid.UUID `json:"intern_id"`

	// Token is sent back as "Authorization: Bearer <token>" on protected routes
	Token string `json:"token"`
}

// InternResponse is the public view of an intern. It never carries the
// password hash.
type InternResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookingRequest defines the payload for creating and updating a booking.
type BookingRequest struct {
	Resource string    `json:"resource"  validate:"required,max=200"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at"   validate:"required,gtfield=StartsAt"`
	Note     string    `json:"note"      validate:"max=1000"`
}

// BookingResponse is the API view of a booking.
type BookingResponse struct {
	ID        uuid.UUID `json:"id"`
	InternID  uuid.UUID `json:"intern_id"`
	Resource  string    `json:"resource"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HolidayResponse is the API view of a holiday.
type HolidayResponse struct {
	Date    string `json:"date"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

func internToResponse(i *domain.Intern) InternResponse {
	return InternResponse{
		ID:         i.ID,
		Name:       i.Name,
		Email:      i.Email,
		Department: i.Department,
		CreatedAt:  i.CreatedAt,
	}
}

func bookingToResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		InternID:  b.InternID,
		Resource:  b.Resource,
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
		Note:      b.Note,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func holidayToResponse(h *domain.Holiday) HolidayResponse {
	return HolidayResponse{Date: h.DateString(), Name: h.Name, Country: h.Country}
}
