package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/domain"
	"github.com/internbook/internbook-api/internal/platform/logger"
	"github.com/internbook/internbook-api/internal/store"
)

// BookingInput carries the caller-editable fields of a booking.
type BookingInput struct {
	Resource string
	StartsAt time.Time
	EndsAt   time.Time
	Note     string
}

// BookingService provides booking operations. Every method takes the
// verified intern id and only acts on bookings that intern owns.
type BookingService interface {
	// CreateBooking creates a booking owned by internID.
	CreateBooking(ctx context.Context, internID uuid.UUID, in BookingInput) (*domain.Booking, error)

	// ListBookings returns the bookings owned by internID.
	ListBookings(ctx context.Context, internID uuid.UUID) ([]*domain.Booking, error)

	// GetBooking returns a booking. Returns ErrNotOwned if another intern
	// owns it.
	GetBooking(ctx context.Context, internID, bookingID uuid.UUID) (*domain.Booking, error)

	// UpdateBooking replaces the editable fields of a booking.
	UpdateBooking(ctx context.Context, internID, bookingID uuid.UUID, in BookingInput) (*domain.Booking, error)

	// DeleteBooking removes a booking.
	DeleteBooking(ctx context.Context, internID, bookingID uuid.UUID) error
}

type bookingServiceImpl struct {
	bookings store.BookingStore
	db       *sql.DB
	logger   *slog.Logger
}

// NewBookingService creates a BookingService. Updates and deletes run in a
// transaction on db.
func NewBookingService(bookings store.BookingStore, db *sql.DB, logger *slog.Logger) (BookingService, error) {
	if bookings == nil {
		return nil, domain.NewValidationError("bookings", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &bookingServiceImpl{
		bookings: bookings,
		db:       db,
		logger:   logger.With(slog.String("component", "booking_service")),
	}, nil
}

// CreateBooking implements BookingService.CreateBooking.
func (s *bookingServiceImpl) CreateBooking(
	ctx context.Context,
	internID uuid.UUID,
	in BookingInput,
) (*domain.Booking, error) {
	booking, err := domain.NewBooking(internID, in.Resource, in.StartsAt, in.EndsAt, in.Note)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, passThrough("booking", "create", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("booking created",
		slog.String("booking_id", booking.ID.String()),
		slog.String("intern_id", internID.String()))
	return booking, nil
}

// ListBookings implements BookingService.ListBookings.
func (s *bookingServiceImpl) ListBookings(ctx context.Context, internID uuid.UUID) ([]*domain.Booking, error) {
	bookings, err := s.bookings.ListByIntern(ctx, internID)
	if err != nil {
		return nil, wrapErr("booking", "list", err)
	}
	return bookings, nil
}

// GetBooking implements BookingService.GetBooking.
func (s *bookingServiceImpl) GetBooking(ctx context.Context, internID, bookingID uuid.UUID) (*domain.Booking, error) {
	return s.ownedBooking(ctx, s.bookings, internID, bookingID)
}

// UpdateBooking implements BookingService.UpdateBooking.
func (s *bookingServiceImpl) UpdateBooking(
	ctx context.Context,
	internID, bookingID uuid.UUID,
	in BookingInput,
) (*domain.Booking, error) {
	var updated *domain.Booking

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.bookings.WithTx(tx)

		booking, err := s.ownedBooking(ctx, txStore, internID, bookingID)
		if err != nil {
			return err
		}

		booking.Resource = strings.TrimSpace(in.Resource)
		booking.StartsAt = in.StartsAt.UTC()
		booking.EndsAt = in.EndsAt.UTC()
		booking.Note = in.Note
		booking.UpdatedAt = time.Now().UTC()
		if err := booking.Validate(); err != nil {
			return err
		}

		if err := txStore.Update(ctx, booking); err != nil {
			return passThrough("booking", "update", err)
		}
		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("booking updated",
		slog.String("booking_id", bookingID.String()),
		slog.String("intern_id", internID.String()))
	return updated, nil
}

// DeleteBooking implements BookingService.DeleteBooking.
func (s *bookingServiceImpl) DeleteBooking(ctx context.Context, internID, bookingID uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.bookings.WithTx(tx)

		if _, err := s.ownedBooking(ctx, txStore, internID, bookingID); err != nil {
			return err
		}
		if err := txStore.Delete(ctx, bookingID); err != nil {
			return passThrough("booking", "delete", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("booking deleted",
		slog.String("booking_id", bookingID.String()),
		slog.String("intern_id", internID.String()))
	return nil
}

func (s *bookingServiceImpl) ownedBooking(
	ctx context.Context,
	bookings store.BookingStore,
	internID, bookingID uuid.UUID,
) (*domain.Booking, error) {
	booking, err := bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, passThrough("booking", "get", err)
	}
	if !booking.OwnedBy(internID) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("booking access by non-owner",
			slog.String("booking_id", bookingID.String()),
			slog.String("intern_id", internID.String()))
		return nil, ErrNotOwned
	}
	return booking, nil
}

// passThrough returns expected store errors unchanged and wraps the rest.
func passThrough(service, operation string, err error) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidEntity) {
		return err
	}
	return wrapErr(service, operation, err)
}
