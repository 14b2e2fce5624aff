package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/domain"
	"github.com/internbook/internbook-api/internal/platform/logger"
	"github.com/internbook/internbook-api/internal/store"
)

type bookingDoc struct {
	Resource string    `json:"resource"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Note     string    `json:"note,omitempty"`
}

// PostgresBookingStore implements store.BookingStore.
type PostgresBookingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.BookingStore = (*PostgresBookingStore)(nil)

// NewPostgresBookingStore creates a booking store on db. If logger is nil,
// the default logger is used.
func NewPostgresBookingStore(db store.DBTX, logger *slog.Logger) *PostgresBookingStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBookingStore{
		db:     db,
		logger: logger.With(slog.String("component", "booking_store")),
	}
}

// WithTx implements store.BookingStore.WithTx.
func (s *PostgresBookingStore) WithTx(tx *sql.Tx) store.BookingStore {
	return &PostgresBookingStore{db: tx, logger: s.logger}
}

func encodeBooking(b *domain.Booking) (string, error) {
	return encodeDoc(bookingDoc{
		Resource: b.Resource,
		StartsAt: b.StartsAt,
		EndsAt:   b.EndsAt,
		Note:     b.Note,
	})
}

// Create implements store.BookingStore.Create.
func (s *PostgresBookingStore) Create(ctx context.Context, booking *domain.Booking) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := booking.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	doc, err := encodeBooking(booking)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bookings (id, intern_id, starts_at, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, booking.ID, booking.InternID, booking.StartsAt, doc, booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("booking references unknown intern",
				slog.String("booking_id", booking.ID.String()),
				slog.String("intern_id", booking.InternID.String()))
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, store.ErrInternNotFound)
		}
		log.Error("failed to create booking",
			slog.String("error", err.Error()),
			slog.String("booking_id", booking.ID.String()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.BookingStore.GetByID.
func (s *PostgresBookingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, intern_id, doc, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`, id)

	booking, err := scanBooking(row)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			return nil, store.ErrBookingNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load booking",
			slog.String("error", err.Error()),
			slog.String("booking_id", id.String()))
		return nil, mapped
	}
	return booking, nil
}

// ListByIntern implements store.BookingStore.ListByIntern.
func (s *PostgresBookingStore) ListByIntern(ctx context.Context, internID uuid.UUID) ([]*domain.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, intern_id, doc, created_at, updated_at
		FROM bookings
		WHERE intern_id = $1
		ORDER BY starts_at, id
	`, internID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list bookings",
			slog.String("error", err.Error()),
			slog.String("intern_id", internID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	bookings := []*domain.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return bookings, nil
}

// Update implements store.BookingStore.Update. The owner never changes.
func (s *PostgresBookingStore) Update(ctx context.Context, booking *domain.Booking) error {
	if err := booking.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	doc, err := encodeBooking(booking)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE bookings
		SET starts_at = $2, doc = $3, updated_at = $4
		WHERE id = $1
	`, booking.ID, booking.StartsAt, doc, booking.UpdatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update booking",
			slog.String("error", err.Error()),
			slog.String("booking_id", booking.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrBookingNotFound)
}

// Delete implements store.BookingStore.Delete.
func (s *PostgresBookingStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete booking",
			slog.String("error", err.Error()),
			slog.String("booking_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrBookingNotFound)
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking domain.Booking
		raw     []byte
		doc     bookingDoc
	)
	if err := row.Scan(&booking.ID, &booking.InternID, &raw, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeDoc(raw, &doc); err != nil {
		return nil, err
	}
	booking.Resource = doc.Resource
	booking.StartsAt = doc.StartsAt
	booking.EndsAt = doc.EndsAt
	booking.Note = doc.Note
	return &booking, nil
}
