package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/domain"
	"github.com/internbook/internbook-api/internal/mocks"
	"github.com/internbook/internbook-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newBookingService(t *testing.T) (BookingService, *mocks.MockBookingStore, sqlmock.Sqlmock) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bookings := &mocks.MockBookingStore{}
	svc, err := NewBookingService(bookings, db, nil)
	require.NoError(t, err)
	return svc, bookings, sqlMock
}

func ownedBooking(owner uuid.UUID) *domain.Booking {
	return &domain.Booking{
		ID:       uuid.New(),
		InternID: owner,
		Resource: "Room 4",
		StartsAt: monday,
		EndsAt:   monday.Add(time.Hour),
	}
}

func TestNewBookingServiceRequiresDependencies(t *testing.T) {
	_, err := NewBookingService(nil, &sql.DB{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewBookingService(&mocks.MockBookingStore{}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	internID := uuid.New()

	t.Run("owned by caller", func(t *testing.T) {
		svc, bookings, _ := newBookingService(t)
		bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.InternID == internID && b.Resource == "Desk 7"
		})).Return(nil).Once()

		booking, err := svc.CreateBooking(ctx, internID, BookingInput{
			Resource: "  Desk 7 ",
			StartsAt: monday,
			EndsAt:   monday.Add(8 * time.Hour),
		})

		require.NoError(t, err)
		assert.True(t, booking.OwnedBy(internID))
		bookings.AssertExpectations(t)
	})

	t.Run("inverted window rejected before store", func(t *testing.T) {
		svc, bookings, _ := newBookingService(t)

		_, err := svc.CreateBooking(ctx, internID, BookingInput{
			Resource: "Desk 7",
			StartsAt: monday,
			EndsAt:   monday.Add(-time.Hour),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
		bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestGetBookingOwnership(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	booking := ownedBooking(owner)

	svc, bookings, _ := newBookingService(t)
	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	got, err := svc.GetBooking(ctx, owner, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	_, err = svc.GetBooking(ctx, uuid.New(), booking.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestUpdateBooking(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	in := BookingInput{Resource: "Room 5", StartsAt: monday, EndsAt: monday.Add(2 * time.Hour), Note: "retro"}

	t.Run("commits", func(t *testing.T) {
		svc, bookings, sqlMock := newBookingService(t)
		booking := ownedBooking(owner)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
		bookings.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Resource == "Room 5" && b.Note == "retro"
		})).Return(nil).Once()

		updated, err := svc.UpdateBooking(ctx, owner, booking.ID, in)

		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, updated.EndsAt.Sub(updated.StartsAt))
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		bookings.AssertExpectations(t)
	})

	t.Run("non-owner rolls back", func(t *testing.T) {
		svc, bookings, sqlMock := newBookingService(t)
		booking := ownedBooking(owner)
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

		_, err := svc.UpdateBooking(ctx, uuid.New(), booking.ID, in)

		assert.ErrorIs(t, err, ErrNotOwned)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing booking", func(t *testing.T) {
		svc, bookings, sqlMock := newBookingService(t)
		id := uuid.New()
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		bookings.On("GetByID", mock.Anything, id).Return(nil, store.ErrBookingNotFound)

		_, err := svc.UpdateBooking(ctx, owner, id, in)

		assert.ErrorIs(t, err, store.ErrBookingNotFound)
	})
}

func TestDeleteBooking(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("owner deletes", func(t *testing.T) {
		svc, bookings, sqlMock := newBookingService(t)
		booking := ownedBooking(owner)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
		bookings.On("Delete", mock.Anything, booking.ID).Return(nil).Once()

		require.NoError(t, svc.DeleteBooking(ctx, owner, booking.ID))
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		bookings.AssertExpectations(t)
	})

	t.Run("other intern cannot delete", func(t *testing.T) {
		svc, bookings, sqlMock := newBookingService(t)
		booking := ownedBooking(owner)
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

		err := svc.DeleteBooking(ctx, uuid.New(), booking.ID)

		assert.ErrorIs(t, err, ErrNotOwned)
		bookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestListBookings(t *testing.T) {
	owner := uuid.New()
	svc, bookings, _ := newBookingService(t)
	bookings.On("ListByIntern", mock.Anything, owner).Return([]*domain.Booking{ownedBooking(owner)}, nil)

	list, err := svc.ListBookings(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
