package store

import (
	"context"

	"github.com/internbook/internbook-api/internal/domain"
)

// HolidayStore defines the interface for holiday lookups.
type HolidayStore interface {
	// ListByYear returns the holidays falling in year ordered by date.
	ListByYear(ctx context.Context, year int) ([]*domain.Holiday, error)

	// Create saves a holiday. Returns ErrDuplicate when a holiday with the
	// same date and country exists.
	Create(ctx context.Context, holiday *domain.Holiday) error
}
