package mocks

import (
	"context"

	"github.com/internbook/internbook-api/internal/domain"
	"github.com/internbook/internbook-api/internal/store"
)

// MockHolidayStore implements store.HolidayStore for testing.
type MockHolidayStore struct {
	ListByYearFn func(ctx context.Context, year int) ([]*domain.Holiday, error)
	CreateFn     func(ctx context.Context, holiday *domain.Holiday) error

	// Holidays is returned by ListByYear when ListByYearFn is nil, filtered
	// to the requested year.
	Holidays []*domain.Holiday
	Err      error
}

var _ store.HolidayStore = (*MockHolidayStore)(nil)

// ListByYear implements store.HolidayStore.
func (m *MockHolidayStore) ListByYear(ctx context.Context, year int) ([]*domain.Holiday, error) {
	if m.ListByYearFn != nil {
		return m.ListByYearFn(ctx, year)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	out := []*domain.Holiday{}
	for _, h := range m.Holidays {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

// Create implements store.HolidayStore.
func (m *MockHolidayStore) Create(ctx context.Context, holiday *domain.Holiday) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, holiday)
	}
	if m.Err != nil {
		return m.Err
	}
	m.Holidays = append(m.Holidays, holiday)
	return nil
}
