package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/internbook/internbook-api/internal/domain"
	"github.com/internbook/internbook-api/internal/platform/logger"
	"github.com/internbook/internbook-api/internal/store"
)

type holidayDoc struct {
	Name string `json:"name"`
}

// PostgresHolidayStore implements store.HolidayStore.
type PostgresHolidayStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.HolidayStore = (*PostgresHolidayStore)(nil)

// NewPostgresHolidayStore creates a holiday store on db. If logger is nil,
// the default logger is used.
func NewPostgresHolidayStore(db store.DBTX, logger *slog.Logger) *PostgresHolidayStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresHolidayStore{
		db:     db,
		logger: logger.With(slog.String("component", "holiday_store")),
	}
}

// ListByYear implements store.HolidayStore.ListByYear.
func (s *PostgresHolidayStore) ListByYear(ctx context.Context, year int) ([]*domain.Holiday, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, holiday_date, country, doc
		FROM holidays
		WHERE holiday_date >= $1 AND holiday_date < $2
		ORDER BY holiday_date, country
	`, from, to)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list holidays",
			slog.String("error", err.Error()),
			slog.Int("year", year))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	holidays := []*domain.Holiday{}
	for rows.Next() {
		var (
			h   domain.Holiday
			raw []byte
			doc holidayDoc
		)
		if err := rows.Scan(&h.ID, &h.Date, &h.Country, &raw); err != nil {
			return nil, err
		}
		if err := decodeDoc(raw, &doc); err != nil {
			return nil, err
		}
		h.Name = doc.Name
		holidays = append(holidays, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return holidays, nil
}

// Create implements store.HolidayStore.Create.
func (s *PostgresHolidayStore) Create(ctx context.Context, holiday *domain.Holiday) error {
	doc, err := encodeDoc(holidayDoc{Name: holiday.Name})
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, holiday_date, country, doc)
		VALUES ($1, $2, $3, $4)
	`, holiday.ID, holiday.Date, holiday.Country, doc)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: holiday on %s", store.ErrDuplicate, holiday.DateString())
		}
		return MapError(err)
	}
	return nil
}
