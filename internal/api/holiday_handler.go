package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/internbook/internbook-api/internal/api/shared"
	"github.com/internbook/internbook-api/internal/domain"
	"github.com/internbook/internbook-api/internal/store"
)

const (
	minHolidayYear = 1900
	maxHolidayYear = 9999
)

// HolidayHandler serves the public holiday calendar.
type HolidayHandler struct {
	holidays store.HolidayStore
	now      func() time.Time
	logger   *slog.Logger
}

// NewHolidayHandler creates a new HolidayHandler.
func NewHolidayHandler(holidays store.HolidayStore, logger *slog.Logger) *HolidayHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HolidayHandler{
		holidays: holidays,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "holiday_handler")),
	}
}

// ListHolidays handles GET /api/holidays?year=YYYY. Without a year the
// current UTC year is used.
func (h *HolidayHandler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := h.now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < minHolidayYear || parsed > maxHolidayYear {
			HandleAPIError(w, r,
				domain.NewValidationError("year", "must be a four digit year", domain.ErrValidation), "")
			return
		}
		year = parsed
	}

	holidays, err := h.holidays.ListByYear(r.Context(), year)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list holidays")
		return
	}

	resp := make([]HolidayResponse, 0, len(holidays))
	for _, hol := range holidays {
		resp = append(resp, holidayToResponse(hol))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
