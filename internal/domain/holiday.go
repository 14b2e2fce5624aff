package domain

import (
	"time"

	"github.com/google/uuid"
)

// Holiday is a public or company holiday on a single calendar date.
type Holiday struct {
	ID      uuid.UUID `json:"id"`
	Date    time.Time `json:"date"`
	Name    string    `json:"name"`
	Country string    `json:"country,omitempty"`
}

// DateString renders the holiday date as YYYY-MM-DD.
func (h *Holiday) DateString() string {
	return h.Date.Format(time.DateOnly)
}
