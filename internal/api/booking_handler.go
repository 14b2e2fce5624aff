package api

import (
	"log/slog"
	"net/http"

	"github.com/internbook/internbook-api/internal/api/shared"
	"github.com/internbook/internbook-api/internal/platform/logger"
	"github.com/internbook/internbook-api/internal/service"
)

// BookingHandler serves the protected booking routes. Every handler acts
// as the intern verified by the request gate.
type BookingHandler struct {
	bookings service.BookingService
	logger   *slog.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings service.BookingService, logger *slog.Logger) *BookingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingHandler{
		bookings: bookings,
		logger:   logger.With(slog.String("component", "booking_handler")),
	}
}

func (req BookingRequest) toInput() service.BookingInput {
	return service.BookingInput{
		Resource: req.Resource,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Note:     req.Note,
	}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	internID, ok := requireInternID(w, r, log)
	if !ok {
		return
	}

	var req BookingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), internID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create booking")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, bookingToResponse(booking))
}

// ListBookings handles GET /api/bookings.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	internID, ok := requireInternID(w, r, log)
	if !ok {
		return
	}

	bookings, err := h.bookings.ListBookings(r.Context(), internID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list bookings")
		return
	}

	resp := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, bookingToResponse(b))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetBooking handles GET /api/bookings/{id}.
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	internID, bookingID, ok := handleInternIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	booking, err := h.bookings.GetBooking(r.Context(), internID, bookingID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get booking")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, bookingToResponse(booking))
}

// UpdateBooking handles PUT /api/bookings/{id}.
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	internID, bookingID, ok := handleInternIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req BookingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	booking, err := h.bookings.UpdateBooking(r.Context(), internID, bookingID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update booking")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, bookingToResponse(booking))
}

// DeleteBooking handles DELETE /api/bookings/{id}.
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	internID, bookingID, ok := handleInternIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.bookings.DeleteBooking(r.Context(), internID, bookingID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete booking")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
