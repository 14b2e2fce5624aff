package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/internbook/internbook-api/internal/api"
	"github.com/internbook/internbook-api/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
//
// /metrics exposes this process's registry only. Workers share the API port
// through SO_REUSEPORT, so each scrape is answered by whichever worker the
// kernel picks; aggregate across scrapes rather than reading one as the
// whole server. The supervisor's own metrics are served on
// server.metrics_addr.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.RequestLogger)
	r.Use(app.metrics.Middleware)
	r.Use(chimiddleware.Recoverer)

	authHandler := api.NewAuthHandler(app.interns, app.tokens, app.logger)
	internHandler := api.NewInternHandler(app.interns, app.logger)
	holidayHandler := api.NewHolidayHandler(app.holidays, app.logger)
	bookingHandler := api.NewBookingHandler(app.bookings, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/interns", internHandler.ListInterns)
		r.Get("/interns/{id}", internHandler.GetIntern)
		r.Get("/holidays", holidayHandler.ListHolidays)

		// Bookings sit behind the request gate
		r.Route("/bookings", func(r chi.Router) {
			r.Use(app.gate.Protect)
			r.Post("/", bookingHandler.CreateBooking)
			r.Get("/", bookingHandler.ListBookings)
			r.Get("/{id}", bookingHandler.GetBooking)
			r.Put("/{id}", bookingHandler.UpdateBooking)
			r.Delete("/{id}", bookingHandler.DeleteBooking)
		})
	})

	r.Handle("/metrics", app.metrics.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
