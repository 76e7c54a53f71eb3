package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"time"

	"github.com/go-chi/chi/v5"
)

func attachBookingRoutes(router chi.Router, mw *middlewares.Middlewares, bookingController *controllers.BookingController) {
	router.Route("/hospitals", func(r chi.Router) {
		r.Use(mw.Authenticate)
		r.Get("/mine", bookingController.FindMyHospital)
		r.Get("/{hospitalID}", bookingController.FindHospitalByID)
	})

	router.Route("/doctors", func(r chi.Router) {
		r.Use(mw.Authenticate)
		r.Get("/", bookingController.FindDoctors)
	})

	router.Route("/availability", func(r chi.Router) {
		r.Use(mw.OptionalAuthenticate)
		r.Get("/", bookingController.FindAvailability)
	})

	router.Route("/patients", func(r chi.Router) {
		r.Use(mw.Authenticate)
		r.Get("/search", bookingController.SearchPatients)
	})

	// Submissions get a stricter per-IP budget than the global httprate
	// limit, with a temporary block once exhausted.
	submitLimiter := middlewares.NewRateLimiter(
		mw.InternalConfig.App.MaxRequests,
		time.Second,
		time.Duration(mw.InternalConfig.App.RateLimitBlockTimeInMin)*time.Minute,
	)

	router.Route("/bookings", func(r chi.Router) {
		r.Use(mw.Authenticate)
		r.Use(submitLimiter.Limit)
		r.Post("/", bookingController.CreateBooking)
		r.Post("/doctor", bookingController.CreateDoctorBooking)
	})
}
