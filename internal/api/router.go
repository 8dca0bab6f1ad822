package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	mux := chi.NewRouter()
	mux.Use(mw.Log, mw.Recover, mw.Cors)

	mux.Route("/api", func(r chi.Router) {
		r.HandleFunc("/health", h.HealthHandler)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(mw.SessionAuth)
				r.Post("/logout", h.Logout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.SessionAuth)

			r.Get("/floors", h.Floors)
			r.Get("/users", h.Users)

			r.Route("/{domain}", func(r chi.Router) {
				r.Get("/resources", h.Resources)
				r.Post("/availability", h.CheckAvailability)

				r.Route("/bookings", func(r chi.Router) {
					r.Get("/", h.Bookings)
					r.Post("/", h.CreateBooking)
					r.Patch("/{id}", h.UpdateBooking)
					r.Delete("/{id}", h.CancelBooking)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notifications)
				r.Get("/count", h.NotificationCount)
				r.Post("/{id}/read", h.MarkNotificationRead)
			})
		})
	})

	return mux
}
