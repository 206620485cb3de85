package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/places-api/internal/api/middleware"
)

// Routes mounts the place and user endpoints on r. Mutating place routes sit
// behind the auth guard and the credential endpoints behind the rate limiter.
func Routes(r chi.Router, places *PlaceHandler, users *UserHandler, guard *middleware.AuthMiddleware, limiter *middleware.RateLimiter) {
	r.Route("/places", func(r chi.Router) {
		r.Get("/{placeId}", places.GetPlace)
		r.Get("/user/{userId}", places.ListPlacesByUser)

		r.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Post("/", places.CreatePlace)
			r.Patch("/{placeId}", places.UpdatePlace)
			r.Delete("/{placeId}", places.DeletePlace)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", users.ListUsers)

		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Limit)
			}
			r.Post("/signup", users.SignUp)
			r.Post("/login", users.Login)
		})
	})
}
