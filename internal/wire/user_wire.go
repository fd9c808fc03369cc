package wire

import (
	"media-review/internal/adaptor"
	"media-review/internal/policy"
	"media-review/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures the caller's profile and admin user management.
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, log *zap.Logger) {
	r.Route("/users", func(r chi.Router) {
		// /users/me is matched before /users/{username}
		r.Route("/me", func(r chi.Router) {
			r.With(middleware.Authorize(policy.ResourceProfile, policy.ActionRead, log)).Get("/", userHandler.GetProfile)
			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(policy.ResourceProfile, policy.ActionUpdate, log))
				r.Patch("/", userHandler.PatchProfile)
				r.Put("/", userHandler.ReplaceProfile)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(policy.ResourceUser, policy.ActionRead, log))

			r.Get("/", userHandler.GetAllUsers)             // GET /api/v1/users?search=&page=1&per_page=10
			r.Post("/", userHandler.CreateUser)             // POST /api/v1/users
			r.Get("/{username}", userHandler.GetUser)       // GET /api/v1/users/{username}
			r.Patch("/{username}", userHandler.PatchUser)   // PATCH /api/v1/users/{username}
			r.Put("/{username}", userHandler.ReplaceUser)   // PUT /api/v1/users/{username}
			r.Delete("/{username}", userHandler.DeleteUser) // DELETE /api/v1/users/{username}
		})
	})
}
