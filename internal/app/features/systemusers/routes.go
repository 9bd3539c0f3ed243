// internal/app/features/systemusers/routes.go
package systemusers

import (
	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/dalemusser/lcmsadmin/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user administration routes (typically at "/users").
//
//	h := systemusers.NewHandler(users, errs, logger)
//	r.Mount("/users", systemusers.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Use(authz.RequireAdmin)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.HandleUpdate)
	// Users are never removed; DELETE deactivates.
	r.Delete("/{id}", h.HandleDeactivate)
	r.Patch("/{id}/reactivate", h.HandleReactivate)
	return r
}
