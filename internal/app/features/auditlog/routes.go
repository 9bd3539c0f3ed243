// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/dalemusser/lcmsadmin/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin log routes under the path where this router is
// mounted (typically "/admin-logs" from bootstrap). Admins only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Use(authz.RequireAdmin)
	r.Get("/", h.ServeList)
	return r
}
