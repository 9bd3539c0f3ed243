// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/dalemusser/lcmsadmin/internal/app/system/httpjson"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
)

// ForbiddenMessage is the body error for non-admin callers.
const ForbiddenMessage = "Acesso restrito a administradores."

// IsAdmin reports whether the current request's user carries the admin role.
func IsAdmin(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.IsAdmin()
}

// UserID returns the current user's numeric id, or 0 when anonymous.
func UserID(r *http.Request) int64 {
	if u, ok := auth.CurrentUser(r); ok {
		return u.ID
	}
	return 0
}

// RequireAdmin answers 403 unless the signed-in user is an admin. An
// anonymous caller also gets 403, matching the admin-only API contract.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin)(next)
}

// RequireRole answers 403 unless the user has one of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HasAnyRole(r, roles...) {
				msg := ForbiddenMessage
				if len(roles) != 1 || roles[0] != models.RoleAdmin {
					msg = "Acesso negado"
				}
				httpjson.Fail(w, http.StatusForbidden, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
