// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
)

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...string) bool {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}
	for _, have := range u.Roles {
		have = strings.ToLower(strings.TrimSpace(have))
		for _, want := range roles {
			if have == strings.ToLower(strings.TrimSpace(want)) {
				return true
			}
		}
	}
	return false
}

// HasRole is a convenience wrapper for a single role.
func HasRole(r *http.Request, role string) bool {
	return HasAnyRole(r, role)
}

// Roles returns the current user's roles and whether a user is present.
func Roles(r *http.Request) ([]string, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return nil, false
	}
	return u.Roles, true
}
