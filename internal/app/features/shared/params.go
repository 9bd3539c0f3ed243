// internal/app/features/shared/params.go
package shared

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"
)

// InvalidIDMessage answers a non-numeric {id} path parameter.
const InvalidIDMessage = "ID inválido"

// PathID parses the numeric {name} route parameter. It reports false for
// a missing, non-numeric or non-positive value.
func PathID(r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return 0, false
	}
	id, err := cast.ToInt64E(raw)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
