// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/lcmsadmin/internal/app/store/audit"
	"github.com/dalemusser/lcmsadmin/internal/app/system/httpjson"
	"github.com/dalemusser/lcmsadmin/internal/app/system/paging"
	"github.com/dalemusser/lcmsadmin/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/spf13/cast"
)

const dateLayout = "2006-01-02"

// ServeList handles GET /admin-logs.
//
// Filters: action, entity, adminId, start_date and end_date (YYYY-MM-DD,
// end date inclusive). Results are newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "admin log list")
	defer cancel()

	page, limit := paging.Params(r)
	f := audit.QueryFilter{
		Action: strings.ToUpper(strings.TrimSpace(query.Get(r, "action"))),
		Entity: strings.TrimSpace(query.Get(r, "entity")),
		Skip:   paging.Skip(page, limit),
		Limit:  limit,
	}
	if v := strings.TrimSpace(query.Get(r, "adminId")); v != "" {
		id, err := cast.ToInt64E(v)
		if err != nil {
			httpjson.Fail(w, http.StatusBadRequest, "adminId inválido")
			return
		}
		f.AdminID = id
	}
	if t, err := time.Parse(dateLayout, strings.TrimSpace(query.Get(r, "start_date"))); err == nil {
		f.Since = &t
	}
	if t, err := time.Parse(dateLayout, strings.TrimSpace(query.Get(r, "end_date"))); err == nil {
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.Until = &end
	}

	entries, total, err := h.Store.List(ctx, f)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, paging.Wrap(entries, paging.Compute(page, limit, total)))
}
