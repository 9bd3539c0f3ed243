// internal/app/system/auditlog/middleware.go
package auditlog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/dalemusser/lcmsadmin/internal/app/system/reqid"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodySnapshot bounds how much of a request body is kept for the log.
const maxBodySnapshot = 64 << 10

var (
	stripPrefixes = []string{"/api", "/v1"}
	ignorePath    = regexp.MustCompile(`(?i)^/health`)
	authEvent     = regexp.MustCompile(`(?i)/(login|logout)\b`)
	loginPath     = regexp.MustCompile(`(?i)/login\b`)
	logoutPath    = regexp.MustCompile(`(?i)/logout\b`)
)

var methodAction = map[string]string{
	http.MethodPost:   models.ActionCreate,
	http.MethodPut:    models.ActionUpdate,
	http.MethodPatch:  models.ActionUpdate,
	http.MethodDelete: models.ActionDelete,
}

// requestNote lets handlers refine what the middleware records.
type requestNote struct {
	actor    *models.User
	entity   string
	entityID string
}

type noteKey struct{}

func noteFrom(r *http.Request) *requestNote {
	n, _ := r.Context().Value(noteKey{}).(*requestNote)
	return n
}

// SetActor names the user an action is attributed to when it differs from
// the request's signed-in user, as on login.
func SetActor(r *http.Request, u *models.User) {
	if n := noteFrom(r); n != nil {
		n.actor = u
	}
}

// SetEntity overrides the entity and id derived from the path.
func SetEntity(r *http.Request, entity, id string) {
	if n := noteFrom(r); n != nil {
		n.entity = entity
		n.entityID = id
	}
}

// Middleware records mutating requests made by admins once the response
// has been written. It must run after auth.LoadUser.
func Middleware(w *Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if !w.Enabled() || ignorePath.MatchString(path) || !shouldLog(r.Method, path) {
				next.ServeHTTP(rw, r)
				return
			}

			start := time.Now()
			body := snapshotBody(r)
			note := &requestNote{}
			r = r.WithContext(context.WithValue(r.Context(), noteKey{}, note))
			ww := middleware.NewWrapResponseWriter(rw, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			actor := note.actor
			if actor == nil {
				actor, _ = auth.CurrentUser(r)
			}
			if actor == nil || !actor.IsAdmin() {
				return
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			params := routeParams(r)
			entity := note.entity
			if entity == "" {
				entity = entityFromPath(path)
			}
			entityID := note.entityID
			if entityID == "" {
				if id, ok := params["id"].(string); ok {
					entityID = id
				}
			}

			w.Record(models.AdminLog{
				AdminID:       actor.ID,
				AdminUserName: actor.UserName,
				AdminRoles:    append([]string{}, actor.Roles...),
				Action:        actionFor(r.Method, path),
				Entity:        entity,
				EntityID:      entityID,
				Method:        strings.ToUpper(r.Method),
				Endpoint:      r.URL.RequestURI(),
				StatusCode:    status,
				IP:            clientIP(r),
				UserAgent:     r.UserAgent(),
				RequestID:     reqid.FromContext(r.Context()),
				Request: models.AdminRequest{
					Params: Sanitize(params),
					Query:  Sanitize(queryMap(r)),
					Body:   sanitizeValue(body, 0),
				},
				DurationMs: time.Since(start).Milliseconds(),
				CreatedAt:  start.UTC(),
			})
		})
	}
}

func shouldLog(method, path string) bool {
	_, mutating := methodAction[strings.ToUpper(method)]
	return mutating || authEvent.MatchString(path)
}

// actionFor maps a request to an admin log action. Auth paths win over
// the method; methods that change nothing are READ.
func actionFor(method, path string) string {
	switch {
	case logoutPath.MatchString(path):
		return models.ActionLogout
	case loginPath.MatchString(path):
		return models.ActionLogin
	}
	if a, ok := methodAction[strings.ToUpper(method)]; ok {
		return a
	}
	return models.ActionRead
}

// entityFromPath returns the first path segment after an optional API
// prefix: /api/users/12 is "users", / is "root".
func entityFromPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	for _, p := range stripPrefixes {
		if strings.HasPrefix(path, p) {
			path = path[len(p):]
			break
		}
	}
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}
	return "root"
}

// clientIP prefers the first X-Forwarded-For hop.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// snapshotBody reads a bounded copy of a JSON body and restores r.Body so
// the handler still sees all of it.
func snapshotBody(r *http.Request) any {
	if r.Body == nil || r.Body == http.NoBody {
		return map[string]any{}
	}
	buf, err := io.ReadAll(io.LimitReader(r.Body, maxBodySnapshot))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(buf), r.Body), r.Body}
	if err != nil || len(buf) == 0 || len(buf) == maxBodySnapshot {
		return map[string]any{}
	}
	var v any
	if json.Unmarshal(buf, &v) != nil {
		return map[string]any{}
	}
	return v
}

func routeParams(r *http.Request) map[string]any {
	out := map[string]any{}
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return out
	}
	for i, k := range rctx.URLParams.Keys {
		if k == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		out[k] = rctx.URLParams.Values[i]
	}
	return out
}

func queryMap(r *http.Request) map[string]any {
	out := map[string]any{}
	for k, vs := range r.URL.Query() {
		if len(vs) == 1 {
			out[k] = vs[0]
		} else {
			out[k] = vs
		}
	}
	return out
}
