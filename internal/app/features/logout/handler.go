// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/dalemusser/lcmsadmin/internal/app/system/httpjson"
	"go.uber.org/zap"
)

type Handler struct {
	Log  *zap.Logger
	Auth *auth.Manager
}

func NewHandler(authMgr *auth.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:  logger,
		Auth: authMgr,
	}
}

// HandleLogout handles POST /auth/logout. The cookie is cleared even when
// the caller is not signed in; a bearer token stays valid until it expires.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.Log.Info("user logged out", zap.Int64("user_id", u.ID), zap.String("user_name", u.UserName))
	}
	h.Auth.ClearCookie(w)
	httpjson.OK(w, map[string]any{"message": "Logout realizado com sucesso"})
}
