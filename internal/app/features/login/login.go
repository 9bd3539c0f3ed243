// internal/app/features/login/login.go
package login

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	userstore "github.com/dalemusser/lcmsadmin/internal/app/store/users"
	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/app/system/auditlog"
	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/dalemusser/lcmsadmin/internal/app/system/httpjson"
	"github.com/dalemusser/lcmsadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/lcmsadmin/internal/app/system/timeouts"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"go.uber.org/zap"
)

const successMessage = "Login realizado com sucesso"

type credentials struct {
	Email string `json:"email"` // userName or email
	Senha string `json:"senha"`
}

// sessionData is the user block returned by login and /auth/me.
func sessionData(u models.User) map[string]any {
	perms := u.Roles
	if perms == nil {
		perms = []string{}
	}
	return map[string]any{"user": u, "permissions": perms}
}

// authenticate runs the shared part of both logins. On failure it has
// already written the response.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	var c credentials
	if err := httpjson.Decode(r, &c); err != nil || strings.TrimSpace(c.Email) == "" || c.Senha == "" {
		httpjson.Fail(w, http.StatusBadRequest, "email e senha são obrigatórios")
		return models.User{}, false
	}
	if ok, msg := h.Limiter.Check(r, c.Email); !ok {
		h.Log.Warn("login throttled", zap.String("login", c.Email), zap.String("ip", ratelimit.ClientIP(r)))
		httpjson.Fail(w, http.StatusTooManyRequests, msg)
		return models.User{}, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "login lookup")
	defer cancel()

	u, err := h.Users.FindActiveByLogin(ctx, c.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		httpjson.Fail(w, http.StatusUnauthorized, "Usuário não encontrado")
		return models.User{}, false
	}
	if err != nil {
		h.Errors.Error(w, r, err)
		return models.User{}, false
	}
	if !userstore.CheckPassword(u.Pass, c.Senha) {
		h.Log.Info("login failed: bad password", zap.Int64("user_id", u.ID))
		httpjson.Fail(w, http.StatusUnauthorized, "Senha incorreta")
		return models.User{}, false
	}
	h.Limiter.Succeeded(c.Email)
	return u, true
}

// HandleLogin handles POST /auth/login for the admin platform. The token
// goes in the HttpOnly cookie.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	u, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	token, err := h.Auth.Issue(u)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	h.Auth.SetCookie(w, token)
	auditlog.SetActor(r, &u)

	h.Log.Info("user logged in", zap.Int64("user_id", u.ID), zap.String("user_name", u.UserName))
	httpjson.OK(w, map[string]any{
		"message": successMessage,
		"data":    sessionData(u),
	})
}

// HandleContentLogin handles POST /auth/login/conteudo for the learning
// frontend. The token is returned in the body along with the menu of the
// user's first role, or null when there is none.
func (h *Handler) HandleContentLogin(w http.ResponseWriter, r *http.Request) {
	u, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var menu []models.FrontendNode
	if role := u.FirstRole(); role != "" {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "login menu")
		m, err := h.Menus.GetByRole(ctx, role)
		cancel()
		switch {
		case err == nil:
			menu = models.FormatForFrontend(m.MenusItensArray)
		case errors.Is(err, apperr.ErrNotFound):
		default:
			h.Errors.Error(w, r, err)
			return
		}
	}

	token, err := h.Auth.Issue(u)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	httpjson.OK(w, map[string]any{
		"message": successMessage,
		"id_usu":  u.ID,
		"roles":   roles,
		"token":   token,
		"menu":    menu,
	})
}

// ServeMe handles GET /auth/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, auth.UnauthorizedMessage)
		return
	}
	httpjson.OK(w, map[string]any{"data": sessionData(*u)})
}

// HandleChangePassword handles PUT /auth/password.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName string `json:"userName"`
		OldPass  string `json:"oldPass"`
		NewPass  string `json:"newPass"`
	}
	if err := httpjson.Decode(r, &req); err != nil ||
		strings.TrimSpace(req.UserName) == "" || req.OldPass == "" || req.NewPass == "" {
		httpjson.Fail(w, http.StatusBadRequest, "userName, senha atual e nova senha são obrigatórios")
		return
	}
	if utf8.RuneCountInString(req.NewPass) < 6 {
		httpjson.Fail(w, http.StatusBadRequest, "Nova senha deve ter pelo menos 6 caracteres")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "change password")
	defer cancel()

	err := h.Users.ChangePassword(ctx, req.UserName, req.OldPass, req.NewPass)
	switch {
	case errors.Is(err, userstore.ErrBadCredentials):
		httpjson.Fail(w, http.StatusUnauthorized, "Senha atual incorreta")
	case err != nil:
		h.Errors.Error(w, r, err)
	default:
		httpjson.OK(w, map[string]any{"message": "Senha atualizada com sucesso"})
	}
}
