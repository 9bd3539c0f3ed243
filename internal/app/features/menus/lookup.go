// internal/app/features/menus/lookup.go
package menus

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/app/system/httpjson"
	"github.com/dalemusser/lcmsadmin/internal/app/system/timeouts"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// roleMenu is a menu whose tree is in the navigation shape.
type roleMenu struct {
	ID    int64                 `json:"id"`
	Title string                `json:"title"`
	Roles models.RoleSet        `json:"roles"`
	Menu  []models.FrontendNode `json:"menu"`
}

// ServeByPerfil handles GET /menus/perfil/{perfil}: every non-deleted menu
// listing perfil as one of its roles.
func (h *Handler) ServeByPerfil(w http.ResponseWriter, r *http.Request) {
	perfil := strings.TrimSpace(chi.URLParam(r, "perfil"))
	if perfil == "" {
		httpjson.Fail(w, http.StatusBadRequest, "Perfil é obrigatória")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "menus by perfil")
	defer cancel()

	menus, err := h.Menus.GetByPerfil(ctx, perfil)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	if len(menus) == 0 {
		httpjson.Fail(w, http.StatusNotFound, "Nenhum menu encontrado para essa perfil")
		return
	}
	httpjson.OK(w, map[string]any{"count": len(menus), "data": menus})
}

// ServeByRole handles GET /menus/role/{role}: the first active menu for
// role with its tree formatted for navigation.
func (h *Handler) ServeByRole(w http.ResponseWriter, r *http.Request) {
	role := strings.TrimSpace(chi.URLParam(r, "role"))
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "menu by role")
	defer cancel()

	m, err := h.Menus.GetByRole(ctx, role)
	if errors.Is(err, apperr.ErrNotFound) {
		httpjson.Fail(w, http.StatusNotFound, "Nenhum menu ativo encontrado para este perfil")
		return
	}
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	httpjson.OK(w, map[string]any{"data": roleMenu{
		ID:    m.ID,
		Title: m.Title,
		Roles: m.Roles,
		Menu:  models.FormatForFrontend(m.MenusItensArray),
	}})
}

type provisionRequest struct {
	Roles []string `json:"roles"`
}

// HandleProvision handles POST /menus/provision. The body may name the
// roles to provision; an empty body provisions the default roles.
func (h *Handler) HandleProvision(w http.ResponseWriter, r *http.Request) {
	var req provisionRequest
	if err := httpjson.Decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		httpjson.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	for _, role := range req.Roles {
		if !models.IsValidRole(role) {
			httpjson.Fail(w, http.StatusBadRequest, "Perfil inválido: "+role)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Provision(), h.Log, "menu provisioning")
	defer cancel()

	rep, err := h.Provisioner.ProvisionMenus(ctx, req.Roles)
	if err != nil {
		h.Log.Warn("menu provisioning finished with failures", zap.Strings("failed", rep.Failed), zap.Error(err))
		httpjson.Write(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Falha ao provisionar menus: " + strings.Join(rep.Failed, ", "),
			"data":    rep,
		})
		return
	}
	httpjson.OK(w, map[string]any{"message": "Menus provisionados com sucesso", "data": rep})
}
