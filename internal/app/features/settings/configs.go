// internal/app/features/settings/configs.go
package settings

import (
	"errors"
	"net/http"

	"github.com/dalemusser/lcmsadmin/internal/app/features/shared"
	settingsstore "github.com/dalemusser/lcmsadmin/internal/app/store/settings"
	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lcmsadmin/internal/app/system/httpjson"
	"github.com/dalemusser/lcmsadmin/internal/app/system/paging"
	"github.com/dalemusser/lcmsadmin/internal/app/system/timeouts"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
)

const (
	invalidIDMessage = "ID da configuração deve ser um número válido"
	notFoundMessage  = "Configuração não encontrada"
)

type configRequest struct {
	Nome  *string        `json:"nome"`
	Tipo  *string        `json:"tipo"`
	Valor map[string]any `json:"valor"`
	Ativo *bool          `json:"ativo"`
}

func (req configRequest) input() settingsstore.Input {
	return settingsstore.Input{
		Nome:  htmlsanitize.TextPtr(req.Nome),
		Tipo:  req.Tipo,
		Valor: req.Valor,
		Ativo: req.Ativo,
	}
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		httpjson.Fail(w, http.StatusBadRequest, invalidIDMessage)
	}
	return id, ok
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		httpjson.Fail(w, http.StatusNotFound, notFoundMessage)
		return
	}
	h.Errors.Error(w, r, err)
}

// ServeList handles GET /configs.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "config list")
	defer cancel()

	page, limit := paging.Params(r)
	configs, total, err := h.Configs.List(ctx, paging.Skip(page, limit), limit)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, paging.Wrap(configs, paging.Compute(page, limit, total)))
}

// ServeGet handles GET /configs/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "config get")
	defer cancel()

	c, err := h.Configs.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpjson.OK(w, map[string]any{"data": c})
}

// HandleCreate handles POST /configs.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "config create")
	defer cancel()

	c, err := h.Configs.Create(ctx, req.input())
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	httpjson.Status(w, http.StatusCreated, map[string]any{
		"message": "Configuração criada com sucesso",
		"data":    c,
	})
}

// HandleUpdate handles PUT /configs/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req configRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "config update")
	defer cancel()

	c, changed, err := h.Configs.Update(ctx, id, req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	msg := "Configuração atualizada com sucesso"
	if !changed {
		msg = "Nenhuma alteração foi feita"
	}
	httpjson.OK(w, map[string]any{"message": msg, "data": c})
}

// HandleDelete handles DELETE /configs/{id}: the config is deactivated.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "config delete")
	defer cancel()

	err := h.Configs.Deactivate(ctx, id)
	switch {
	case errors.Is(err, settingsstore.ErrNotModified):
		httpjson.Fail(w, http.StatusInternalServerError, err.Error())
	case err != nil:
		h.fail(w, r, err)
	default:
		httpjson.OK(w, map[string]any{"message": "Configuração deletada com sucesso"})
	}
}

// ServeMenuColors handles GET /configs/menu/colors.
func (h *Handler) ServeMenuColors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "menu colors")
	defer cancel()

	colors, err := h.Configs.MenuColors(ctx)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	httpjson.OK(w, map[string]any{"data": colors})
}

// HandleSaveMenuColors handles POST /configs/menu/colors with
// {"colors": {"<role>": "<color>", ...}}. Every known role needs a color.
func (h *Handler) HandleSaveMenuColors(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Colors map[string]any `json:"colors"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "Cores são obrigatórias e devem ser um objeto")
		return
	}
	if err := settingsstore.ValidateMenuColors(req.Colors); err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "menu colors save")
	defer cancel()

	if _, err := h.Configs.SaveMenuColors(ctx, req.Colors); err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	httpjson.OK(w, map[string]any{
		"message": "Cores do menu salvas com sucesso",
		"data":    req.Colors,
	})
}

// ServeRoles handles GET /configs/roles.
func (h *Handler) ServeRoles(w http.ResponseWriter, r *http.Request) {
	httpjson.OK(w, map[string]any{"data": map[string]any{
		"roles":         models.KnownRoles,
		"defaultColors": models.DefaultRoleColors,
	}})
}
