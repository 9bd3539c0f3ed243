// internal/app/features/menus/crud.go
package menus

import (
	"errors"
	"net/http"

	"github.com/dalemusser/lcmsadmin/internal/app/features/shared"
	menustore "github.com/dalemusser/lcmsadmin/internal/app/store/menus"
	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lcmsadmin/internal/app/system/httpjson"
	"github.com/dalemusser/lcmsadmin/internal/app/system/paging"
	"github.com/dalemusser/lcmsadmin/internal/app/system/timeouts"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
)

const (
	invalidIDMessage = "ID da menu deve ser um número válido"
	notFoundMessage  = "Menu não encontrada"
)

// menuRequest is the body of POST and PUT /menus. Roles may be a list or a
// comma-joined string.
type menuRequest struct {
	Title           *string            `json:"title"`
	Roles           *models.RoleSet    `json:"roles"`
	MenusItensArray *[]models.MenuNode `json:"menusItensArray"`
	Ativo           *bool              `json:"ativo"`
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		httpjson.Fail(w, http.StatusNotFound, notFoundMessage)
		return
	}
	h.Errors.Error(w, r, err)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		httpjson.Fail(w, http.StatusBadRequest, invalidIDMessage)
	}
	return id, ok
}

// ServeList handles GET /menus.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "menu list")
	defer cancel()

	page, limit := paging.Params(r)
	menus, total, err := h.Menus.List(ctx, paging.Skip(page, limit), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, paging.Wrap(menus, paging.Compute(page, limit, total)))
}

// ServeGet handles GET /menus/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "menu get")
	defer cancel()

	m, err := h.Menus.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpjson.OK(w, map[string]any{"data": m})
}

// HandleCreate handles POST /menus.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req menuRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	title := ""
	if req.Title != nil {
		title = htmlsanitize.Text(*req.Title)
	}
	var roles models.RoleSet
	if req.Roles != nil {
		roles = *req.Roles
	}
	var tree []models.MenuNode
	if req.MenusItensArray != nil {
		tree = *req.MenusItensArray
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "menu create")
	defer cancel()

	m, err := h.Menus.Create(ctx, title, roles, tree, req.Ativo)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpjson.Status(w, http.StatusCreated, map[string]any{
		"message": "Menu criada com sucesso",
		"data":    m,
	})
}

// HandleUpdate handles PUT /menus/{id}. Only the fields sent change.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req menuRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "menu update")
	defer cancel()

	m, changed, err := h.Menus.UpdateByID(ctx, id, menustore.Patch{
		Title:           htmlsanitize.TextPtr(req.Title),
		Roles:           req.Roles,
		MenusItensArray: req.MenusItensArray,
		Ativo:           req.Ativo,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	msg := "Menu atualizada com sucesso"
	if !changed {
		msg = "Nenhuma alteração foi feita"
	}
	httpjson.OK(w, map[string]any{"message": msg, "data": m})
}

// HandleDelete handles DELETE /menus/{id}. The menu is flagged isDeleted.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "menu delete")
	defer cancel()

	err := h.Menus.SoftDelete(ctx, id)
	switch {
	case errors.Is(err, menustore.ErrNotModified):
		httpjson.Fail(w, http.StatusInternalServerError, err.Error())
	case err != nil:
		h.fail(w, r, err)
	default:
		httpjson.OK(w, map[string]any{"message": "Menu deletada com sucesso"})
	}
}
