// internal/app/features/menuitems/items.go
package menuitems

import (
	"errors"
	"net/http"

	"github.com/dalemusser/lcmsadmin/internal/app/features/shared"
	menuitemstore "github.com/dalemusser/lcmsadmin/internal/app/store/menuitems"
	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lcmsadmin/internal/app/system/httpjson"
	"github.com/dalemusser/lcmsadmin/internal/app/system/paging"
	"github.com/dalemusser/lcmsadmin/internal/app/system/timeouts"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
)

const notFoundMessage = "MenuItens não encontrado"

// itemRequest is the body of POST and PUT. Roles may be sent as a list
// or as a comma-joined string. A name field is ignored: it follows title.
type itemRequest struct {
	Title    *string         `json:"title"`
	IconName *string         `json:"iconName"`
	Path     *string         `json:"path"`
	Roles    *models.RoleSet `json:"roles"`
	Props    map[string]any  `json:"props"`
	ParentID *int64          `json:"parentId"`
}

func (req itemRequest) input() menuitemstore.Input {
	return menuitemstore.Input{
		Title:    htmlsanitize.TextPtr(req.Title),
		IconName: req.IconName,
		Path:     req.Path,
		Roles:    req.Roles,
		Props:    req.Props,
		ParentID: req.ParentID,
	}
}

func views(items []models.MenuItem) []models.MenuItemView {
	out := make([]models.MenuItemView, 0, len(items))
	for _, m := range items {
		out = append(out, m.View())
	}
	return out
}

// fail answers not-found with the item message and everything else through
// the shared renderer.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		httpjson.Fail(w, http.StatusNotFound, notFoundMessage)
		return
	}
	h.Errors.Error(w, r, err)
}

// ServeList handles GET /menu-itens.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "menu item list")
	defer cancel()

	page, limit := paging.Params(r)
	items, total, err := h.Items.List(ctx, paging.Skip(page, limit), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, paging.Wrap(views(items), paging.Compute(page, limit, total)))
}

// ServeGet handles GET /menu-itens/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		httpjson.Fail(w, http.StatusBadRequest, shared.InvalidIDMessage)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "menu item get")
	defer cancel()

	m, err := h.Items.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpjson.OK(w, map[string]any{"data": m.View()})
}

// HandleCreate handles POST /menu-itens.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "menu item create")
	defer cancel()

	m, err := h.Items.Create(ctx, req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpjson.Status(w, http.StatusCreated, map[string]any{
		"message": "MenuItens criado com sucesso",
		"data":    m.View(),
	})
}

// HandleUpdate handles PUT /menu-itens/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		httpjson.Fail(w, http.StatusBadRequest, shared.InvalidIDMessage)
		return
	}
	var req itemRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "menu item update")
	defer cancel()

	m, changed, err := h.Items.Update(ctx, id, req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	msg := "Atualizado com sucesso"
	if !changed {
		msg = "Nenhuma alteração feita"
	}
	httpjson.OK(w, map[string]any{"message": msg, "data": m.View()})
}

// HandleDelete handles DELETE /menu-itens/{id}. Items are never removed;
// the record is flagged isDeleted.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.softDelete(w, r, "MenuItens deletado com sucesso", "Erro ao deletar menuItens")
}

// HandleSoftDelete handles PATCH /menu-itens/{id}/soft-delete.
func (h *Handler) HandleSoftDelete(w http.ResponseWriter, r *http.Request) {
	h.softDelete(w, r, "Menu item marcado como deletado com sucesso", menuitemstore.ErrNotModified.Error())
}

func (h *Handler) softDelete(w http.ResponseWriter, r *http.Request, okMsg, notModifiedMsg string) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		httpjson.Fail(w, http.StatusBadRequest, shared.InvalidIDMessage)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "menu item delete")
	defer cancel()

	err := h.Items.SoftDelete(ctx, id)
	switch {
	case errors.Is(err, menuitemstore.ErrNotModified):
		httpjson.Fail(w, http.StatusInternalServerError, notModifiedMsg)
	case err != nil:
		h.fail(w, r, err)
	default:
		httpjson.OK(w, map[string]any{"message": okMsg})
	}
}
