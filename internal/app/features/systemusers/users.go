// internal/app/features/systemusers/users.go
package systemusers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/lcmsadmin/internal/app/features/shared"
	userstore "github.com/dalemusser/lcmsadmin/internal/app/store/users"
	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/app/system/auditlog"
	"github.com/dalemusser/lcmsadmin/internal/app/system/httpjson"
	"github.com/dalemusser/lcmsadmin/internal/app/system/paging"
	"github.com/dalemusser/lcmsadmin/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/spf13/cast"
)

const (
	invalidIDMessage = "ID do usuário deve ser um número válido"
	notFoundMessage  = "Usuário não encontrado"
)

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		httpjson.Fail(w, http.StatusBadRequest, invalidIDMessage)
	}
	return id, ok
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, apperr.ErrNotFound) {
		httpjson.Fail(w, http.StatusNotFound, notFound)
		return
	}
	h.Errors.Error(w, r, err)
}

// ServeList handles GET /users. Query: status (active, inactive, all;
// default active), role, search (nome prefix), page, limit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "user list")
	defer cancel()

	f := userstore.ListFilter{
		Status: strings.ToLower(query.Get(r, "status")),
		Role:   query.Get(r, "role"),
		Search: query.Get(r, "search"),
	}
	page, limit := paging.Params(r)
	users, total, err := h.Users.List(ctx, f, paging.Skip(page, limit), limit)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, paging.Wrap(users, paging.Compute(page, limit, total)))
}

// ServeGet handles GET /users/{id}. Inactive users are not found.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "user get")
	defer cancel()

	u, err := h.Users.GetActiveByID(ctx, id)
	if err != nil {
		h.fail(w, r, err, "Usuário não encontrado ou inativo")
		return
	}
	httpjson.OK(w, map[string]any{"data": u})
}

// HandleCreate handles POST /users.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	in, err := req.input()
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "user create")
	defer cancel()

	u, err := h.Users.Create(ctx, in)
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	auditlog.SetEntity(r, "users", cast.ToString(u.ID))
	httpjson.Status(w, http.StatusCreated, map[string]any{
		"message": "Usuário criado com sucesso",
		"data":    u,
	})
}

// HandleUpdate handles PUT /users/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req userRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	in, err := req.input()
	if err != nil {
		h.Errors.Error(w, r, err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "user update")
	defer cancel()

	u, changed, err := h.Users.Update(ctx, id, in)
	if err != nil {
		h.fail(w, r, err, notFoundMessage)
		return
	}
	msg := "Usuário atualizado com sucesso"
	if !changed {
		msg = "Nenhuma alteração foi feita"
	}
	httpjson.OK(w, map[string]any{"message": msg, "data": u})
}

// HandleDeactivate handles DELETE /users/{id}.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// HandleReactivate handles PATCH /users/{id}/reactivate.
func (h *Handler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "user set active")
	defer cancel()

	okMsg, failMsg := "Usuário desativado com sucesso", "Erro ao desativar usuário"
	if active {
		okMsg, failMsg = "Usuário reativado com sucesso", "Erro ao reativar usuário"
	}

	err := h.Users.SetActive(ctx, id, active)
	switch {
	case errors.Is(err, userstore.ErrNotModified):
		httpjson.Fail(w, http.StatusInternalServerError, failMsg)
	case err != nil:
		h.fail(w, r, err, notFoundMessage)
	default:
		httpjson.OK(w, map[string]any{"message": okMsg})
	}
}
