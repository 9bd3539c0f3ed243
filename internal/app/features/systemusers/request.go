// internal/app/features/systemusers/request.go
package systemusers

import (
	"strings"
	"time"

	userstore "github.com/dalemusser/lcmsadmin/internal/app/store/users"
	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lcmsadmin/internal/app/system/inputval"
)

// userRequest is the body of POST and PUT /users. Absent fields are left
// alone on update; an empty dataNascimento clears it.
type userRequest struct {
	Email          *string        `json:"email"`
	UserName       *string        `json:"userName"`
	Senha          *string        `json:"senha"`
	Nome           *string        `json:"nome"`
	Roles          []string       `json:"roles"`
	Ativo          *bool          `json:"ativo"`
	Perfil         *string        `json:"perfil"`
	Matricula      *string        `json:"matricula"`
	RA             *string        `json:"ra"`
	DataNascimento *string        `json:"dataNascimento"`
	Formacao       *string        `json:"formacao"`
	Experiencia    *string        `json:"experiencia"`
	Especialidade  *string        `json:"especialidade"`
	Responsaveis   *string        `json:"responsaveis"`
	Extra          map[string]any `json:"extra"`
}

// formatChecks holds the fields whose shape is checked before the store
// applies its own rules.
type formatChecks struct {
	Email string   `json:"email" validate:"omitempty,email"`
	Roles []string `json:"roles" validate:"omitempty,dive,role"`
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (req userRequest) input() (userstore.Input, error) {
	var email string
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	if err := inputval.Struct(formatChecks{Email: email, Roles: req.Roles}); err != nil {
		return userstore.Input{}, err
	}

	in := userstore.Input{
		Email:         req.Email,
		UserName:      req.UserName,
		Senha:         req.Senha,
		Nome:          htmlsanitize.TextPtr(req.Nome),
		Roles:         req.Roles,
		Ativo:         req.Ativo,
		Perfil:        req.Perfil,
		Matricula:     req.Matricula,
		RA:            req.RA,
		Formacao:      htmlsanitize.TextPtr(req.Formacao),
		Experiencia:   htmlsanitize.TextPtr(req.Experiencia),
		Especialidade: htmlsanitize.TextPtr(req.Especialidade),
		Responsaveis:  htmlsanitize.TextPtr(req.Responsaveis),
		Extra:         req.Extra,
	}
	if req.DataNascimento != nil {
		raw := strings.TrimSpace(*req.DataNascimento)
		if raw == "" {
			in.ClearNascimento = true
		} else {
			d, ok := parseDate(raw)
			if !ok {
				return userstore.Input{}, apperr.Invalid("dataNascimento deve ser uma data válida (AAAA-MM-DD)")
			}
			in.DataNascimento = &d
		}
	}
	return in, nil
}
