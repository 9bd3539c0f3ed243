// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account in the usuarios collection. Unlike menus, a user's
// roles are stored as an array.
//
// NOTE:
//   - Pass holds the bcrypt hash and is never serialized to JSON.
//   - Users are never removed; DELETE flips Ativo to false.
type User struct {
	MongoID  primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID       int64              `bson:"id" json:"id"`
	Email    string             `bson:"email,omitempty" json:"email"`
	UserName string             `bson:"userName,omitempty" json:"userName"`
	Pass     string             `bson:"pass" json:"-"`
	Nome     string             `bson:"nome" json:"nome"`
	NomeCI   string             `bson:"nomeCI,omitempty" json:"-"` // folded Nome for prefix search
	Roles    []string           `bson:"roles" json:"roles"`
	Ativo    bool               `bson:"ativo" json:"ativo"`

	Perfil         *string        `bson:"perfil,omitempty" json:"perfil,omitempty"`
	Matricula      *string        `bson:"matricula,omitempty" json:"matricula,omitempty"`
	RA             *string        `bson:"ra,omitempty" json:"ra,omitempty"`
	DataNascimento *time.Time     `bson:"dataNascimento,omitempty" json:"dataNascimento,omitempty"`
	Formacao       *string        `bson:"formacao,omitempty" json:"formacao,omitempty"`
	Experiencia    *string        `bson:"experiencia,omitempty" json:"experiencia,omitempty"`
	Especialidade  *string        `bson:"especialidade,omitempty" json:"especialidade,omitempty"`
	Responsaveis   *string        `bson:"responsaveis,omitempty" json:"responsaveis,omitempty"`
	Extra          map[string]any `bson:"extra,omitempty" json:"extra,omitempty"`

	CreatedAt time.Time `bson:"__new" json:"createdAt"`
	UpdatedAt time.Time `bson:"__editado" json:"updatedAt"`
}

// HasRole reports whether the user carries role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user may use the admin API.
func (u User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// FirstRole returns the first role, used to pick the content menu at login.
func (u User) FirstRole() string {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0]
}
