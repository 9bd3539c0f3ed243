// internal/domain/models/menuitem.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuItem is a single navigable leaf stored in the menuItens collection.
// A MenuItem may be referenced by several menus; menus keep a denormalized
// copy of it (see MenuNode) rather than a live reference.
type MenuItem struct {
	MongoID  primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID       int64              `bson:"id" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Name     string             `bson:"name" json:"name"` // equals Title for API writes; seed items keep their own
	Path     string             `bson:"path" json:"path"`
	IconName string             `bson:"iconName,omitempty" json:"iconName,omitempty"`
	Roles    RoleSet            `bson:"roles" json:"roles"`
	Props    map[string]any     `bson:"props" json:"props,omitempty"`
	ParentID *int64             `bson:"parentId,omitempty" json:"parentId,omitempty"`
	Ativo    *bool              `bson:"ativo,omitempty" json:"ativo,omitempty"`

	IsDeleted bool      `bson:"isDeleted,omitempty" json:"isDeleted"`
	CreatedAt time.Time `bson:"__new" json:"createdAt"`
	UpdatedAt time.Time `bson:"__editado" json:"updatedAt"`
}

// MenuItemView is the client shape of a MenuItem: roles as a list, empty
// strings and an empty props object instead of absent fields.
type MenuItemView struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	IconName  string         `json:"iconName"`
	Path      string         `json:"path"`
	Props     map[string]any `json:"props"`
	Name      string         `json:"name"`
	Roles     []string       `json:"roles"`
	ParentID  *int64         `json:"parentId"`
	IsDeleted bool           `json:"isDeleted"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// View returns the client shape of m.
func (m MenuItem) View() MenuItemView {
	props := m.Props
	if props == nil {
		props = map[string]any{}
	}
	roles := []string(m.Roles)
	if roles == nil {
		roles = []string{}
	}
	return MenuItemView{
		ID:        m.ID,
		Title:     m.Title,
		IconName:  m.IconName,
		Path:      m.Path,
		Props:     props,
		Name:      m.Name,
		Roles:     roles,
		ParentID:  m.ParentID,
		IsDeleted: m.IsDeleted,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
