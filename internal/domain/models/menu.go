// internal/domain/models/menu.go
package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Menu is a role's complete navigation tree (collection "menu").
type Menu struct {
	MongoID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID              int64              `bson:"id" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Roles           RoleSet            `bson:"roles" json:"roles"`
	MenusItensArray []MenuNode         `bson:"menusItensArray" json:"menusItensArray"`
	Ativo           bool               `bson:"ativo" json:"ativo"`
	IsDeleted       bool               `bson:"isDeleted,omitempty" json:"isDeleted"`
	CreatedAt       time.Time          `bson:"__new" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"__editado" json:"updatedAt"`
}

// NodeKind tags the MenuNode variant.
type NodeKind string

const (
	KindGroup NodeKind = "group"
	KindLeaf  NodeKind = "leaf"
)

// UnresolvedID is written in place of an id for group nodes and for leaves
// whose MenuItem could not be resolved. It never appears in memory: there an
// unresolved leaf has ItemID == 0.
const UnresolvedID int64 = -1

// MenuNode is one entry of a menu tree: either a Group (structural, never
// persisted as a MenuItem, has Children) or a Leaf (a resolved snapshot of a
// MenuItem). Kind says which fields are meaningful.
type MenuNode struct {
	Kind     NodeKind
	ItemID   int64 // leaf only; 0 when unresolved
	Title    string
	Name     string
	IconName string
	Path     string // leaf only
	Roles    RoleSet
	Props    map[string]any
	Children []MenuNode // group only
}

// NewGroup returns a group node. Group props always carry isTemporary.
func NewGroup(title, name, iconName string, roles RoleSet, children []MenuNode) MenuNode {
	return MenuNode{
		Kind:     KindGroup,
		Title:    title,
		Name:     name,
		IconName: iconName,
		Roles:    roles,
		Props:    map[string]any{"isTemporary": true},
		Children: children,
	}
}

// NewLeaf returns a leaf node referencing MenuItem itemID (0 if unresolved).
func NewLeaf(itemID int64, title, name, path, iconName string, roles RoleSet, props map[string]any) MenuNode {
	if props == nil {
		props = map[string]any{}
	}
	return MenuNode{
		Kind:     KindLeaf,
		ItemID:   itemID,
		Title:    title,
		Name:     name,
		IconName: iconName,
		Path:     path,
		Roles:    roles,
		Props:    props,
	}
}

// IsGroup reports whether n is a group node.
func (n MenuNode) IsGroup() bool { return n.Kind == KindGroup }

// Resolved reports whether a leaf points at a persisted MenuItem.
func (n MenuNode) Resolved() bool { return n.Kind == KindLeaf && n.ItemID > 0 }

// menuNodeWire is the stored and JSON shape. It stays compatible with
// documents written before the kind tag existed: id -1 for groups,
// children only on groups.
type menuNodeWire struct {
	Kind     NodeKind       `bson:"kind,omitempty" json:"kind,omitempty"`
	ID       int64          `bson:"id" json:"id"`
	Title    string         `bson:"title" json:"title"`
	Name     string         `bson:"name,omitempty" json:"name,omitempty"`
	IconName string         `bson:"iconName,omitempty" json:"iconName,omitempty"`
	Path     string         `bson:"path,omitempty" json:"path,omitempty"`
	Roles    RoleSet        `bson:"roles,omitempty" json:"roles,omitempty"`
	Props    map[string]any `bson:"props,omitempty" json:"props,omitempty"`
	Children []MenuNode     `bson:"children,omitempty" json:"children,omitempty"`
}

func (n MenuNode) toWire() menuNodeWire {
	w := menuNodeWire{
		Kind:     n.Kind,
		ID:       UnresolvedID,
		Title:    n.Title,
		Name:     n.Name,
		IconName: n.IconName,
		Roles:    n.Roles,
		Props:    n.Props,
	}
	if n.Kind == KindGroup {
		w.Children = n.Children
		if w.Children == nil {
			w.Children = []MenuNode{}
		}
		return w
	}
	if n.ItemID > 0 {
		w.ID = n.ItemID
	}
	w.Path = n.Path
	return w
}

func (w menuNodeWire) toNode() MenuNode {
	kind := w.Kind
	if kind == "" {
		kind = KindLeaf
		if w.Children != nil || (w.ID == UnresolvedID && w.Path == "") {
			kind = KindGroup
		}
	}
	n := MenuNode{
		Kind:     kind,
		Title:    w.Title,
		Name:     w.Name,
		IconName: w.IconName,
		Roles:    w.Roles,
		Props:    w.Props,
	}
	if kind == KindGroup {
		n.Children = w.Children
		return n
	}
	if w.ID > 0 {
		n.ItemID = w.ID
	}
	n.Path = w.Path
	return n
}

// MarshalBSON writes the node with an explicit kind tag.
func (n MenuNode) MarshalBSON() ([]byte, error) {
	return bson.Marshal(n.toWire())
}

// UnmarshalBSON reads tagged and legacy (untagged) nodes.
func (n *MenuNode) UnmarshalBSON(data []byte) error {
	var w menuNodeWire
	if err := bson.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = w.toNode()
	return nil
}

// MarshalJSON mirrors the stored shape.
func (n MenuNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toWire())
}

// UnmarshalJSON accepts the stored shape, with or without the kind tag.
func (n *MenuNode) UnmarshalJSON(b []byte) error {
	var w menuNodeWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*n = w.toNode()
	return nil
}

// FrontendNode is the reduced node shape served to navigation clients.
type FrontendNode struct {
	ID       int64          `json:"id"`
	Title    string         `json:"title"`
	Name     string         `json:"name"`
	IconName *string        `json:"iconName,omitempty"`
	Path     *string        `json:"path,omitempty"`
	Roles    *string        `json:"roles,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
	Children []FrontendNode `json:"children,omitempty"`
}

// FormatForFrontend converts a stored tree into the client navigation shape.
// Groups carry id -1, title, name, optional iconName and children; leaves
// carry path, roles, iconName (possibly empty) and props when present.
func FormatForFrontend(nodes []MenuNode) []FrontendNode {
	out := make([]FrontendNode, 0, len(nodes))
	for _, n := range nodes {
		f := FrontendNode{ID: UnresolvedID, Title: n.Title, Name: n.Name}
		if n.IsGroup() {
			if n.IconName != "" {
				icon := n.IconName
				f.IconName = &icon
			}
			f.Children = FormatForFrontend(n.Children)
			if f.Children == nil {
				f.Children = []FrontendNode{}
			}
		} else {
			if n.ItemID > 0 {
				f.ID = n.ItemID
			}
			path, roles, icon := n.Path, n.Roles.Encode(), n.IconName
			f.Path, f.Roles, f.IconName = &path, &roles, &icon
			if n.Props != nil {
				f.Props = n.Props
			}
		}
		out = append(out, f)
	}
	return out
}
