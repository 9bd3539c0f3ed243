// internal/app/menutree/tree.go

// Package menutree turns a declarative navigation tree into
// persisted menu items and per-role menus.
//
// The flow is:
//
//	leaves := ExtractLeaves(tree)          // flat list of navigable entries
//	lookup := provisioner.Provision(ctx, tree)
//	nodes  := Build(tree, "conteudo", lookup)
//
// Provision creates or reuses one MenuItem per leaf. Build prunes the tree
// to the leaves a role may see and swaps each leaf for the resolved item.
package menutree

import "github.com/dalemusser/lcmsadmin/internal/domain/models"

// SpecNode is one entry of a declared navigation tree. A node with children
// is a group; everything else is a leaf.
type SpecNode struct {
	Title    string
	Path     string
	Name     string
	IconName string
	Roles    []string
	Props    map[string]any
	Children []SpecNode
}

// IsGroup reports whether n has children.
func (n SpecNode) IsGroup() bool { return n.Children != nil }

// RoleSet returns the declared roles as a RoleSet.
func (n SpecNode) RoleSet() models.RoleSet { return models.NewRoleSet(n.Roles...) }

// ExtractLeaves walks tree depth first and returns every leaf in
// declaration order. Groups contribute only their descendants.
func ExtractLeaves(tree []SpecNode) []SpecNode {
	var out []SpecNode
	var walk func([]SpecNode)
	walk = func(nodes []SpecNode) {
		for _, n := range nodes {
			if n.IsGroup() {
				walk(n.Children)
				continue
			}
			out = append(out, n)
		}
	}
	walk(tree)
	return out
}
