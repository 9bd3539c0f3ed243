// internal/app/menutree/build.go
package menutree

import "github.com/dalemusser/lcmsadmin/internal/domain/models"

// RolesIntersect reports whether a and b share at least one role.
func RolesIntersect(a, b models.RoleSet) bool {
	return a.Intersects(b)
}

// Build returns the part of tree visible to role, with each leaf replaced by
// its provisioned item. Leaves whose roles do not include role are dropped,
// groups left without children are dropped, and declaration order is kept.
// A leaf missing from lookup keeps its declared values and no id.
func Build(tree []SpecNode, role string, lookup Lookup) []models.MenuNode {
	target := models.NewRoleSet(role)
	out := []models.MenuNode{}
	for _, n := range tree {
		if n.IsGroup() {
			children := Build(n.Children, role, lookup)
			if len(children) == 0 {
				continue
			}
			out = append(out, models.NewGroup(n.Title, n.Name, n.IconName, n.RoleSet(), children))
			continue
		}

		roles := n.RoleSet()
		if !RolesIntersect(roles, target) {
			continue
		}
		var id int64
		if item, ok := lookup.Resolve(n); ok {
			id = item.ID
		}
		out = append(out, models.NewLeaf(id, n.Title, n.Name, n.Path, n.IconName, roles, n.Props))
	}
	return out
}
