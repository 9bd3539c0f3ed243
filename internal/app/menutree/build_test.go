package menutree

import (
	"testing"

	"github.com/dalemusser/lcmsadmin/internal/domain/models"
)

func lookupOf(pairs map[string]int64) Lookup {
	l := newLookup()
	for path, id := range pairs {
		l.put(SpecNode{Path: path, Name: path}, models.MenuItem{ID: id, Path: path})
	}
	return l
}

func TestExtractLeaves_DepthFirstInOrder(t *testing.T) {
	tree := []SpecNode{
		{Name: "a", Path: "/a"},
		{Title: "G", Children: []SpecNode{
			{Name: "b", Path: "/b"},
			{Title: "H", Children: []SpecNode{{Name: "c", Path: "/c"}}},
		}},
		{Title: "Empty", Children: []SpecNode{}},
		{Name: "d", Path: "/d"},
	}
	got := ExtractLeaves(tree)
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %d leaves, want %d", len(got), len(want))
	}
	for i, n := range got {
		if n.Name != want[i] {
			t.Errorf("leaf %d: got %q, want %q", i, n.Name, want[i])
		}
	}
}

func TestRolesIntersect(t *testing.T) {
	tests := []struct {
		a, b models.RoleSet
		want bool
	}{
		{models.NewRoleSet("admin"), models.NewRoleSet("admin", "conteudo"), true},
		{models.NewRoleSet("demo"), models.NewRoleSet("admin", "conteudo"), false},
		{models.NewRoleSet("superadmin"), models.NewRoleSet("admin"), false},
		{nil, models.NewRoleSet("admin"), false},
	}
	for _, tt := range tests {
		if got := RolesIntersect(tt.a, tt.b); got != tt.want {
			t.Errorf("RolesIntersect(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBuild_ScenarioA(t *testing.T) {
	tree := []SpecNode{{Title: "Relatórios", Path: "/dashboard/Relatorios", Name: "Relatorios", Roles: []string{"admin"}}}
	lookup := lookupOf(map[string]int64{"/dashboard/Relatorios": 7})

	admin := Build(tree, "admin", lookup)
	if len(admin) != 1 {
		t.Fatalf("admin: got %d nodes, want 1", len(admin))
	}
	n := admin[0]
	if n.IsGroup() || n.ItemID != 7 || n.Path != "/dashboard/Relatorios" || n.Name != "Relatorios" {
		t.Errorf("admin leaf: %+v", n)
	}
	if n.Roles.Encode() != "admin" {
		t.Errorf("roles: got %q", n.Roles.Encode())
	}

	if aluno := Build(tree, "aluno", lookup); len(aluno) != 0 {
		t.Errorf("aluno: got %d nodes, want 0", len(aluno))
	}
}

func TestBuild_ScenarioB_GroupKeepsOnlyCompatibleChildren(t *testing.T) {
	tree := []SpecNode{{
		Title:    "CRUD",
		IconName: "painel_aulas",
		Roles:    []string{"admin", "conteudo"},
		Children: []SpecNode{
			{Title: "Item A", Path: "/a", Name: "A", Roles: []string{"admin"}},
			{Title: "Item B", Path: "/b", Name: "B", Roles: []string{"conteudo"}},
		},
	}}
	lookup := lookupOf(map[string]int64{"/a": 1, "/b": 2})

	out := Build(tree, "conteudo", lookup)
	if len(out) != 1 || !out[0].IsGroup() {
		t.Fatalf("got %+v, want one group", out)
	}
	g := out[0]
	if g.Title != "CRUD" || g.IconName != "painel_aulas" || g.Props["isTemporary"] != true {
		t.Errorf("group: %+v", g)
	}
	if len(g.Children) != 1 || g.Children[0].Name != "B" || g.Children[0].ItemID != 2 {
		t.Errorf("children: %+v", g.Children)
	}
}

func TestBuild_PrunesEmptyGroupsAtAnyDepth(t *testing.T) {
	tree := []SpecNode{
		{Title: "Outer", Children: []SpecNode{
			{Title: "Inner", Children: []SpecNode{
				{Title: "Only admin", Path: "/x", Name: "X", Roles: []string{"admin"}},
			}},
		}},
		{Title: "Visible", Path: "/y", Name: "Y", Roles: []string{"demo"}},
	}
	out := Build(tree, "demo", newLookup())
	if len(out) != 1 || out[0].Name != "Y" {
		t.Fatalf("got %+v", out)
	}
	// Unresolved leaves keep their values and carry no id.
	if out[0].ItemID != 0 || out[0].Resolved() {
		t.Errorf("unresolved leaf: %+v", out[0])
	}
}

func TestBuild_SeedRoleFilter(t *testing.T) {
	seed := Seed()
	for _, role := range DefaultMenuRoles {
		out := Build(seed, role, newLookup())
		if len(out) == 0 {
			t.Errorf("%s: empty menu", role)
		}
		var check func([]models.MenuNode)
		check = func(nodes []models.MenuNode) {
			for _, n := range nodes {
				if n.IsGroup() {
					if len(n.Children) == 0 {
						t.Errorf("%s: empty group %q kept", role, n.Title)
					}
					check(n.Children)
					continue
				}
				if !n.Roles.Contains(role) {
					t.Errorf("%s: leaf %q with roles %q leaked", role, n.Name, n.Roles.Encode())
				}
			}
		}
		check(out)
	}

	// demo sees no CRUD group but keeps the course panel.
	for _, n := range Build(seed, "demo", newLookup()) {
		if n.Title == "CRUD" || n.Title == "Atividades" || n.Title == "Testes Desenvolvimento" {
			t.Errorf("demo: admin-only group %q present", n.Title)
		}
	}
}

func TestLookup_ResolveSeparatesSharedNames(t *testing.T) {
	l := newLookup()
	f1 := SpecNode{Path: "/dashboard/painelaulas/F1", Name: "Nivel"}
	f2 := SpecNode{Path: "/dashboard/painelaulas/F2", Name: "Nivel"}
	l.put(f1, models.MenuItem{ID: 10})
	l.put(f2, models.MenuItem{ID: 11})

	if m, ok := l.Resolve(f1); !ok || m.ID != 10 {
		t.Errorf("F1: got %d %v", m.ID, ok)
	}
	if m, ok := l.Resolve(f2); !ok || m.ID != 11 {
		t.Errorf("F2: got %d %v", m.ID, ok)
	}
	if got := l.ByName()["Nivel"].ID; got != 11 {
		t.Errorf("ByName: got %d, want last provisioned 11", got)
	}
	if _, ok := l.Resolve(SpecNode{Path: "/dashboard/painelaulas/EM", Name: "Nivel"}); ok {
		t.Error("EM should be unresolved")
	}
}

func TestMenuTitle(t *testing.T) {
	if got := MenuTitle("saeb_avaliacao"); got != "Menu Saeb_avaliacao" {
		t.Errorf("got %q", got)
	}
	if got := MenuTitle("admin"); got != "Menu Admin" {
		t.Errorf("got %q", got)
	}
}
