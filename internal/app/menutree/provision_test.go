package menutree_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/lcmsadmin/internal/app/menutree"
	"github.com/dalemusser/lcmsadmin/internal/app/store/gateway"
	menuitemstore "github.com/dalemusser/lcmsadmin/internal/app/store/menuitems"
	menustore "github.com/dalemusser/lcmsadmin/internal/app/store/menus"
	"github.com/dalemusser/lcmsadmin/internal/app/store/seqid"
	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"github.com/dalemusser/lcmsadmin/internal/testutil"
	"go.uber.org/zap"
)

type stores struct {
	g     *gateway.Gateway
	items *menuitemstore.Store
	menus *menustore.Store
}

func newStores(t *testing.T) stores {
	t.Helper()
	db := testutil.SetupTestDB(t)
	g := gateway.New(db, "", zap.NewNop())
	ids := seqid.New(g, zap.NewNop())
	return stores{g: g, items: menuitemstore.New(g, ids), menus: menustore.New(g, ids)}
}

func TestProvision_IsIdempotent(t *testing.T) {
	s := newStores(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := menutree.NewProvisioner(s.items, zap.NewNop())
	seed := menutree.Seed()
	leaves := menutree.ExtractLeaves(seed)

	first := p.Provision(ctx, seed)
	n1, err := s.g.Count(ctx, menuitemstore.Collection, nil)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if int(n1) != len(leaves) {
		t.Fatalf("items after first run: got %d, want %d", n1, len(leaves))
	}

	second := p.Provision(ctx, seed)
	n2, err := s.g.Count(ctx, menuitemstore.Collection, nil)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n2 != n1 {
		t.Errorf("second run created %d extra items", n2-n1)
	}

	for _, leaf := range leaves {
		a, okA := first.Resolve(leaf)
		b, okB := second.Resolve(leaf)
		if !okA || !okB || a.ID != b.ID {
			t.Errorf("%s %s: first=%d(%v) second=%d(%v)", leaf.Name, leaf.Path, a.ID, okA, b.ID, okB)
		}
	}
	for name, item := range first.ByName() {
		if second.ByName()[name].ID != item.ID {
			t.Errorf("ByName[%s] changed between runs", name)
		}
	}

	// Provisioning writes no audit rows.
	if n, _ := s.g.Count(ctx, s.g.AuditCollection(), nil); n != 0 {
		t.Errorf("audit rows: got %d, want 0", n)
	}
}

func TestProvision_StoredShape(t *testing.T) {
	s := newStores(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tree := []menutree.SpecNode{{
		Title: "Painel", Children: []menutree.SpecNode{
			{Title: "EF Anos Iniciais", Path: "/dashboard/painelaulas/F1", Name: "Nivel",
				Props: map[string]any{"curso": "F1"}, Roles: []string{"admin", "demo"}},
		},
	}}
	lookup := menutree.NewProvisioner(s.items, zap.NewNop()).Provision(ctx, tree)

	item, ok := lookup.Resolve(tree[0].Children[0])
	if !ok || item.ID != 1 {
		t.Fatalf("got %+v %v", item, ok)
	}
	stored, err := s.items.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Roles.Encode() != "admin,demo" || stored.Props["curso"] != "F1" || stored.Name != "Nivel" {
		t.Errorf("stored: %+v", stored)
	}
	if stored.Ativo == nil || !*stored.Ativo {
		t.Errorf("ativo: got %v", stored.Ativo)
	}
}

func TestProvision_ReusesExistingByTitleWhenNoPath(t *testing.T) {
	s := newStores(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pre, err := s.items.Insert(ctx, models.MenuItem{Title: "Sem Caminho", Name: "Outro", Path: "/legacy"}, false)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	tree := []menutree.SpecNode{{Title: "Sem Caminho", Name: "SemCaminho", Roles: []string{"admin"}}}
	lookup := menutree.NewProvisioner(s.items, zap.NewNop()).Provision(ctx, tree)

	if got := lookup.ByName()["SemCaminho"].ID; got != pre.ID {
		t.Errorf("got id %d, want existing %d", got, pre.ID)
	}
}

// failingItems fails lookups for one path and delegates the rest.
type failingItems struct {
	menutree.ItemStore
	failPath string
}

func (f failingItems) FindExisting(ctx context.Context, path, title, name string) (models.MenuItem, error) {
	if path == f.failPath {
		return models.MenuItem{}, errors.New("connection reset")
	}
	return f.ItemStore.FindExisting(ctx, path, title, name)
}

func TestProvision_SkipsFailingLeaf(t *testing.T) {
	s := newStores(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tree := []menutree.SpecNode{
		{Title: "Um", Path: "/um", Name: "Um", Roles: []string{"admin"}},
		{Title: "Dois", Path: "/dois", Name: "Dois", Roles: []string{"admin"}},
		{Title: "Tres", Path: "/tres", Name: "Tres", Roles: []string{"admin"}},
	}
	p := menutree.NewProvisioner(failingItems{ItemStore: s.items, failPath: "/dois"}, zap.NewNop())
	lookup := p.Provision(ctx, tree)

	if lookup.Len() != 2 {
		t.Errorf("resolved: got %d, want 2", lookup.Len())
	}
	if _, ok := lookup.Resolve(tree[1]); ok {
		t.Error("failing leaf should be absent from lookup")
	}

	out := menutree.Build(tree, "admin", lookup)
	if len(out) != 3 || out[1].Resolved() || !out[2].Resolved() {
		t.Errorf("built: %+v", out)
	}
}

func TestProvisionMenus(t *testing.T) {
	s := newStores(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// An existing active admin menu is left alone.
	if _, err := s.menus.Insert(ctx, models.Menu{Title: "Menu Admin", Roles: models.NewRoleSet("admin"), Ativo: true}, false); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	mp := menutree.NewMenuProvisioner(menutree.NewProvisioner(s.items, zap.NewNop()), s.menus, nil, zap.NewNop())
	rep, err := mp.ProvisionMenus(ctx, nil)
	if err != nil {
		t.Fatalf("ProvisionMenus failed: %v", err)
	}
	if len(rep.Skipped) != 1 || rep.Skipped[0] != "admin" {
		t.Errorf("skipped: %v", rep.Skipped)
	}
	if len(rep.Created) != 3 {
		t.Fatalf("created: got %d, want 3", len(rep.Created))
	}

	demo, err := s.menus.ActiveForRole(ctx, "demo")
	if err != nil {
		t.Fatalf("ActiveForRole failed: %v", err)
	}
	if demo.Title != "Menu Demo" || len(demo.MenusItensArray) == 0 {
		t.Errorf("demo menu: %q with %d nodes", demo.Title, len(demo.MenusItensArray))
	}
	for _, n := range demo.MenusItensArray {
		if !n.IsGroup() && !n.Resolved() {
			t.Errorf("leaf %q unresolved", n.Name)
		}
	}

	// A second run finds every menu and creates nothing.
	rep, err = mp.ProvisionMenus(ctx, nil)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(rep.Created) != 0 || len(rep.Skipped) != 4 {
		t.Errorf("second run: created=%d skipped=%v", len(rep.Created), rep.Skipped)
	}
}

// brokenMenus fails every lookup.
type brokenMenus struct{ menutree.MenuStore }

func (brokenMenus) ActiveForRole(context.Context, string) (models.Menu, error) {
	return models.Menu{}, apperr.Storage("find", "menu", errors.New("no reachable servers"))
}

func TestProvisionMenus_CollectsRoleFailures(t *testing.T) {
	s := newStores(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mp := menutree.NewMenuProvisioner(menutree.NewProvisioner(s.items, zap.NewNop()), brokenMenus{}, nil, zap.NewNop())
	rep, err := mp.ProvisionMenus(ctx, []string{"admin", "demo"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(rep.Failed) != 2 {
		t.Errorf("failed: %v", rep.Failed)
	}
}
