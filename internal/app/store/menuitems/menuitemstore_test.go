package menuitemstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/lcmsadmin/internal/app/store/gateway"
	"github.com/dalemusser/lcmsadmin/internal/app/store/seqid"
	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"github.com/dalemusser/lcmsadmin/internal/testutil"
	"go.uber.org/zap"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	g := gateway.New(db, "", zap.NewNop())
	return New(g, seqid.New(g, zap.NewNop()))
}

func strp(s string) *string { return &s }

func TestCreate_ReportsAllRuleViolations(t *testing.T) {
	s := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := s.Create(ctx, Input{IconName: strp("busca")})
	msgs := apperr.Messages(err)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v (err=%v)", msgs, err)
	}
	if msgs[0] != "title é obrigatório" || msgs[1] != "O path é obrigatório" {
		t.Errorf("messages: got %v", msgs)
	}

	_, err = s.Create(ctx, Input{Title: strp("Ab"), Path: strp("/x")})
	if msgs := apperr.Messages(err); len(msgs) != 1 || msgs[0] != "title deve ter pelo menos 3 caracteres" {
		t.Errorf("short title: got %v", msgs)
	}
}

func TestCreate_NameFollowsTitleAndRolesJoined(t *testing.T) {
	s := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	roles := models.NewRoleSet("admin", "conteudo")
	m, err := s.Create(ctx, Input{Title: strp("Histórico"), Path: strp("/dashboard/Historico"), Roles: &roles})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if m.ID != 1 || m.Name != "Histórico" {
		t.Errorf("got id=%d name=%q", m.ID, m.Name)
	}

	got, err := s.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Roles.Encode() != "admin,conteudo" || got.Props == nil {
		t.Errorf("stored: roles=%q props=%v", got.Roles.Encode(), got.Props)
	}

	// Create writes an audit mirror row.
	n, err := s.g.Count(ctx, s.g.AuditCollection(), nil)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("audit rows: got %d, want 1", n)
	}
}

func TestUpdate(t *testing.T) {
	s := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, err := s.Create(ctx, Input{Title: strp("Cursos"), Path: strp("/dashboard/CrudCurso")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, changed, err := s.Update(ctx, m.ID, Input{Title: strp("Cursos EAD"), Path: strp("/dashboard/CrudCurso")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !changed || updated.Title != "Cursos EAD" || updated.Name != "Cursos EAD" {
		t.Errorf("got changed=%v %+v", changed, updated)
	}

	_, _, err = s.Update(ctx, m.ID, Input{Title: strp("Cursos EAD")})
	if apperr.Status(err) != 400 {
		t.Errorf("missing path on update: got %v", err)
	}

	_, _, err = s.Update(ctx, 999, Input{Path: strp("/x")})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestSoftDelete_HidesFromList(t *testing.T) {
	s := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, title := range []string{"Início", "Histórico", "Buscar Página"} {
		if _, err := s.Create(ctx, Input{Title: strp(title), Path: strp("/" + title)}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := s.SoftDelete(ctx, 2); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	items, total, err := s.List(ctx, 0, 15)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("got total=%d len=%d, want 2", total, len(items))
	}

	if err := s.SoftDelete(ctx, 42); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown id: got %v", err)
	}
}

func TestFindExisting_PrefersPath(t *testing.T) {
	s := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f1, err := s.Insert(ctx, models.MenuItem{Title: "EF Anos Iniciais", Name: "Nivel", Path: "/dashboard/painelaulas/F1"}, false)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	f2, err := s.Insert(ctx, models.MenuItem{Title: "EF Anos Finais", Name: "Nivel", Path: "/dashboard/painelaulas/F2"}, false)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := s.FindExisting(ctx, "/dashboard/painelaulas/F2", "", "Nivel")
	if err != nil {
		t.Fatalf("FindExisting failed: %v", err)
	}
	if got.ID != f2.ID {
		t.Errorf("by path: got id %d, want %d", got.ID, f2.ID)
	}

	got, err = s.FindExisting(ctx, "", "EF Anos Iniciais", "")
	if err != nil || got.ID != f1.ID {
		t.Errorf("by title: got %d (%v), want %d", got.ID, err, f1.ID)
	}

	if _, err := s.FindExisting(ctx, "/nope", "", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing: got %v", err)
	}
}
