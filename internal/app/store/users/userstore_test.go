package userstore_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/lcmsadmin/internal/app/store/gateway"
	"github.com/dalemusser/lcmsadmin/internal/app/store/seqid"
	userstore "github.com/dalemusser/lcmsadmin/internal/app/store/users"
	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/testutil"
	"go.uber.org/zap"
)

func newStore(t *testing.T) (*userstore.Store, *gateway.Gateway) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	g := gateway.New(db, "", zap.NewNop())
	return userstore.New(g, seqid.New(g, zap.NewNop())), g
}

func strp(s string) *string { return &s }

func TestCreate_ReportsEveryRule(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, userstore.Input{})
	msgs := apperr.Messages(err)
	want := []string{"email ou userName é obrigatório", "senha é obrigatória", "nome é obrigatório", "roles é obrigatório"}
	if len(msgs) != len(want) {
		t.Fatalf("got %v, want %v", msgs, want)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("message %d: got %q, want %q", i, msgs[i], want[i])
		}
	}

	_, err = store.Create(ctx, userstore.Input{
		UserName: strp("ab"), Senha: strp("123"), Nome: strp("Jo"), Roles: []string{"admin"},
	})
	if msgs := apperr.Messages(err); len(msgs) != 3 {
		t.Errorf("length rules: got %v", msgs)
	}
}

func TestCreate_HashesAndDerivesLogin(t *testing.T) {
	store, g := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, userstore.Input{
		Email: strp("maria.silva@escola.br"), Senha: strp("segredo1"), Nome: strp("Maria Silva"),
		Roles: []string{"professor", "professor", "admin"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.ID != 1 || u.UserName != "maria.silva" || !u.Ativo {
		t.Errorf("got id=%d userName=%q ativo=%v", u.ID, u.UserName, u.Ativo)
	}
	if len(u.Roles) != 2 {
		t.Errorf("roles not deduplicated: %v", u.Roles)
	}
	if !strings.HasPrefix(u.Pass, "$2a$") || !userstore.CheckPassword(u.Pass, "segredo1") {
		t.Errorf("password not hashed with bcrypt: %q", u.Pass)
	}

	other, err := store.Create(ctx, userstore.Input{
		UserName: strp("joao"), Senha: strp("segredo2"), Nome: strp("João"), Roles: []string{"aluno"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if other.Email != "joao@example.com" {
		t.Errorf("derived email: got %q", other.Email)
	}

	if n, _ := g.Count(ctx, g.AuditCollection(), nil); n != 2 {
		t.Errorf("audit rows: got %d, want 2", n)
	}
}

func TestHashPassword_KeepsExistingHash(t *testing.T) {
	const h = "$2b$12$abcdefghijklmnopqrstuuMqBcVYcUXv9D1JhKcU4GUlA0zD6sF8G"
	got, err := userstore.HashPassword(h)
	if err != nil || got != h {
		t.Errorf("got %q (%v), want unchanged", got, err)
	}
}

func TestCreate_RejectsDuplicates(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := userstore.Input{UserName: strp("ana"), Email: strp("ana@x.com"), Senha: strp("segredo"), Nome: strp("Ana Paula"), Roles: []string{"aluno"}}
	ana, err := store.Create(ctx, base)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// Inactive users still hold their login.
	if err := store.Deactivate(ctx, ana.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	tests := []struct {
		name  string
		in    userstore.Input
		field string
	}{
		{"same userName", userstore.Input{UserName: strp("ana"), Email: strp("outra@x.com"), Senha: strp("segredo"), Nome: strp("Outra"), Roles: []string{"aluno"}}, "userName"},
		{"same email", userstore.Input{UserName: strp("outra"), Email: strp("ana@x.com"), Senha: strp("segredo"), Nome: strp("Outra"), Roles: []string{"aluno"}}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, tt.in)
			var de *userstore.DuplicateUserError
			if !errors.As(err, &de) || de.Field != tt.field {
				t.Fatalf("got %v, want duplicate %s", err, tt.field)
			}
			if !errors.Is(err, userstore.ErrDuplicateUser) || apperr.Status(err) != 400 {
				t.Errorf("classification: is=%v status=%d", errors.Is(err, userstore.ErrDuplicateUser), apperr.Status(err))
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, userstore.Input{UserName: strp("carla"), Senha: strp("segredo"), Nome: strp("Carla"), Roles: []string{"professor"}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, userstore.Input{UserName: strp("bruno"), Senha: strp("segredo"), Nome: strp("Bruno"), Roles: []string{"aluno"}}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Keeping one's own userName is fine.
	if _, _, err := store.Update(ctx, a.ID, userstore.Input{UserName: strp("carla")}); err != nil {
		t.Errorf("self userName: %v", err)
	}

	_, _, err = store.Update(ctx, a.ID, userstore.Input{UserName: strp("bruno")})
	var de *userstore.DuplicateUserError
	if !errors.As(err, &de) || !de.Other {
		t.Errorf("taken userName: got %v", err)
	}

	u, changed, err := store.Update(ctx, a.ID, userstore.Input{Nome: strp("Carla Souza"), Perfil: strp("docente"), Senha: strp("novaSenha")})
	if err != nil || !changed {
		t.Fatalf("Update: changed=%v err=%v", changed, err)
	}
	if u.Nome != "Carla Souza" || u.Perfil == nil || *u.Perfil != "docente" || !userstore.CheckPassword(u.Pass, "novaSenha") {
		t.Errorf("updated: %+v", u)
	}

	u, _, err = store.Update(ctx, a.ID, userstore.Input{Perfil: strp("")})
	if err != nil || u.Perfil != nil {
		t.Errorf("clearing perfil: %v %v", u.Perfil, err)
	}

	if _, _, err := store.Update(ctx, 99, userstore.Input{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown id: got %v", err)
	}
}

func TestList_FiltersAndSearch(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, in := range []userstore.Input{
		{UserName: strp("jose"), Senha: strp("segredo"), Nome: strp("José Alves"), Roles: []string{"aluno"}},
		{UserName: strp("joana"), Senha: strp("segredo"), Nome: strp("Joana Lima"), Roles: []string{"professor"}},
		{UserName: strp("pedro"), Senha: strp("segredo"), Nome: strp("Pedro Reis"), Roles: []string{"aluno"}},
	} {
		if _, err := store.Create(ctx, in); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := store.Deactivate(ctx, 3); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	tests := []struct {
		name string
		f    userstore.ListFilter
		want int64
	}{
		{"default active", userstore.ListFilter{}, 2},
		{"inactive", userstore.ListFilter{Status: userstore.StatusInactive}, 1},
		{"all", userstore.ListFilter{Status: userstore.StatusAll}, 3},
		{"role aluno, all", userstore.ListFilter{Status: userstore.StatusAll, Role: "aluno"}, 2},
		{"search ignores case", userstore.ListFilter{Search: "JOS"}, 1},
		{"search prefix", userstore.ListFilter{Search: "Jo"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := store.List(ctx, tt.f, 0, 15)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if total != tt.want || int64(len(users)) != tt.want {
				t.Errorf("got total=%d len=%d, want %d", total, len(users), tt.want)
			}
		})
	}
}

func TestAuthenticateAndChangePassword(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, userstore.Input{Email: strp("lia@x.com"), Senha: strp("segredo"), Nome: strp("Lia Costa"), Roles: []string{"admin"}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, login := range []string{"lia", "lia@x.com", "  lia  "} {
		if _, err := store.Authenticate(ctx, login, "segredo"); err != nil {
			t.Errorf("Authenticate(%q): %v", login, err)
		}
	}
	if _, err := store.Authenticate(ctx, "lia", "errada"); !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("wrong password: got %v", err)
	}

	if err := store.ChangePassword(ctx, "lia", "segredo", "123"); apperr.Status(err) != 400 {
		t.Errorf("short new password: got %v", err)
	}
	if err := store.ChangePassword(ctx, "lia", "segredo", "outraSenha"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if _, err := store.Authenticate(ctx, "lia", "outraSenha"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	if err := store.Deactivate(ctx, u.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if _, err := store.Authenticate(ctx, "lia", "outraSenha"); !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("inactive user authenticated: %v", err)
	}
	if err := store.Deactivate(ctx, u.ID); !errors.Is(err, userstore.ErrNotModified) {
		t.Errorf("second deactivate: got %v", err)
	}
	if err := store.Reactivate(ctx, u.ID); err != nil {
		t.Errorf("Reactivate failed: %v", err)
	}
}
