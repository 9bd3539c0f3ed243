// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures writes records straight into the test database, bypassing the
// stores, so store and handler tests can arrange state independently.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// nextID returns max(id)+1 for coll.
func (f *Fixtures) nextID(ctx context.Context, coll string) int64 {
	f.t.Helper()
	var last struct {
		ID int64 `bson:"id"`
	}
	err := f.db.Collection(coll).FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return 1
	}
	if err != nil {
		f.t.Fatalf("nextID(%s): %v", coll, err)
	}
	return last.ID + 1
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

// CreateUser inserts an active user whose password is password (bcrypt,
// minimum cost so tests stay fast).
func (f *Fixtures) CreateUser(ctx context.Context, userName, password string, roles ...string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:        f.nextID(ctx, "usuarios"),
		UserName:  userName,
		Email:     userName + "@test.com",
		Pass:      string(hash),
		Nome:      "Test " + userName,
		NomeCI:    text.Fold("Test " + userName),
		Roles:     roles,
		Ativo:     true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "usuarios", u)
	return u
}

// CreateAdmin inserts an active admin.
func (f *Fixtures) CreateAdmin(ctx context.Context, userName, password string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, userName, password, models.RoleAdmin)
}

// CreateMenuItem inserts an active menu item.
func (f *Fixtures) CreateMenuItem(ctx context.Context, title, path string, roles ...string) models.MenuItem {
	f.t.Helper()

	ativo := true
	now := time.Now().UTC()
	item := models.MenuItem{
		ID:        f.nextID(ctx, "menuItens"),
		Title:     title,
		Name:      title,
		Path:      path,
		Roles:     models.NewRoleSet(roles...),
		Props:     map[string]any{},
		Ativo:     &ativo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "menuItens", item)
	return item
}

// CreateMenu inserts an active menu holding tree.
func (f *Fixtures) CreateMenu(ctx context.Context, title, roles string, tree []models.MenuNode) models.Menu {
	f.t.Helper()

	if tree == nil {
		tree = []models.MenuNode{}
	}
	now := time.Now().UTC()
	m := models.Menu{
		ID:              f.nextID(ctx, "menu"),
		Title:           title,
		Roles:           models.ParseRoleSet(roles),
		MenusItensArray: tree,
		Ativo:           true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.insert(ctx, "menu", m)
	return m
}
