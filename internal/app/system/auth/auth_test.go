package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret-must-be-32-chars-long"

func newTestManager(t *testing.T) *auth.Manager {
	t.Helper()
	m, err := auth.NewManager(testSecret, time.Hour, "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return m
}

// fakeUsers serves users from a map; missing or inactive ids are not found.
type fakeUsers map[int64]models.User

func (f fakeUsers) GetActiveByID(_ context.Context, id int64) (models.User, error) {
	u, ok := f[id]
	if !ok || !u.Ativo {
		return models.User{}, apperr.ErrNotFound
	}
	return u, nil
}

func TestNewManager_RejectsEmptySecret(t *testing.T) {
	if _, err := auth.NewManager("", 0, "", false, zap.NewNop()); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestIssueAndParse(t *testing.T) {
	m := newTestManager(t)
	tok, err := m.Issue(models.User{ID: 5, UserName: "ana", Roles: []string{"admin", "professor"}})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	c, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.ID != 5 || c.UserName != "ana" || len(c.Roles) != 2 {
		t.Errorf("claims: %+v", c)
	}
	if c.ExpiresAt == nil || time.Until(c.ExpiresAt.Time) > time.Hour {
		t.Errorf("expiry: %v", c.ExpiresAt)
	}
}

func TestParse_Rejects(t *testing.T) {
	m := newTestManager(t)
	other, _ := auth.NewManager("another-secret-that-is-32-chars-long!", time.Hour, "", false, zap.NewNop())
	foreign, _ := other.Issue(models.User{ID: 1})

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		ID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(testSecret))

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{ID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not-a-token"},
		{"other key", foreign},
		{"expired", expired},
		{"alg none", unsigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Parse(tt.raw); !errors.Is(err, auth.ErrInvalidToken) {
				t.Errorf("got %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestLoadUser(t *testing.T) {
	m := newTestManager(t)
	users := fakeUsers{
		1: {ID: 1, UserName: "ativo", Ativo: true, Roles: []string{"admin"}},
		2: {ID: 2, UserName: "inativo", Ativo: false},
	}
	active, _ := m.Issue(users[1])
	inactive, _ := m.Issue(users[2])

	tests := []struct {
		name     string
		prepare  func(r *http.Request)
		wantUser string
	}{
		{"no token", func(*http.Request) {}, ""},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+active) }, "ativo"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: active}) }, "ativo"},
		{"inactive user", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+inactive) }, ""},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer xyz") }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := m.LoadUser(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if u, ok := auth.CurrentUser(r); ok {
					got = u.UserName
				}
			}))
			req := httptest.NewRequest("GET", "/menus", nil)
			tt.prepare(req)
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.wantUser {
				t.Errorf("got user %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestRequireSignedIn(t *testing.T) {
	h := auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/auth/me", nil), &models.User{ID: 1})
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("signed in: got %d, want 200", rec.Code)
	}
}

func TestSetAndClearCookie(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	m.SetCookie(rec, "abc")
	c := rec.Result().Cookies()
	if len(c) != 1 || c[0].Name != auth.CookieName || c[0].Value != "abc" || !c[0].HttpOnly {
		t.Fatalf("set: %+v", c)
	}

	rec = httptest.NewRecorder()
	m.ClearCookie(rec)
	c = rec.Result().Cookies()
	if len(c) != 1 || c[0].MaxAge >= 0 {
		t.Errorf("clear: %+v", c)
	}
}
