package auditlog_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/lcmsadmin/internal/app/features/auditlog"
	uierrors "github.com/dalemusser/lcmsadmin/internal/app/features/errors"
	"github.com/dalemusser/lcmsadmin/internal/app/store/audit"
	"github.com/dalemusser/lcmsadmin/internal/app/store/gateway"
	"github.com/dalemusser/lcmsadmin/internal/app/store/seqid"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"github.com/dalemusser/lcmsadmin/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*auditlog.Handler, *audit.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	g := gateway.New(db, "", logger)
	store := audit.New(g, seqid.New(g, logger), logger)
	return auditlog.NewHandler(store, uierrors.NewRenderer(logger, false), logger), store
}

func seed(t *testing.T, store *audit.Store) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := []models.AdminLog{
		{AdminID: 1, Action: models.ActionCreate, Entity: "menus", CreatedAt: base},
		{AdminID: 1, Action: models.ActionUpdate, Entity: "menus", CreatedAt: base.Add(time.Hour)},
		{AdminID: 2, Action: models.ActionDelete, Entity: "users", CreatedAt: base.Add(48 * time.Hour)},
	}
	for _, row := range rows {
		if _, err := store.Log(ctx, row); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestServeList_RequiresAdmin(t *testing.T) {
	h, _ := newTestHandler(t)
	router := auditlog.Routes(h)

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"professor", testutil.UserWithRoles("professor"), http.StatusForbidden},
		{"admin", testutil.AdminUser(), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequest("GET", "/")
			if tt.user != nil {
				req = testutil.WithUser(req, tt.user)
			}
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, req)
			rec.AssertStatus(t, tt.want)
		})
	}
}

func TestServeList_Filters(t *testing.T) {
	h, store := newTestHandler(t)
	seed(t, store)

	tests := []struct {
		name  string
		query string
		total float64
		first string
	}{
		{"all newest first", "", 3, models.ActionDelete},
		{"by action", "?action=update", 1, models.ActionUpdate},
		{"by entity", "?entity=menus", 2, models.ActionUpdate},
		{"by admin", "?adminId=2", 1, models.ActionDelete},
		{"date range", "?start_date=2024-05-01&end_date=2024-05-01", 2, models.ActionUpdate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithUser(testutil.NewRequest("GET", "/admin-logs"+tt.query), testutil.AdminUser())
			rec := testutil.NewRecorder()
			h.ServeList(rec, req)
			rec.AssertStatus(t, http.StatusOK)

			body := rec.JSON(t)
			pg := body["pagination"].(map[string]any)
			if pg["totalItems"] != tt.total {
				t.Fatalf("totalItems: got %v, want %v", pg["totalItems"], tt.total)
			}
			data := body["data"].([]any)
			if got := data[0].(map[string]any)["action"]; got != tt.first {
				t.Errorf("first action: got %v, want %s", got, tt.first)
			}
		})
	}
}

func TestServeList_BadAdminID(t *testing.T) {
	h, _ := newTestHandler(t)
	req := testutil.WithUser(testutil.NewRequest("GET", "/admin-logs?adminId=abc"), testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}
