package gateway

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestInsert_WithAuditWritesMirror(t *testing.T) {
	db := testutil.SetupTestDB(t)
	g := New(db, "", zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	res, err := g.Insert(ctx, "menu", bson.M{"id": 1, "title": "Menu Admin", "__new": created}, true)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if res.AuditID == nil {
		t.Fatal("expected an audit id")
	}

	var primary bson.M
	if err := g.FindByID(ctx, "menu", 1, &primary); err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if !primary["__editado"].(primitive.DateTime).Time().Equal(created) {
		t.Errorf("__editado: got %v, want %v", primary["__editado"], created)
	}

	var row bson.M
	if err := g.FindOne(ctx, DefaultAuditCollection, bson.M{FieldIDCollection: res.InsertedID}, &row); err != nil {
		t.Fatalf("mirror row not found: %v", err)
	}
	if row[FieldCollection] != "menu" || row[FieldOperation] != OpCreate {
		t.Errorf("mirror tags: got %v / %v", row[FieldCollection], row[FieldOperation])
	}
	if row["_id"] == res.InsertedID {
		t.Error("mirror row must not reuse the primary _id")
	}
	if row["title"] != "Menu Admin" {
		t.Errorf("mirror title: got %v", row["title"])
	}
}

func TestInsert_WithoutAuditOrIntoAuditCollection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	g := New(db, "trail", zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := g.Insert(ctx, "menuItens", bson.M{"id": 1, "title": "Início"}, false); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := g.Insert(ctx, "trail", bson.M{"note": "direct"}, true); err != nil {
		t.Fatalf("Insert into audit collection failed: %v", err)
	}

	n, err := g.Count(ctx, "trail", nil)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("audit rows: got %d, want 1", n)
	}
}

func TestUpdateWithAudit_MirrorsOnlyWhenModified(t *testing.T) {
	db := testutil.SetupTestDB(t)
	g := New(db, "", zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()

	ins, err := g.Insert(ctx, "usuarios", bson.M{"id": 7, "nome": "Ana", "ativo": true}, false)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	res, err := g.UpdateWithAudit(ctx, "usuarios", bson.M{"id": 7}, bson.M{"$set": bson.M{"ativo": false}}, true)
	if err != nil {
		t.Fatalf("UpdateWithAudit failed: %v", err)
	}
	if res.ModifiedCount != 1 || res.AuditID == nil {
		t.Fatalf("got %+v, want one modification with audit", res)
	}

	var row bson.M
	if err := g.FindOne(ctx, DefaultAuditCollection, bson.M{FieldOperation: OpUpdate}, &row); err != nil {
		t.Fatalf("mirror row not found: %v", err)
	}
	if row["ativo"] != false || row[FieldIDCollection] != ins.InsertedID {
		t.Errorf("mirror: got %v", row)
	}
	if _, ok := row["__editado"]; !ok {
		t.Error("mirror should carry the stamped __editado")
	}

	// Same value again: nothing changes, nothing mirrored.
	res, err = g.UpdateWithAudit(ctx, "usuarios", bson.M{"id": 7}, bson.M{"$set": bson.M{"ativo": false}}, true)
	if err != nil {
		t.Fatalf("UpdateWithAudit failed: %v", err)
	}
	if res.ModifiedCount != 0 || res.AuditID != nil {
		t.Errorf("expected no-op, got %+v", res)
	}
	n, _ := g.Count(ctx, DefaultAuditCollection, nil)
	if n != 1 {
		t.Errorf("audit rows: got %d, want 1", n)
	}
}

func TestUpdateWithAudit_NoMatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	g := New(db, "", zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()

	res, err := g.UpdateWithAudit(ctx, "menu", bson.M{"id": 99}, bson.M{"$set": bson.M{"title": "x"}}, true)
	if err != nil {
		t.Fatalf("UpdateWithAudit failed: %v", err)
	}
	if res.MatchedCount != 0 {
		t.Errorf("MatchedCount: got %d", res.MatchedCount)
	}
}

func TestSoftDelete_IsIdempotentAndKeepsDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	g := New(db, "", zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := int64(1); i <= 3; i++ {
		if _, err := g.Insert(ctx, "menuItens", bson.M{"id": i, "title": "item"}, false); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	for i := 0; i < 2; i++ {
		res, err := g.SoftDelete(ctx, "menuItens", bson.M{"id": int64(2)})
		if err != nil {
			t.Fatalf("SoftDelete failed: %v", err)
		}
		if res.MatchedCount != 1 {
			t.Errorf("call %d: MatchedCount got %d", i, res.MatchedCount)
		}
	}

	var doc bson.M
	if err := g.FindByID(ctx, "menuItens", 2, &doc); err != nil {
		t.Fatalf("soft-deleted document should still be readable: %v", err)
	}
	if doc["isDeleted"] != true {
		t.Errorf("isDeleted: got %v", doc["isDeleted"])
	}

	all, _ := g.Count(ctx, "menuItens", nil)
	live, _ := g.CountAll(ctx, "menuItens", nil)
	if all != 3 || live != 2 {
		t.Errorf("counts: all=%d live=%d, want 3 and 2", all, live)
	}

	live, _ = g.CountAll(ctx, "menuItens", bson.M{"id": bson.M{"$gte": 2}})
	if live != 1 {
		t.Errorf("filtered live count: got %d, want 1", live)
	}
}

func TestFindOne_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	g := New(db, "", zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()

	var out bson.M
	err := g.FindOne(ctx, "menu", bson.M{"id": 1}, &out)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestFindAndFindLast(t *testing.T) {
	db := testutil.SetupTestDB(t)
	g := New(db, "", zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, id := range []int64{3, 1, 5, 2, 4} {
		if _, err := g.Insert(ctx, "configuracoes", bson.M{"id": id}, false); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	var last struct {
		ID int64 `bson:"id"`
	}
	if err := g.FindLast(ctx, "configuracoes", nil, &last); err != nil {
		t.Fatalf("FindLast failed: %v", err)
	}
	if last.ID != 5 {
		t.Errorf("FindLast: got %d, want 5", last.ID)
	}

	var page []struct {
		ID int64 `bson:"id"`
	}
	err := g.Find(ctx, "configuracoes", nil, FindOptions{Skip: 1, Limit: 2, Sort: bson.D{{Key: "id", Value: 1}}}, &page)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(page) != 2 || page[0].ID != 2 || page[1].ID != 3 {
		t.Errorf("page: got %+v", page)
	}
}
