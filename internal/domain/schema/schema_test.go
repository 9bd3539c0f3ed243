package schema

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestValidate_MenuItemMissingTitleAndPath(t *testing.T) {
	res := MenuItem.Validate(map[string]any{"iconName": "busca"})

	if res.IsValid {
		t.Fatal("expected invalid result")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(res.Errors), res.Errors)
	}
	if res.Errors[0] == res.Errors[1] {
		t.Errorf("expected distinct messages, got %q twice", res.Errors[0])
	}
	if !strings.Contains(res.Errors[0], "title") || !strings.Contains(res.Errors[1], "path") {
		t.Errorf("unexpected messages: %v", res.Errors)
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
		field  string
	}{
		{"title number", map[string]any{"title": 12.0, "path": "/x"}, "title"},
		{"path bool", map[string]any{"title": "Home", "path": true}, "path"},
		{"props string", map[string]any{"title": "Home", "path": "/x", "props": "x"}, "props"},
		{"parentId string", map[string]any{"title": "Home", "path": "/x", "parentId": "1"}, "parentId"},
		{"isDeleted string", map[string]any{"title": "Home", "path": "/x", "isDeleted": "no"}, "isDeleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := MenuItem.Validate(tt.record)
			if res.IsValid {
				t.Fatal("expected invalid result")
			}
			if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], tt.field) {
				t.Errorf("expected one error about %q, got %v", tt.field, res.Errors)
			}
		})
	}
}

func TestValidate_OptionalNullIsExempt(t *testing.T) {
	res := User.Validate(map[string]any{
		"id":             1,
		"pass":           "hash",
		"nome":           "Maria",
		"roles":          []any{"admin"},
		"ativo":          true,
		"__new":          time.Now(),
		"matricula":      nil,
		"dataNascimento": nil,
	})
	if !res.IsValid {
		t.Errorf("expected valid, got %v", res.Errors)
	}
}

func TestValidate_ArrayElements(t *testing.T) {
	res := User.Validate(map[string]any{
		"id":    1,
		"pass":  "hash",
		"nome":  "Maria",
		"roles": []any{"admin", 3},
		"ativo": true,
		"__new": time.Now(),
	})
	if res.IsValid {
		t.Fatal("expected invalid result")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "roles[1]") {
		t.Errorf("expected element error for roles[1], got %v", res.Errors)
	}
}

func TestValidatePartial_OnlyPresentFields(t *testing.T) {
	res := MenuItem.ValidatePartial(map[string]any{"iconName": "busca"})
	if !res.IsValid {
		t.Errorf("expected valid partial update, got %v", res.Errors)
	}

	res = MenuItem.ValidatePartial(map[string]any{"title": nil})
	if res.IsValid {
		t.Error("expected null required field to be rejected on update")
	}
}

func TestValidateValue_EncodedStruct(t *testing.T) {
	type item struct {
		ID    int64     `bson:"id"`
		Title string    `bson:"title"`
		Path  string    `bson:"path"`
		Roles string    `bson:"roles"`
		New   time.Time `bson:"__new"`
	}
	res, err := MenuItem.ValidateValue(item{ID: 3, Title: "Cursos", Path: "/dashboard/CrudCurso", Roles: "admin", New: time.Now()})
	if err != nil {
		t.Fatalf("ValidateValue failed: %v", err)
	}
	if !res.IsValid {
		t.Errorf("expected valid, got %v", res.Errors)
	}
}

func TestJSONSchema_RequiredFields(t *testing.T) {
	doc := Config.JSONSchema()
	js, ok := doc["$jsonSchema"].(bson.M)
	if !ok {
		t.Fatalf("missing $jsonSchema: %v", doc)
	}
	req, ok := js["required"].(bson.A)
	if !ok {
		t.Fatalf("missing required list: %v", js)
	}
	want := []string{"id", "nome", "tipo", "valor", "ativo", "__new"}
	if len(req) != len(want) {
		t.Fatalf("required: got %v, want %v", req, want)
	}
	for i, w := range want {
		if req[i] != w {
			t.Errorf("required[%d]: got %v, want %q", i, req[i], w)
		}
	}

	props := js["properties"].(bson.M)
	editado := props["__editado"].(bson.M)["bsonType"].(bson.A)
	if editado[len(editado)-1] != "null" {
		t.Errorf("optional field should accept null, got %v", editado)
	}
}
