// internal/domain/models/roles.go
package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role names used by the default navigation and the menu color config.
const (
	RoleAdmin         = "admin"
	RoleSupervisor    = "supervisor"
	RoleCoordenador   = "coordenador"
	RoleProfessor     = "professor"
	RoleAluno         = "aluno"
	RoleConteudo      = "conteudo"
	RoleDemo          = "demo"
	RoleSaebAvaliacao = "saeb_avaliacao"
)

// KnownRoles is the list returned by GET /configs/roles and the set every
// menu_colors config must cover.
var KnownRoles = []string{RoleAdmin, RoleSupervisor, RoleCoordenador, RoleProfessor, RoleAluno}

// DefaultRoleColors is used when no menu_colors config has been saved.
var DefaultRoleColors = map[string]string{
	RoleAdmin:       "#d32f2f",
	RoleSupervisor:  "#ed6c02",
	RoleCoordenador: "#1976d2",
	RoleProfessor:   "#7b1fa2",
	RoleAluno:       "#388e3c",
}

var validRoleName = regexp.MustCompile(`^[a-z_]+$`)

// IsValidRole reports whether name is an acceptable role identifier.
func IsValidRole(name string) bool {
	return validRoleName.MatchString(name)
}

// RoleSet is an ordered set of role names. In memory it is a slice with no
// duplicates; in storage it is a single comma-joined string ("admin,conteudo").
type RoleSet []string

// NewRoleSet builds a RoleSet from names, trimming blanks and dropping repeats
// while keeping first-seen order.
func NewRoleSet(names ...string) RoleSet {
	out := make(RoleSet, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ParseRoleSet decodes the persisted comma-joined form.
func ParseRoleSet(encoded string) RoleSet {
	return NewRoleSet(strings.Split(encoded, ",")...)
}

// Encode returns the persisted comma-joined form.
func (r RoleSet) Encode() string {
	return strings.Join(r, ",")
}

// Contains reports whether role is a member of the set.
func (r RoleSet) Contains(role string) bool {
	for _, v := range r {
		if v == role {
			return true
		}
	}
	return false
}

// Intersects reports whether r and o share at least one role.
func (r RoleSet) Intersects(o RoleSet) bool {
	for _, v := range r {
		if o.Contains(v) {
			return true
		}
	}
	return false
}

// MarshalBSONValue stores the set as a comma-joined string.
func (r RoleSet) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(r.Encode())
}

// UnmarshalBSONValue accepts the string form and, for older documents, an array.
func (r *RoleSet) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*r = ParseRoleSet(raw.StringValue())
	case bsontype.Array:
		var names []string
		if err := raw.Unmarshal(&names); err != nil {
			return err
		}
		*r = NewRoleSet(names...)
	case bsontype.Null, bsontype.Undefined:
		*r = nil
	default:
		return fmt.Errorf("roles: unsupported bson type %s", t)
	}
	return nil
}

// MarshalJSON emits the comma-joined string the admin frontend expects.
func (r RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Encode())
}

// UnmarshalJSON accepts either "a,b" or ["a","b"].
func (r *RoleSet) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = ParseRoleSet(s)
		return nil
	}
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return fmt.Errorf("roles must be a string or an array of strings")
	}
	*r = NewRoleSet(names...)
	return nil
}

// RoleTokenMatches is the matching rule used by menu lookups by role and by
// the duplicate-menu check: case-insensitive substring containment of role in
// stored. It is deliberately loose ("admin" matches "superadmin"); callers that
// need token equality use RoleTokenMatchesExact.
func RoleTokenMatches(stored, role string) bool {
	if stored == "" || role == "" {
		return false
	}
	return strings.Contains(strings.ToLower(stored), strings.ToLower(role))
}

// RoleTokenPattern is the Mongo regex equivalent of RoleTokenMatches.
func RoleTokenPattern(role string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(role), Options: "i"}
}

// RoleTokenMatchesExact matches role as a whole comma-delimited token.
func RoleTokenMatchesExact(stored, role string) bool {
	for _, tok := range strings.Split(stored, ",") {
		if role != "" && strings.EqualFold(strings.TrimSpace(tok), role) {
			return true
		}
	}
	return false
}

// RoleTokenExactPattern is the Mongo regex equivalent of RoleTokenMatchesExact.
func RoleTokenExactPattern(role string) primitive.Regex {
	return primitive.Regex{Pattern: `(^|,)` + regexp.QuoteMeta(role) + `(,|$)`, Options: "i"}
}
