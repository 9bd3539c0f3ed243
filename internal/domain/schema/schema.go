// internal/domain/schema/schema.go
//
// Package schema declares the stored shape of each entity and checks candidate
// records against it before they are written. Validation is structural only:
// required-ness and primitive type. Uniqueness and cross-entity rules live in
// the stores.
package schema

import (
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Type is the closed set of primitive field types.
type Type int

const (
	Number Type = iota + 1
	String
	Boolean
	Date
	Object
	Array
)

func (t Type) String() string {
	switch t {
	case Number:
		return "number"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case Date:
		return "date"
	case Object:
		return "object"
	case Array:
		return "array"
	}
	return "unknown"
}

// describe is the wording used in validation messages.
func (t Type) describe() string {
	switch t {
	case Number:
		return "um número"
	case String:
		return "uma string"
	case Boolean:
		return "um boolean"
	case Date:
		return "uma data"
	case Object:
		return "um objeto"
	case Array:
		return "um array"
	}
	return "de tipo desconhecido"
}

// Field declares one field of an entity. Of is the element type for arrays
// (zero means elements are not checked).
type Field struct {
	Name     string
	Type     Type
	Required bool
	Of       Type
}

// Schema is an ordered field list for one entity.
type Schema struct {
	Entity string
	Fields []Field
}

// Result is the outcome of a validation. Errors lists every violation in
// field declaration order.
type Result struct {
	IsValid bool
	Errors  []string
}

// Validate checks a full record (used before create).
func (s Schema) Validate(record map[string]any) Result {
	return s.validate(record, false)
}

// ValidatePartial checks only the fields present in record (used on update).
func (s Schema) ValidatePartial(record map[string]any) Result {
	return s.validate(record, true)
}

func (s Schema) validate(record map[string]any, partial bool) Result {
	var errs []string
	for _, f := range s.Fields {
		v, present := record[f.Name]
		if !present || v == nil {
			if f.Required && !partial {
				errs = append(errs, fmt.Sprintf("Campo '%s' é obrigatório", f.Name))
			} else if f.Required && present {
				errs = append(errs, fmt.Sprintf("Campo '%s' não pode ser nulo", f.Name))
			}
			continue
		}
		if !matches(f.Type, v) {
			errs = append(errs, fmt.Sprintf("Campo '%s' deve ser %s", f.Name, f.Type.describe()))
			continue
		}
		if f.Type == Array && f.Of != 0 {
			rv := reflect.ValueOf(v)
			for i := 0; i < rv.Len(); i++ {
				el := rv.Index(i).Interface()
				if el == nil || !matches(f.Of, el) {
					errs = append(errs, fmt.Sprintf("Campo '%s[%d]' deve ser %s", f.Name, i, f.Of.describe()))
				}
			}
		}
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func matches(t Type, v any) bool {
	switch t {
	case Number:
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return true
		}
		return false
	case String:
		_, ok := v.(string)
		return ok
	case Boolean:
		_, ok := v.(bool)
		return ok
	case Date:
		switch v.(type) {
		case time.Time, *time.Time, primitive.DateTime:
			return true
		}
		return false
	case Object:
		switch v.(type) {
		case map[string]any, bson.M, bson.D:
			return true
		}
		rv := reflect.ValueOf(v)
		return rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct
	case Array:
		switch v.(type) {
		case bson.A:
			return true
		case []byte:
			return false
		}
		k := reflect.ValueOf(v).Kind()
		return k == reflect.Slice || k == reflect.Array
	}
	return false
}

// JSONSchema renders the declaration as a Mongo $jsonSchema validator.
// Optional fields also accept null.
func (s Schema) JSONSchema() bson.M {
	required := bson.A{}
	props := bson.M{}
	for _, f := range s.Fields {
		if f.Required {
			required = append(required, f.Name)
		}
		types := bsonTypes(f.Type)
		if !f.Required {
			types = append(types, "null")
		}
		p := bson.M{"bsonType": types}
		if f.Type == Array && f.Of != 0 {
			p["items"] = bson.M{"bsonType": bsonTypes(f.Of)}
		}
		props[f.Name] = p
	}
	js := bson.M{
		"bsonType":   "object",
		"properties": props,
	}
	if len(required) > 0 {
		js["required"] = required
	}
	return bson.M{"$jsonSchema": js}
}

func bsonTypes(t Type) bson.A {
	switch t {
	case Number:
		return bson.A{"int", "long", "double", "decimal"}
	case String:
		return bson.A{"string"}
	case Boolean:
		return bson.A{"bool"}
	case Date:
		return bson.A{"date"}
	case Object:
		return bson.A{"object"}
	case Array:
		return bson.A{"array"}
	}
	return bson.A{}
}

// ToRecord converts a bson-tagged struct into the map form Validate expects,
// using the same encoding the driver applies on insert.
func ToRecord(v any) (map[string]any, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ValidateValue encodes v with ToRecord and validates the result.
func (s Schema) ValidateValue(v any) (Result, error) {
	rec, err := ToRecord(v)
	if err != nil {
		return Result{}, err
	}
	return s.Validate(rec), nil
}
