// internal/app/system/inputval/inputval.go
//
// Package inputval validates decoded request bodies with struct tags.
// Field names in messages come from the json tag so they match what the
// client sent.
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/go-playground/validator/v10"
)

var rolePattern = regexp.MustCompile(`^[a-z_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return IsValidRole(fl.Field().String())
	})
	return v
}

// IsValidRole reports whether name is a well-formed role name (lowercase
// letters and underscores).
func IsValidRole(name string) bool {
	return rolePattern.MatchString(name)
}

// IsValidEmail reports whether s is a syntactically valid address.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && validate.Var(s, "email") == nil
}

// Struct validates s and returns an apperr ValidationError listing every
// failed field, or nil.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, message(fe))
	}
	return apperr.Invalid(msgs...)
}

func message(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", f)
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("%s deve ter pelo menos %s item(ns)", f, fe.Param())
		}
		return fmt.Sprintf("%s deve ter pelo menos %s caracteres", f, fe.Param())
	case "email":
		return fmt.Sprintf("%s deve ser um email válido", f)
	case "role":
		return fmt.Sprintf("%s contém um perfil inválido", f)
	}
	return fmt.Sprintf("%s é inválido", f)
}
