// internal/app/system/apperr/apperr.go
//
// Package apperr holds the error types shared by stores and handlers and maps
// them onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound is returned when a lookup by id or filter matches nothing.
var ErrNotFound = errors.New("registro não encontrado")

// ErrDuplicate is the parent of every uniqueness sentinel. Stores declare
// their own sentinel with Duplicate so callers can match either.
var ErrDuplicate = errors.New("registro duplicado")

// ErrForbidden is returned when the caller lacks the role for an action.
var ErrForbidden = errors.New("acesso negado")

// ErrUnauthorized is returned when a request carries no valid credentials.
var ErrUnauthorized = errors.New("não autenticado")

type duplicateError struct{ msg string }

func (e *duplicateError) Error() string        { return e.msg }
func (e *duplicateError) Is(target error) bool { return target == ErrDuplicate }

// Duplicate returns a sentinel that matches ErrDuplicate under errors.Is.
func Duplicate(msg string) error {
	return &duplicateError{msg: msg}
}

// ValidationError carries every rule violation found for one request.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Invalid builds a ValidationError, or returns nil when msgs is empty.
func Invalid(msgs ...string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: msgs}
}

// IDCollisionError means the allocator computed an id that is already taken.
type IDCollisionError struct {
	Collection string
	ID         int64
}

func (e *IDCollisionError) Error() string {
	return fmt.Sprintf("id %d já existe em %s", e.ID, e.Collection)
}

// StorageError wraps any failure reported by the database driver.
type StorageError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError. It returns nil for a nil err and
// leaves errors that are already StorageErrors untouched.
func Storage(op, coll string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Collection: coll, Err: err}
}

// Status maps an error to the HTTP status the API answers with.
func Status(err error) int {
	var ve *ValidationError
	var ce *IDCollisionError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve), errors.Is(err, ErrDuplicate):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &ce):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Messages returns the per-rule messages of a ValidationError, or nil.
func Messages(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Messages
	}
	return nil
}
