package application

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-task-manager/pkg/validation"
)

var (
	ErrDuplicateIdentifier = errors.New("identifier already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTokenMissing        = errors.New("access token missing")
	ErrTokenInvalid        = errors.New("access token invalid")
	ErrTokenExpired        = errors.New("access token expired")
	ErrTokenIssuance       = errors.New("access token could not be issued")
	ErrPrincipalNotFound   = errors.New("principal not found")
	ErrNotFound            = errors.New("resource not found")
	ErrRateLimited         = errors.New("too many requests")
	ErrStorageUnavailable  = errors.New("object storage not configured")
	ErrSearchUnavailable   = errors.New("search not configured")
)

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError converts binding or validator errors into a *ValidationError.
func NewValidationError(err error) *ValidationError {
	return &ValidationError{Fields: validation.ToDetails(err)}
}

// FieldError builds a single-field *ValidationError.
func FieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func validate(in any) error {
	if err := validation.Struct(in); err != nil {
		return NewValidationError(err)
	}
	return nil
}

// validID reports whether id could name a stored row. Ids are UUIDs, so
// anything else is a miss.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
