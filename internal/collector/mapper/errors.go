package mapper

import (
	"errors"
	"fmt"
)

// ErrMissingField is matched by every FieldError.
var ErrMissingField = errors.New("missing required field")

// FieldError reports a required upstream field that was absent or empty.
type FieldError struct {
	Entity string
	Field  string
	Key    string
}

func (e *FieldError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s: missing required field %q", e.Entity, e.Key, e.Field)
	}
	return fmt.Sprintf("%s: missing required field %q", e.Entity, e.Field)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrMissingField
}

func missing(entity, field, key string) error {
	return &FieldError{Entity: entity, Field: field, Key: key}
}
