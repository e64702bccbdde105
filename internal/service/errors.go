package service

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed input at the service boundary, before
// any write happens.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Detail) }

func invalid(field, detail string) error {
	return &ValidationError{Field: field, Detail: detail}
}

// NotFoundError reports an operation that targeted a missing row. Nothing
// has been mutated when it is returned.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s não encontrado: %s", e.Entity, e.ID)
}

func notFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
