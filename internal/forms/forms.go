// Package forms validates numeric form fields. Failures come back as
// *FieldError carrying the offending field name and a message suitable
// for re-rendering the originating form.
package forms

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldError is a validation failure tied to a named form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fail(field, msg string) *FieldError {
	return &FieldError{Field: field, Message: msg}
}

// PositiveInt parses value as an integer greater than zero.
func PositiveInt(field, value string) (int64, error) {
	n, err := parseInt(field, value)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fail(field, "must be a positive number")
	}
	return n, nil
}

// NonNegativeInt parses value as an integer of at least zero.
func NonNegativeInt(field, value string) (int64, error) {
	n, err := parseInt(field, value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fail(field, "cannot be negative")
	}
	return n, nil
}

// OptionalNonNegativeInt treats a blank value as absent. The bool
// reports whether a value was supplied.
func OptionalNonNegativeInt(field, value string) (int64, bool, error) {
	if strings.TrimSpace(value) == "" {
		return 0, false, nil
	}
	n, err := NonNegativeInt(field, value)
	return n, err == nil, err
}

func parseInt(field, value string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fail(field, "must be a whole number")
	}
	return n, nil
}
