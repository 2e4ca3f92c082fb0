// Package form holds the per-session form state and its mutation operations.
package form

import (
	"errors"
	"fmt"
)

// errNoop aborts an update that would not change the state.
var errNoop = errors.New("no change")

// FieldError is returned when a mutation names a field that does not exist in its section
type FieldError struct {
	Section string
	Field   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field error: %s has no field %q", e.Section, e.Field)
}

// IndexError is returned when a mutation addresses an entry that does not exist
type IndexError struct {
	Section string
	Index   int
	Len     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index error: %s[%d] out of range (len %d)", e.Section, e.Index, e.Len)
}

// PhotoError represents a photo that could not be decoded. The stored photo is left unchanged.
type PhotoError struct {
	Message string
	Cause   error
}

func (e *PhotoError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("photo error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("photo error: %s", e.Message)
}

func (e *PhotoError) Unwrap() error {
	return e.Cause
}
