// Package server provides the HTTP surface of the resume builder.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNoSession indicates the session middleware did not run for a route that needs it
type ErrNoSession struct{}

func (e *ErrNoSession) Error() string {
	return "no session attached to request"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		schemaErr     *schemas.ValidationError
		unknownErr    *types.UnknownValueError
		fieldErr      *form.FieldError
		indexErr      *form.IndexError
		photoErr      *form.PhotoError
		exportErr     *export.Error
		templateErr   *rendering.TemplateError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &schemaErr), errors.As(err, &unknownErr):
		return http.StatusBadRequest
	case errors.As(err, &fieldErr), errors.As(err, &indexErr):
		return http.StatusNotFound
	case errors.Is(err, export.ErrExportInProgress):
		return http.StatusConflict
	case errors.As(err, &photoErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &exportErr):
		return http.StatusBadGateway
	case errors.As(err, &templateErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
