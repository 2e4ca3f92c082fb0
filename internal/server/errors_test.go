package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "index", Message: "not an integer: x"}
	assert.Equal(t, "validation error: index - not an integer: x", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrNoSession(t *testing.T) {
	err := &ErrNoSession{}
	assert.Equal(t, "no session attached to request", err.Error())
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "ErrValidation",
			err:      &ErrValidation{Field: "value", Message: "too long"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "schema ValidationError",
			err:      &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "name", Message: "Invalid type"}}},
			expected: http.StatusBadRequest,
		},
		{
			name:     "UnknownValueError",
			err:      &types.UnknownValueError{Kind: "template", Value: "poster"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "FieldError",
			err:      &form.FieldError{Section: form.SectionContact, Field: "age"},
			expected: http.StatusNotFound,
		},
		{
			name:     "IndexError",
			err:      &form.IndexError{Section: form.SectionSkills, Index: 4, Len: 1},
			expected: http.StatusNotFound,
		},
		{
			name:     "export in progress",
			err:      export.ErrExportInProgress,
			expected: http.StatusConflict,
		},
		{
			name:     "PhotoError",
			err:      &form.PhotoError{Message: "empty file"},
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "export Error",
			err:      &export.Error{Stage: export.StageCapture, Cause: errors.New("chrome crashed")},
			expected: http.StatusBadGateway,
		},
		{
			name:     "TemplateError",
			err:      &rendering.TemplateError{Message: "broken"},
			expected: http.StatusInternalServerError,
		},
		{
			name:     "wrapped IndexError",
			err:      fmt.Errorf("remove: %w", &form.IndexError{Section: form.SectionEducation, Index: 2, Len: 1}),
			expected: http.StatusNotFound,
		},
		{
			name:     "unknown error",
			err:      errors.New("boom"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
