package types

import (
	"github.com/go-playground/validator/v10"
)

// ValueRequest is the body of every single-value mutation
type ValueRequest struct {
	Value string `json:"value" validate:"max=2000"`
}

// TemplateRequest selects a template.
type TemplateRequest struct {
	Value string `json:"value" validate:"required,oneof=modern classic elegant"`
}

// ThemeRequest selects a theme. The CSS-class spelling is accepted as well.
type ThemeRequest struct {
	Value string `json:"value" validate:"required,oneof=blue green pink light theme-blue theme-green theme-pink theme-light"`
}

// ExportStatus reports whether an export is in flight for the session.
type ExportStatus struct {
	Busy bool `json:"busy"`
}

// Validate validates the ValueRequest using the validator.
func (r *ValueRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the TemplateRequest using the validator.
func (r *TemplateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ThemeRequest using the validator.
func (r *ThemeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
