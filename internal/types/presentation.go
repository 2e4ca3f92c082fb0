package types

import (
	"fmt"
	"strings"
)

// TemplateName identifies a layout variant
type TemplateName string

// Known templates, in selector order.
const (
	TemplateModern  TemplateName = "modern"
	TemplateClassic TemplateName = "classic"
	TemplateElegant TemplateName = "elegant"
)

// DefaultTemplate is selected at session start.
const DefaultTemplate = TemplateModern

// Templates lists every known template in selector order.
func Templates() []TemplateName {
	return []TemplateName{TemplateModern, TemplateClassic, TemplateElegant}
}

// Label returns the human-readable selector label.
func (t TemplateName) Label() string {
	switch t {
	case TemplateModern:
		return "Modern"
	case TemplateClassic:
		return "Classic"
	case TemplateElegant:
		return "Elegant"
	default:
		return string(t)
	}
}

// ThemeName identifies a color variant, orthogonal to the template
type ThemeName string

// Known themes, in selector order.
const (
	ThemeBlue  ThemeName = "blue"
	ThemeGreen ThemeName = "green"
	ThemePink  ThemeName = "pink"
	ThemeLight ThemeName = "light"
)

// DefaultTheme is selected at session start.
const DefaultTheme = ThemeBlue

// themeClassPrefix is the CSS-class spelling accepted by ParseTheme ("theme-blue").
const themeClassPrefix = "theme-"

// Themes lists every known theme in selector order.
func Themes() []ThemeName {
	return []ThemeName{ThemeBlue, ThemeGreen, ThemePink, ThemeLight}
}

// Label returns the human-readable selector label.
func (t ThemeName) Label() string {
	switch t {
	case ThemeBlue:
		return "Blue"
	case ThemeGreen:
		return "Green"
	case ThemePink:
		return "Pink"
	case ThemeLight:
		return "Light"
	default:
		return string(t)
	}
}

// Class returns the CSS class applied to the document root.
func (t ThemeName) Class() string {
	return themeClassPrefix + string(t)
}

// UnknownValueError is returned when a template or theme is outside its enumeration
type UnknownValueError struct {
	Kind  string
	Value string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Value)
}

// ParseTemplate validates a template name.
func ParseTemplate(value string) (TemplateName, error) {
	name := TemplateName(strings.ToLower(strings.TrimSpace(value)))
	for _, t := range Templates() {
		if t == name {
			return t, nil
		}
	}
	return "", &UnknownValueError{Kind: "template", Value: value}
}

// ParseTheme validates a theme name. Both "blue" and "theme-blue" are accepted.
func ParseTheme(value string) (ThemeName, error) {
	raw := strings.ToLower(strings.TrimSpace(value))
	name := ThemeName(strings.TrimPrefix(raw, themeClassPrefix))
	for _, t := range Themes() {
		if t == name {
			return t, nil
		}
	}
	return "", &UnknownValueError{Kind: "theme", Value: value}
}

// Photo is a decoded profile image ready to embed. The zero value means no photo.
type Photo struct {
	DataURI  string `json:"data_uri,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
	Size     int    `json:"size,omitempty"`
}

// Present reports whether a photo has been set.
func (p Photo) Present() bool {
	return p.DataURI != ""
}

// Presentation holds the visual selections that sit beside the resume data
type Presentation struct {
	Template TemplateName `json:"template"`
	Theme    ThemeName    `json:"theme"`
	Photo    Photo        `json:"photo"`
}

// NewPresentation returns the session-start defaults.
func NewPresentation() Presentation {
	return Presentation{
		Template: DefaultTemplate,
		Theme:    DefaultTheme,
	}
}

// Snapshot is an immutable view of the whole form at one revision.
// Holders must not modify the slices inside Resume.
type Snapshot struct {
	Resume       ResumeData   `json:"resume"`
	Presentation Presentation `json:"presentation"`
	Revision     uint64       `json:"revision"`
}
