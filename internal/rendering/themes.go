package rendering

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Theme is a color palette applied uniformly to any layout
type Theme struct {
	Name       types.ThemeName
	Accent     string
	Text       string
	Muted      string
	Paper      string
	Background string
}

// Class returns the CSS class carried by the document root.
func (t Theme) Class() string {
	return t.Name.Class()
}

// CSS returns the custom property block for the theme class.
func (t Theme) CSS() template.CSS {
	var sb strings.Builder
	fmt.Fprintf(&sb, ".%s {", t.Class())
	fmt.Fprintf(&sb, " --accent: %s;", t.Accent)
	fmt.Fprintf(&sb, " --text: %s;", t.Text)
	fmt.Fprintf(&sb, " --muted: %s;", t.Muted)
	fmt.Fprintf(&sb, " --paper: %s;", t.Paper)
	fmt.Fprintf(&sb, " --page-bg: %s;", t.Background)
	sb.WriteString(" }")
	return template.CSS(sb.String()) //nolint:gosec // built from the fixed palette table
}

var themes = map[types.ThemeName]Theme{
	types.ThemeBlue: {
		Name: types.ThemeBlue, Accent: "#1f4e8c", Text: "#1b1f24", Muted: "#9aa7b8",
		Paper: "#ffffff", Background: "#e8eef6",
	},
	types.ThemeGreen: {
		Name: types.ThemeGreen, Accent: "#2e7d4f", Text: "#1c2420", Muted: "#9bb5a5",
		Paper: "#ffffff", Background: "#e7f3ec",
	},
	types.ThemePink: {
		Name: types.ThemePink, Accent: "#b83b74", Text: "#2a1d24", Muted: "#d6a9bf",
		Paper: "#ffffff", Background: "#fbeaf2",
	},
	types.ThemeLight: {
		Name: types.ThemeLight, Accent: "#4a4a4a", Text: "#222222", Muted: "#cccccc",
		Paper: "#ffffff", Background: "#fafafa",
	},
}

// LookupTheme returns the palette for name.
func LookupTheme(name types.ThemeName) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, &TemplateError{Message: fmt.Sprintf("no theme registered for %q", name)}
	}
	return t, nil
}
