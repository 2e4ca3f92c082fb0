// Package rendering turns a form snapshot into an HTML resume document.
package rendering

import (
	"html/template"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Placeholder text shown when a field or section has nothing to render.
const (
	PlaceholderName  = "Your Name"
	PlaceholderEmail = "your.email@example.com"
	PlaceholderPhone = "123-456-7890"

	EmptyEducation  = "No education added."
	EmptyExperience = "No experience added."
	EmptySkills     = "No skills added."
)

// View is the template-independent content of a resume after filtering.
// Every layout renders the same View; only the surrounding markup differs.
type View struct {
	Theme Theme
	Photo template.URL

	Name  string
	Email string
	Phone string

	Education  []EntryLine
	Experience []EntryLine
	Skills     []string
	Social     []SocialLine

	EmptyEducation  string
	EmptyExperience string
	EmptySkills     string
}

// EntryLine renders as "**Title** at Place (Year)"; the year suffix is omitted when empty.
type EntryLine struct {
	Title string
	Place string
	Year  string
}

// SocialLine is a labelled profile link
type SocialLine struct {
	Label string
	Value string
}

// BuildView applies the filtering and placeholder rules to a snapshot.
// theme must already be resolved by the caller.
func BuildView(snap types.Snapshot, theme Theme) View {
	d := snap.Resume
	v := View{
		Theme:           theme,
		Name:            orDefault(d.Name, PlaceholderName),
		Email:           orDefault(d.Email, PlaceholderEmail),
		Phone:           orDefault(d.Phone, PlaceholderPhone),
		Education:       FilterEducation(d.Education),
		Experience:      FilterExperience(d.Experience),
		Skills:          FilterSkills(d.Skills),
		Social:          SocialLines(d.Social),
		EmptyEducation:  EmptyEducation,
		EmptyExperience: EmptyExperience,
		EmptySkills:     EmptySkills,
	}

	// Only data URIs produced by the photo decoder are trusted as image sources.
	if uri := snap.Presentation.Photo.DataURI; strings.HasPrefix(uri, "data:image/") {
		v.Photo = template.URL(uri) //nolint:gosec // validated data:image URI
	}
	return v
}

// FilterEducation keeps entries with at least one non-empty field, in order.
func FilterEducation(entries []types.EducationEntry) []EntryLine {
	lines := make([]EntryLine, 0, len(entries))
	for _, e := range entries {
		if e.IsBlank() {
			continue
		}
		lines = append(lines, EntryLine{Title: e.Degree, Place: e.School, Year: e.Year})
	}
	return lines
}

// FilterExperience keeps entries with at least one non-empty field, in order.
func FilterExperience(entries []types.ExperienceEntry) []EntryLine {
	lines := make([]EntryLine, 0, len(entries))
	for _, e := range entries {
		if e.IsBlank() {
			continue
		}
		lines = append(lines, EntryLine{Title: e.Role, Place: e.Company, Year: e.Year})
	}
	return lines
}

// FilterSkills keeps skills whose trimmed text is non-empty. The text itself is not trimmed.
func FilterSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SocialLines returns one line per non-empty social field in fixed order.
func SocialLines(s types.SocialLinks) []SocialLine {
	var lines []SocialLine
	if s.LinkedIn != "" {
		lines = append(lines, SocialLine{Label: "LinkedIn", Value: s.LinkedIn})
	}
	if s.GitHub != "" {
		lines = append(lines, SocialLine{Label: "GitHub", Value: s.GitHub})
	}
	if s.Website != "" {
		lines = append(lines, SocialLine{Label: "Website", Value: s.Website})
	}
	return lines
}

// String renders the line in outline form.
func (l EntryLine) String() string {
	var sb strings.Builder
	sb.WriteString("**")
	sb.WriteString(l.Title)
	sb.WriteString("** at ")
	sb.WriteString(l.Place)
	if l.Year != "" {
		sb.WriteString(" (")
		sb.WriteString(l.Year)
		sb.WriteString(")")
	}
	return sb.String()
}

// String renders the line as "Label: value".
func (l SocialLine) String() string {
	return l.Label + ": " + l.Value
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
