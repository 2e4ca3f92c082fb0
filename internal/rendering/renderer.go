package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/*.gohtml templates/styles.css
var templateFS embed.FS

// Layout describes how one template wraps the shared sections
type Layout struct {
	Name types.TemplateName
	// Entry is the name of the {{define}} block producing the preview region.
	Entry string
	// SectionClass is applied to every shared section.
	SectionClass string
}

// Registry maps template names to layouts.
type Registry map[types.TemplateName]Layout

// DefaultRegistry returns the built-in layouts.
func DefaultRegistry() Registry {
	return Registry{
		types.TemplateModern:  {Name: types.TemplateModern, Entry: "modern", SectionClass: "modern-section"},
		types.TemplateClassic: {Name: types.TemplateClassic, Entry: "classic", SectionClass: "classic-section"},
		types.TemplateElegant: {Name: types.TemplateElegant, Entry: "elegant", SectionClass: "elegant-section"},
	}
}

// Document is one rendered resume
type Document struct {
	Template types.TemplateName
	Theme    types.ThemeName
	// Fragment is the preview region alone.
	Fragment template.HTML
	// HTML is a standalone page with the fragment and its stylesheet.
	HTML []byte
}

// Renderer renders snapshots with a fixed set of parsed templates. It holds no
// per-call state and is safe for concurrent use.
type Renderer struct {
	tmpl       *template.Template
	registry   Registry
	stylesheet template.CSS
}

// renderContext is what every layout and partial receives.
type renderContext struct {
	View   View
	Layout Layout
}

// NewRenderer parses the embedded templates.
func NewRenderer(registry Registry) (*Renderer, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}

	tmpl, err := template.New("resume").Funcs(template.FuncMap{"fieldArgs": fieldArgs}).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse templates", Cause: err}
	}
	for name, layout := range registry {
		if tmpl.Lookup(layout.Entry) == nil {
			return nil, &TemplateError{Message: fmt.Sprintf("layout %q has no template block %q", name, layout.Entry)}
		}
	}

	css, err := templateFS.ReadFile("templates/styles.css")
	if err != nil {
		return nil, &TemplateError{Message: "failed to read stylesheet", Cause: err}
	}

	return &Renderer{
		tmpl:       tmpl,
		registry:   registry,
		stylesheet: template.CSS(css), //nolint:gosec // embedded at build time
	}, nil
}

// MustNewRenderer is NewRenderer with the default registry that panics on error.
// The embedded templates are fixed at build time, so an error is a programming bug.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer(nil)
	if err != nil {
		panic(err)
	}
	return r
}

// Render maps a snapshot to a document. Identical snapshots produce identical output.
func (r *Renderer) Render(snap types.Snapshot) (*Document, error) {
	layout, ok := r.registry[snap.Presentation.Template]
	if !ok {
		return nil, &TemplateError{Message: fmt.Sprintf("no layout registered for template %q", snap.Presentation.Template)}
	}
	theme, err := LookupTheme(snap.Presentation.Theme)
	if err != nil {
		return nil, err
	}

	ctx := renderContext{View: BuildView(snap, theme), Layout: layout}

	var fragment bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&fragment, layout.Entry, ctx); err != nil {
		return nil, &TemplateError{Message: fmt.Sprintf("failed to execute layout %q", layout.Entry), Cause: err}
	}

	doc := &Document{
		Template: layout.Name,
		Theme:    theme.Name,
		Fragment: template.HTML(fragment.String()), //nolint:gosec // produced by html/template
	}

	var page bytes.Buffer
	err = r.tmpl.ExecuteTemplate(&page, "document", map[string]any{
		"Title":      ctx.View.Name,
		"Stylesheet": r.stylesheet,
		"ThemeCSS":   theme.CSS(),
		"ThemeClass": theme.Class(),
		"Fragment":   doc.Fragment,
	})
	if err != nil {
		return nil, &TemplateError{Message: "failed to execute document wrapper", Cause: err}
	}
	doc.HTML = page.Bytes()

	return doc, nil
}

// option is one entry of a selector on the shell page.
type option struct {
	Value    string
	Label    string
	Selected bool
}

// fieldForm is the data of one single-input editor form.
type fieldForm struct {
	Action string
	ID     string
	Label  string
	Type   string
	Value  string
}

func fieldArgs(action, id, label, inputType, value string) fieldForm {
	return fieldForm{Action: action, ID: id, Label: label, Type: inputType, Value: value}
}

// indexed pairs a sequence entry with its position for the editor forms.
type indexed[T any] struct {
	Index int
	Entry T
	// Last is set on the only remaining entry, which cannot be removed.
	Last bool
}

func indexEntries[T any](entries []T) []indexed[T] {
	out := make([]indexed[T], len(entries))
	for i, e := range entries {
		out[i] = indexed[T]{Index: i, Entry: e, Last: len(entries) == 1}
	}
	return out
}

// Page renders the single-page application shell: the editor forms for snap
// around an already rendered document of it.
func (r *Renderer) Page(snap types.Snapshot, doc *Document, exportBusy bool) ([]byte, error) {
	theme, err := LookupTheme(doc.Theme)
	if err != nil {
		return nil, err
	}

	templates := make([]option, 0, len(types.Templates()))
	for _, t := range types.Templates() {
		templates = append(templates, option{Value: string(t), Label: t.Label(), Selected: t == doc.Template})
	}
	themeOpts := make([]option, 0, len(types.Themes()))
	for _, t := range types.Themes() {
		themeOpts = append(themeOpts, option{Value: string(t), Label: t.Label(), Selected: t == doc.Theme})
	}

	resume := snap.Resume
	var page bytes.Buffer
	err = r.tmpl.ExecuteTemplate(&page, "page", map[string]any{
		"Stylesheet": r.stylesheet,
		"ThemeCSS":   theme.CSS(),
		"ThemeClass": theme.Class(),
		"Fragment":   doc.Fragment,
		"Templates":  templates,
		"Themes":     themeOpts,
		"ExportBusy": exportBusy,
		"Resume":     resume,
		"HasPhoto":   snap.Presentation.Photo.Present(),
		"Education":  indexEntries(resume.Education),
		"Experience": indexEntries(resume.Experience),
		"Skills":     indexEntries(resume.Skills),
	})
	if err != nil {
		return nil, &TemplateError{Message: "failed to execute page shell", Cause: err}
	}
	return page.Bytes(), nil
}

// Layouts returns the registered template names in selector order.
func (r *Renderer) Layouts() []types.TemplateName {
	var names []types.TemplateName
	for _, t := range types.Templates() {
		if _, ok := r.registry[t]; ok {
			names = append(names, t)
		}
	}
	return names
}
