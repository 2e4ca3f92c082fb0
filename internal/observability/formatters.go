// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSnapshot outputs a summary of the form state: who, how many entries, and how it is styled.
func (p *Printer) PrintSnapshot(snap types.Snapshot) {
	var sb strings.Builder

	name := snap.Resume.Name
	if strings.TrimSpace(name) == "" {
		name = "(no name)"
	}
	sb.WriteString(fmt.Sprintf("Name:       %s\n", name))
	sb.WriteString(fmt.Sprintf("Template:   %s\n", snap.Presentation.Template.Label()))
	sb.WriteString(fmt.Sprintf("Theme:      %s\n", snap.Presentation.Theme.Label()))
	sb.WriteString(fmt.Sprintf("Revision:   %d\n", snap.Revision))
	sb.WriteString("\n")

	filled := 0
	for _, e := range snap.Resume.Education {
		if !e.IsBlank() {
			filled++
		}
	}
	sb.WriteString(fmt.Sprintf("Education:  %d of %d filled\n", filled, len(snap.Resume.Education)))

	filled = 0
	for _, e := range snap.Resume.Experience {
		if !e.IsBlank() {
			filled++
		}
	}
	sb.WriteString(fmt.Sprintf("Experience: %d of %d filled\n", filled, len(snap.Resume.Experience)))

	var skills []string
	for _, s := range snap.Resume.Skills {
		if strings.TrimSpace(s) != "" {
			skills = append(skills, s)
		}
	}
	if len(skills) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", skills[i]))
		}
		if len(skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
		}
	}

	if snap.Presentation.Photo.Present() {
		sb.WriteString(fmt.Sprintf("Photo:      %s, %d bytes\n", snap.Presentation.Photo.MIMEType, snap.Presentation.Photo.Size))
	}

	p.printBox("RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutline outputs the visible text lines of a rendered preview.
func (p *Printer) PrintOutline(template types.TemplateName, theme types.ThemeName, lines []string) {
	if len(lines) == 0 {
		return
	}
	title := fmt.Sprintf("PREVIEW (%s / %s)", template.Label(), theme.Label())
	p.printBox(title, strings.Join(lines, "\n"))
}

// PrintExport outputs where a finished export landed on the page.
func (p *Printer) PrintExport(res *export.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:       %s (%d bytes)\n", res.Filename, len(res.PDF)))
	sb.WriteString(fmt.Sprintf("Bitmap:     %d x %d px\n", res.BitmapWidth, res.BitmapHeight))
	sb.WriteString(fmt.Sprintf("Placed at:  (%.1f, %.1f)\n", res.Placement.X, res.Placement.Y))
	sb.WriteString(fmt.Sprintf("Size:       %.1f x %.1f pt", res.Placement.Width, res.Placement.Height))
	if res.Placement.Overflows() {
		sb.WriteString("\n⚠ content runs past the bottom of the page")
	}

	p.printBox("PDF EXPORT", sb.String())
}

// PrintSchemaErrors outputs the problems found in an imported resume document.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSchemaErrors(verr *schemas.ValidationError) {
	if verr == nil || len(verr.Errors) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ DOCUMENT IS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(verr.Errors)))

	for i, e := range verr.Errors {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", e.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(e.Message, 45)))
		if i < len(verr.Errors)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SCHEMA VIOLATIONS", sb.String())
}
