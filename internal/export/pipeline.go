// Package export captures a rendered resume as a bitmap and packages it into a
// single-page PDF.
package export

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resume-builder/internal/rendering"
)

// Rasterizer turns the preview region of a document into a bitmap.
type Rasterizer interface {
	Capture(ctx context.Context, doc *rendering.Document, scale float64) (*Bitmap, error)
}

// Packager wraps a bitmap into a downloadable document.
type Packager interface {
	Package(bm *Bitmap, pl Placement) ([]byte, error)
}

// Exporter runs a complete export.
type Exporter interface {
	Export(ctx context.Context, doc *rendering.Document) (*Result, error)
}

// Defaults for Pipeline fields left at their zero value.
const (
	DefaultScale    = 2.0
	DefaultMargin   = 20.0
	DefaultFilename = "resume.pdf"
)

// Pipeline captures, lays out and packages a document
type Pipeline struct {
	Rasterizer Rasterizer
	Packager   Packager
	Scale      float64
	Margin     float64
	Page       PageSize
	Filename   string
	Verbose    bool
}

// NewPipeline returns a pipeline with the default scale, margin, page and filename.
func NewPipeline(r Rasterizer, p Packager) *Pipeline {
	return &Pipeline{
		Rasterizer: r,
		Packager:   p,
		Scale:      DefaultScale,
		Margin:     DefaultMargin,
		Page:       A4,
		Filename:   DefaultFilename,
	}
}

// Result is a finished export
type Result struct {
	Filename     string
	PDF          []byte
	Placement    Placement
	BitmapWidth  int
	BitmapHeight int
}

// Export runs capture, layout and packaging in order. Any failure is returned
// as *Error naming the stage; nothing is retried.
func (p *Pipeline) Export(ctx context.Context, doc *rendering.Document) (*Result, error) {
	if doc == nil {
		return nil, &Error{Stage: StageCapture, Cause: fmt.Errorf("no document")}
	}
	scale, margin, page, filename := p.settings()

	bm, err := p.Rasterizer.Capture(ctx, doc, scale)
	if err != nil {
		return nil, &Error{Stage: StageCapture, Cause: err}
	}

	pl, err := ComputePlacement(page, margin, bm.Width(), bm.Height())
	if err != nil {
		return nil, &Error{Stage: StageLayout, Cause: err}
	}
	if p.Verbose && pl.Overflows() {
		log.Printf("[EXPORT] Content is %.0fpt tall and overflows the page; it will be clipped", pl.Y+pl.Height)
	}

	if err := ctx.Err(); err != nil {
		return nil, &Error{Stage: StagePackage, Cause: err}
	}
	data, err := p.Packager.Package(bm, pl)
	if err != nil {
		return nil, &Error{Stage: StagePackage, Cause: err}
	}

	if p.Verbose {
		log.Printf("[EXPORT] Packaged %dx%d capture into %s (%d bytes)", bm.Width(), bm.Height(), filename, len(data))
	}

	return &Result{
		Filename:     filename,
		PDF:          data,
		Placement:    pl,
		BitmapWidth:  bm.Width(),
		BitmapHeight: bm.Height(),
	}, nil
}

func (p *Pipeline) settings() (scale, margin float64, page PageSize, filename string) {
	scale, margin, page, filename = p.Scale, p.Margin, p.Page, p.Filename
	if scale <= 0 {
		scale = DefaultScale
	}
	if margin < 0 {
		margin = DefaultMargin
	}
	if page.Width <= 0 || page.Height <= 0 {
		page = A4
	}
	if filename == "" {
		filename = DefaultFilename
	}
	return scale, margin, page, filename
}
