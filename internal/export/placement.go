package export

import (
	"fmt"
	"image"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
)

// PageSize is a page in PDF points
type PageSize struct {
	Width  float64
	Height float64
}

// A4 is portrait ISO A4.
var A4 = PageSizeOf(document.A4)

// PageSizeOf converts a PDF media box to a page size.
func PageSizeOf(box *pdf.Rectangle) PageSize {
	return PageSize{Width: box.URx - box.LLx, Height: box.URy - box.LLy}
}

// MediaBox is the PDF rectangle of the page, anchored at the origin.
func (p PageSize) MediaBox() *pdf.Rectangle {
	return &pdf.Rectangle{URx: p.Width, URy: p.Height}
}

// Placement positions the captured bitmap on the page. X and Y are measured
// from the top-left corner of the page.
type Placement struct {
	Page   PageSize
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Overflows reports whether the image runs past the bottom page edge.
func (p Placement) Overflows() bool {
	return p.Y+p.Height > p.Page.Height
}

// Bitmap is a captured raster image of the preview region
type Bitmap struct {
	Image image.Image
}

// Width returns the pixel width, or 0 for an empty bitmap.
func (b *Bitmap) Width() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the pixel height, or 0 for an empty bitmap.
func (b *Bitmap) Height() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// ComputePlacement fits a bitmap of bw×bh pixels to the page width minus the
// margin on both sides, preserving aspect ratio. The height is not clamped:
// content taller than the page overflows the bottom edge.
func ComputePlacement(page PageSize, margin float64, bw, bh int) (Placement, error) {
	if bw <= 0 || bh <= 0 {
		return Placement{}, fmt.Errorf("cannot place a %dx%d bitmap", bw, bh)
	}
	if margin < 0 || 2*margin >= page.Width {
		return Placement{}, fmt.Errorf("margin %.2f leaves no room on a %.2fpt wide page", margin, page.Width)
	}

	width := page.Width - 2*margin
	return Placement{
		Page:   page,
		X:      margin,
		Y:      margin,
		Width:  width,
		Height: float64(bh) * width / float64(bw),
	}, nil
}
