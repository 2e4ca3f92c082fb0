package export

import (
	"bytes"
	"fmt"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	pdfimage "seehuhn.de/go/pdf/graphics/image"
)

// PDFPackager writes a single-page PDF containing one embedded raster image.
type PDFPackager struct{}

// Package embeds the bitmap losslessly at the given placement.
func (PDFPackager) Package(bm *Bitmap, pl Placement) ([]byte, error) {
	if bm.Width() == 0 || bm.Height() == 0 {
		return nil, fmt.Errorf("empty bitmap")
	}

	var buf bytes.Buffer
	page, err := document.WriteSinglePage(&buf, pl.Page.MediaBox(), pdf.V1_7, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start PDF: %w", err)
	}

	// PDF user space has its origin at the bottom-left corner.
	bottom := pl.Page.Height - pl.Y - pl.Height

	page.PushGraphicsState()
	page.Transform(matrix.Scale(pl.Width, pl.Height).Mul(matrix.Translate(pl.X, bottom)))
	page.DrawXObject(&pdfimage.PNG{Data: bm.Image})
	page.PopGraphicsState()

	if err := page.Close(); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}
