package export

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
)

func TestA4_MatchesPDFPaperSize(t *testing.T) {
	assert.Equal(t, document.A4.URx, A4.Width)
	assert.Equal(t, document.A4.URy, A4.Height)
	assert.True(t, A4.MediaBox().NearlyEqual(document.A4, 1e-9))
}

func TestPageSizeOf_OffsetBox(t *testing.T) {
	got := PageSizeOf(&pdf.Rectangle{LLx: 10, LLy: 20, URx: 110, URy: 220})

	assert.Equal(t, PageSize{Width: 100, Height: 200}, got)
}

func TestComputePlacement(t *testing.T) {
	tests := []struct {
		name       string
		bw, bh     int
		wantHeight float64
		overflows  bool
	}{
		{name: "square", bw: 1000, bh: 1000, wantHeight: 555.276},
		{name: "half height", bw: 1000, bh: 500, wantHeight: 277.638},
		{name: "tall", bw: 1000, bh: 2000, wantHeight: 1110.552, overflows: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl, err := ComputePlacement(A4, 20, tt.bw, tt.bh)
			require.NoError(t, err)

			assert.InDelta(t, 555.276, pl.Width, 1e-9)
			assert.InDelta(t, tt.wantHeight, pl.Height, 1e-9)
			assert.Equal(t, 20.0, pl.X)
			assert.Equal(t, 20.0, pl.Y)
			assert.Equal(t, A4, pl.Page)
			assert.Equal(t, tt.overflows, pl.Overflows())
		})
	}
}

func TestComputePlacement_WidthIsPageMinusMargins(t *testing.T) {
	page := PageSize{Width: 600, Height: 800}

	pl, err := ComputePlacement(page, 20, 1600, 900)
	require.NoError(t, err)

	assert.Equal(t, 560.0, pl.Width)
	assert.InDelta(t, 900.0*560.0/1600.0, pl.Height, 1e-9)
}

func TestComputePlacement_Invalid(t *testing.T) {
	_, err := ComputePlacement(A4, 20, 0, 100)
	assert.Error(t, err)

	_, err = ComputePlacement(A4, 20, 100, 0)
	assert.Error(t, err)

	_, err = ComputePlacement(A4, 400, 100, 100)
	assert.Error(t, err)
}

func TestBitmapSize(t *testing.T) {
	bm := &Bitmap{Image: image.NewRGBA(image.Rect(0, 0, 12, 7))}
	assert.Equal(t, 12, bm.Width())
	assert.Equal(t, 7, bm.Height())

	var empty *Bitmap
	assert.Equal(t, 0, empty.Width())
	assert.Equal(t, 0, (&Bitmap{}).Height())
}
