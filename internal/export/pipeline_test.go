package export

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRasterizer struct {
	bitmap *Bitmap
	err    error
	scales []float64
	block  chan struct{}
}

func (f *fakeRasterizer) Capture(ctx context.Context, _ *rendering.Document, scale float64) (*Bitmap, error) {
	f.scales = append(f.scales, scale)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.bitmap, nil
}

type recordingPackager struct {
	placements []Placement
	err        error
}

func (r *recordingPackager) Package(_ *Bitmap, pl Placement) ([]byte, error) {
	r.placements = append(r.placements, pl)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-fake"), nil
}

func testDocument(t *testing.T) *rendering.Document {
	t.Helper()
	doc, err := rendering.MustNewRenderer().Render(types.Snapshot{
		Resume:       types.NewResumeData(),
		Presentation: types.NewPresentation(),
	})
	require.NoError(t, err)
	return doc
}

func TestPipeline_Export(t *testing.T) {
	raster := &fakeRasterizer{bitmap: solidBitmap(1000, 500)}
	pkg := &recordingPackager{}
	p := NewPipeline(raster, pkg)

	res, err := p.Export(context.Background(), testDocument(t))
	require.NoError(t, err)

	assert.Equal(t, "resume.pdf", res.Filename)
	assert.Equal(t, []byte("%PDF-fake"), res.PDF)
	assert.Equal(t, 1000, res.BitmapWidth)
	assert.Equal(t, 500, res.BitmapHeight)
	assert.Equal(t, []float64{2}, raster.scales)
	require.Len(t, pkg.placements, 1)
	assert.InDelta(t, A4.Width-40, pkg.placements[0].Width, 1e-9)
	assert.InDelta(t, (A4.Width-40)/2, pkg.placements[0].Height, 1e-9)
}

func TestPipeline_ExportWithRealPackager(t *testing.T) {
	p := NewPipeline(&fakeRasterizer{bitmap: solidBitmap(80, 120)}, PDFPackager{})

	res, err := p.Export(context.Background(), testDocument(t))
	require.NoError(t, err)

	assert.Equal(t, "%PDF-", string(res.PDF[:5]))
}

func TestPipeline_CaptureFailure(t *testing.T) {
	cause := errors.New("browser crashed")
	pkg := &recordingPackager{}
	p := NewPipeline(&fakeRasterizer{err: cause}, pkg)

	_, err := p.Export(context.Background(), testDocument(t))

	var exportErr *Error
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, StageCapture, exportErr.Stage)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, pkg.placements, "packaging must not run after a failed capture")
}

func TestPipeline_LayoutFailure(t *testing.T) {
	p := NewPipeline(&fakeRasterizer{bitmap: &Bitmap{}}, &recordingPackager{})

	_, err := p.Export(context.Background(), testDocument(t))

	var exportErr *Error
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, StageLayout, exportErr.Stage)
}

func TestPipeline_PackageFailure(t *testing.T) {
	p := NewPipeline(&fakeRasterizer{bitmap: solidBitmap(10, 10)}, &recordingPackager{err: errors.New("disk full")})

	_, err := p.Export(context.Background(), testDocument(t))

	var exportErr *Error
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, StagePackage, exportErr.Stage)
	assert.Contains(t, err.Error(), "disk full")
}

func TestPipeline_ZeroValueSettings(t *testing.T) {
	raster := &fakeRasterizer{bitmap: solidBitmap(10, 10)}
	p := &Pipeline{Rasterizer: raster, Packager: &recordingPackager{}}

	res, err := p.Export(context.Background(), testDocument(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultFilename, res.Filename)
	assert.Equal(t, A4, res.Placement.Page)
	assert.Equal(t, []float64{DefaultScale}, raster.scales)
}

func TestPipeline_NilDocument(t *testing.T) {
	p := NewPipeline(&fakeRasterizer{}, &recordingPackager{})

	_, err := p.Export(context.Background(), nil)
	assert.Error(t, err)
}
