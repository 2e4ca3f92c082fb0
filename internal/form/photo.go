package form

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	// Registered decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/jonathan/resume-builder/internal/types"
)

// DecodePhoto turns raw image file bytes into a displayable data URI.
// maxBytes <= 0 disables the size check.
func DecodePhoto(ctx context.Context, data []byte, maxBytes int) (types.Photo, error) {
	if err := ctx.Err(); err != nil {
		return types.Photo{}, &PhotoError{Message: "decode cancelled", Cause: err}
	}
	if len(data) == 0 {
		return types.Photo{}, &PhotoError{Message: "empty file"}
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return types.Photo{}, &PhotoError{Message: fmt.Sprintf("file is %d bytes, limit is %d", len(data), maxBytes)}
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return types.Photo{}, &PhotoError{Message: fmt.Sprintf("not an image (detected %s)", mime.String())}
	}

	// Require a decodable raster header; a sniffed image/* type alone is not enough.
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return types.Photo{}, &PhotoError{Message: "unreadable image data", Cause: err}
	}

	if err := ctx.Err(); err != nil {
		return types.Photo{}, &PhotoError{Message: "decode cancelled", Cause: err}
	}

	// Drop parameters such as "; charset=binary".
	mimeType, _, _ := strings.Cut(mime.String(), ";")
	return types.Photo{
		DataURI:  "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
		MIMEType: mimeType,
		Size:     len(data),
	}, nil
}
