// Package gallery normalizes uploaded images before they enter a user's
// photo collection: EXIF orientation is corrected, the image is cropped to
// a fixed square with cover-fit scaling, and the result is re-encoded as
// baseline JPEG.
package gallery

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// SideLength is the edge of the square every stored photo is
	// normalized to.
	SideLength = 640

	// JPEGQuality is the re-encode quality for stored photos.
	JPEGQuality = 80

	// ContentType is the content type every normalized photo carries.
	ContentType = "image/jpeg"
)

// IsImage checks the declared MIME type and sniffs the payload. Both must
// look like an image before any decoding happens.
func IsImage(declaredMIME string, data []byte) bool {
	if !strings.HasPrefix(declaredMIME, "image/") {
		return false
	}
	return strings.HasPrefix(http.DetectContentType(data), "image/")
}

// Normalize turns an arbitrary uploaded image into the canonical stored
// form: auto-oriented, scaled to fill SideLength x SideLength with excess
// cropped (never letterboxed), JPEG quality 80. The context is checked
// between stages so an aborted request never produces a result to persist.
func Normalize(ctx context.Context, data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img = imaging.Fill(img, SideLength, SideLength, imaging.Center, imaging.Lanczos)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
