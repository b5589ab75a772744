// Package imaging prepares screenshots for the vision model.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// CropLeft keeps the leftmost keep fraction of the image and re-encodes
// it as PNG. Screenshots of the reader show the document page on the
// left and the chat panel on the right; the panel is noise for the
// vision model.
func CropLeft(data []byte, keep float64) ([]byte, error) {
	if keep <= 0 || keep > 1 {
		return nil, fmt.Errorf("keep fraction must be in (0, 1], got %v", keep)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * keep)
	if width < 1 {
		width = 1
	}
	rect := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+width, bounds.Max.Y)

	si, ok := img.(subImager)
	if !ok {
		return nil, fmt.Errorf("image type %T does not support cropping", img)
	}
	cropped := si.SubImage(rect)

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}
	return buf.Bytes(), nil
}
