// Package thumbnail derives resized image variants from original blobs.
package thumbnail

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Widths are the derivative sizes generated per image, largest first.
var Widths = []int{500, 250, 100}

// Generate resizes src to the given width keeping the aspect ratio and
// re-encodes it in its original format. Derivatives are deterministic for a
// given (src, width) pair, so regenerating one is a pure overwrite.
func Generate(src []byte, width int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, encodeFormat(format)); err != nil {
		return nil, fmt.Errorf("encode %s thumbnail: %w", format, err)
	}
	return buf.Bytes(), nil
}

func encodeFormat(format string) imaging.Format {
	switch format {
	case "jpeg":
		return imaging.JPEG
	case "gif":
		return imaging.GIF
	case "tiff":
		return imaging.TIFF
	case "bmp":
		return imaging.BMP
	default:
		return imaging.PNG
	}
}
