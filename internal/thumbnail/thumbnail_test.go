package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGenerateKeepsAspectRatio(t *testing.T) {
	src := testPNG(t, 10, 8)

	out, err := Generate(src, 5)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, 5, img.Bounds().Dx())
	require.Equal(t, 4, img.Bounds().Dy())
}

func TestGenerateIsDeterministic(t *testing.T) {
	src := testPNG(t, 12, 12)

	a, err := Generate(src, 6)
	require.NoError(t, err)
	b, err := Generate(src, 6)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestGenerateRejectsNonImage(t *testing.T) {
	_, err := Generate([]byte("definitely not an image"), 100)
	require.Error(t, err)
}
