package imageio

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "art.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	return path
}

func TestDecode(t *testing.T) {
	path := writePNG(t, 1200, 800)

	d, err := Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 1200, d.Width)
	assert.Equal(t, 800, d.Height)
	assert.Equal(t, "art.png", d.Name)
	assert.InDelta(t, 1.5, d.AspectRatio(), 1e-12)
}

func TestDecodeAsync(t *testing.T) {
	path := writePNG(t, 40, 80)

	results := make(chan Decoded, 1)
	DecodeAsync(path, func(d Decoded, err error) {
		require.NoError(t, err)
		results <- d
	})

	d := <-results
	assert.InDelta(t, 0.5, d.AspectRatio(), 1e-12)
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 600, 300))

	thumb := Thumbnail(src, 120)
	b := thumb.Bounds()
	assert.Equal(t, 120, b.Dx())
	assert.Equal(t, 60, b.Dy())

	// Small images pass through untouched.
	small := image.NewRGBA(image.Rect(0, 0, 50, 40))
	assert.Equal(t, image.Image(small), Thumbnail(small, 120))
}
