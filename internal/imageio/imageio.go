// Package imageio provides image decoding and thumbnail generation.
// Decoding is the one asynchronous operation in the system: callers receive
// natural pixel dimensions only once the decode goroutine completes.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoded holds a decoded image and its natural pixel dimensions.
type Decoded struct {
	Path   string
	Name   string
	Width  int
	Height int
	Image  image.Image
}

// AspectRatio returns naturalWidth / naturalHeight.
func (d Decoded) AspectRatio() float64 {
	if d.Height == 0 {
		return 1
	}
	return float64(d.Width) / float64(d.Height)
}

// Decode reads and decodes the image at path.
func Decode(path string) (Decoded, error) {
	file, err := os.Open(path)
	if err != nil {
		return Decoded{}, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return Decoded{}, fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
	}

	b := img.Bounds()
	return Decoded{
		Path:   path,
		Name:   filepath.Base(path),
		Width:  b.Dx(),
		Height: b.Dy(),
		Image:  img,
	}, nil
}

// DecodeAsync decodes the image on a background goroutine and invokes done
// with the result. done runs on that goroutine; callers are responsible for
// marshalling back to their own thread of control.
func DecodeAsync(path string, done func(Decoded, error)) {
	go func() {
		done(Decode(path))
	}()
}

// Thumbnail scales img so its longer edge is at most maxEdge pixels,
// preserving aspect ratio. Images already small enough are returned as-is.
func Thumbnail(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}

	var tw, th int
	if w >= h {
		tw = maxEdge
		th = h * maxEdge / w
	} else {
		th = maxEdge
		tw = w * maxEdge / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
