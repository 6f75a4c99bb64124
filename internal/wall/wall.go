// Package wall provides the wall model: physical dimensions, appearance, and
// the pixels-per-inch scale that maps wall space onto the viewport.
package wall

import (
	"fmt"
	"image"
	"image/color"

	"wall-gallery/internal/units"
	"wall-gallery/pkg/colorutil"
	"wall-gallery/pkg/geometry"
)

// ViewportPadding is the fixed margin, in pixels, reserved around the wall
// when fitting it into the viewport.
const ViewportPadding = 40.0

// Default wall dimensions in inches.
const (
	DefaultWidthInches  = 96.0
	DefaultHeightInches = 48.0
)

// Wall holds the wall's physical dimensions and appearance. Dimensions are
// stored canonically in inches; DisplayUnit affects presentation only.
type Wall struct {
	WidthInches  float64
	HeightInches float64
	DisplayUnit  units.Unit
	Color        color.RGBA
	Background   image.Image

	// Scale is the derived pixels-per-inch factor. Zero until the first
	// Recompute.
	Scale float64
}

// New creates a wall with default dimensions and color.
func New() *Wall {
	return &Wall{
		WidthInches:  DefaultWidthInches,
		HeightInches: DefaultHeightInches,
		DisplayUnit:  units.Inches,
		Color:        colorutil.WallDefault,
	}
}

// Validate checks that the wall dimensions are usable.
func (w *Wall) Validate() error {
	if w.WidthInches <= 0 || w.HeightInches <= 0 {
		return fmt.Errorf("wall dimensions must be positive, got %gx%g inches",
			w.WidthInches, w.HeightInches)
	}
	return nil
}

// SetDimensions parses width and height given in the supplied display unit
// and stores them canonically. The display unit becomes the wall's current
// unit.
func (w *Wall) SetDimensions(width, height float64, unit units.Unit) error {
	wIn := units.ToCanonical(width, unit)
	hIn := units.ToCanonical(height, unit)
	if wIn <= 0 || hIn <= 0 {
		return fmt.Errorf("wall dimensions must be positive, got %g%s x %g%s",
			width, unit, height, unit)
	}
	w.WidthInches = wIn
	w.HeightInches = hIn
	w.DisplayUnit = unit
	return nil
}

// DisplayDimensions returns the wall dimensions converted to the current
// display unit.
func (w *Wall) DisplayDimensions() (width, height float64) {
	return units.FromCanonical(w.WidthInches, w.DisplayUnit),
		units.FromCanonical(w.HeightInches, w.DisplayUnit)
}

// Recompute derives the scale that fits the wall into the given viewport,
// preserving aspect ratio. It returns the previous and new scale so the
// caller can rescale dependent pixel geometry by newScale/oldScale.
func (w *Wall) Recompute(viewportWidth, viewportHeight float64) (oldScale, newScale float64) {
	oldScale = w.Scale

	availW := viewportWidth - ViewportPadding
	availH := viewportHeight - ViewportPadding
	if availW < 1 {
		availW = 1
	}
	if availH < 1 {
		availH = 1
	}

	newScale = availW / w.WidthInches
	if s := availH / w.HeightInches; s < newScale {
		newScale = s
	}
	// Scale must stay strictly positive for the pixel mapping to stay sane.
	if newScale <= 0 {
		newScale = 1e-6
	}

	w.Scale = newScale
	return oldScale, newScale
}

// PixelSize returns the wall's size in pixels at the current scale.
func (w *Wall) PixelSize() geometry.Size {
	return geometry.NewSize(w.WidthInches*w.Scale, w.HeightInches*w.Scale)
}

// Bounds returns the wall's pixel rectangle with origin at (0, 0).
func (w *Wall) Bounds() geometry.Rect {
	size := w.PixelSize()
	return geometry.NewRect(0, 0, size.Width, size.Height)
}
