// Package artwork provides the per-artwork geometry model: logical size,
// frame and matte expansion, placement, and aspect-locked resizing.
//
// Logical size and border widths are canonical inches; position is pixels
// relative to the wall origin. Pixel size is always derived from the canonical
// size at the current scale, so physical dimensions survive wall rescales
// automatically; only the pixel position needs explicit rescaling.
package artwork

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"wall-gallery/pkg/colorutil"
	"wall-gallery/pkg/geometry"
)

const (
	// DefaultHeightInches is the logical height assigned to freshly placed
	// artwork; width follows the aspect ratio.
	DefaultHeightInches = 12.0

	// DefaultFrameWidthInches and DefaultMatteWidthInches are the border
	// widths applied when a frame or matte is first enabled.
	DefaultFrameWidthInches = 1.0
	DefaultMatteWidthInches = 2.0

	// MinPixelSize is the floor for the total bounding box during handle
	// resizes, keeping artwork grabbable.
	MinPixelSize = 20.0

	// Grid placement for multi-image uploads: 3 columns on a fixed pitch.
	GridColumns      = 3
	GridPitchXInches = 18.0
	GridPitchYInches = 18.0
	GridMarginInches = 2.0

	// aspectEpsilon is the tolerance used to decide which dimension the
	// caller actually changed during an aspect-locked size edit.
	aspectEpsilon = 1e-3
)

// Artwork is one placed piece on the wall.
type Artwork struct {
	ID       int64
	ImageRef string
	Image    image.Image

	// AspectRatio is naturalWidth/naturalHeight, fixed once decode
	// completes. While DecodePending is set the ratio is a square
	// placeholder and the size is provisional.
	AspectRatio   float64
	DecodePending bool

	// Logical (image-only) size in inches.
	LogicalWidth  float64
	LogicalHeight float64

	// Position is the top-left corner of the total bounding box, in pixels
	// relative to the wall origin.
	Position geometry.Point2D

	HasFrame         bool
	FrameColor       color.RGBA
	FrameWidthInches float64
	HasMatte         bool
	MatteColor       color.RGBA
	MatteWidthInches float64
}

// New creates an artwork with the default logical size for the given aspect
// ratio. Pass aspect <= 0 for a not-yet-decoded image; a square placeholder
// is used until ApplyDecodedDimensions corrects it.
func New(id int64, imageRef string, aspect float64) *Artwork {
	pending := aspect <= 0
	if pending {
		aspect = 1
	}
	return &Artwork{
		ID:               id,
		ImageRef:         imageRef,
		AspectRatio:      aspect,
		DecodePending:    pending,
		LogicalWidth:     DefaultHeightInches * aspect,
		LogicalHeight:    DefaultHeightInches,
		FrameColor:       colorutil.FrameDefault,
		FrameWidthInches: DefaultFrameWidthInches,
		MatteColor:       colorutil.MatteDefault,
		MatteWidthInches: DefaultMatteWidthInches,
	}
}

// BorderInches returns the border added on each side by the matte and frame.
func (a *Artwork) BorderInches() float64 {
	var b float64
	if a.HasMatte {
		b += a.MatteWidthInches
	}
	if a.HasFrame {
		b += a.FrameWidthInches
	}
	return b
}

// TotalSizeInches returns the full footprint including matte and frame.
func (a *Artwork) TotalSizeInches() geometry.Size {
	border := 2 * a.BorderInches()
	return geometry.NewSize(a.LogicalWidth+border, a.LogicalHeight+border)
}

// TotalSizePixels returns the full footprint in pixels at the given scale.
func (a *Artwork) TotalSizePixels(scale float64) geometry.Size {
	return a.TotalSizeInches().Scale(scale)
}

// Bounds returns the total bounding box in wall pixel coordinates.
func (a *Artwork) Bounds(scale float64) geometry.Rect {
	size := a.TotalSizePixels(scale)
	return geometry.NewRect(a.Position.X, a.Position.Y, size.Width, size.Height)
}

// SetLogicalSize updates the logical size. With maintainAspect set, the
// dimension the caller changed drives and the other is corrected: when the
// new height disagrees with width/aspect beyond a small epsilon the height
// was edited, so width becomes height*aspect; otherwise height is re-derived
// from width. Without the lock both values are taken verbatim.
func (a *Artwork) SetLogicalSize(width, height float64, maintainAspect bool) {
	if maintainAspect && a.AspectRatio > 0 {
		if !scalar.EqualWithinAbs(height, width/a.AspectRatio, aspectEpsilon) {
			width = height * a.AspectRatio
		} else {
			height = width / a.AspectRatio
		}
	}
	a.LogicalWidth = width
	a.LogicalHeight = height
}

// SetFrame updates the frame toggle, color, and width.
func (a *Artwork) SetFrame(enabled bool, c color.RGBA, widthInches float64) {
	a.HasFrame = enabled
	a.FrameColor = c
	if widthInches > 0 {
		a.FrameWidthInches = widthInches
	}
}

// SetMatte updates the matte toggle, color, and width.
func (a *Artwork) SetMatte(enabled bool, c color.RGBA, widthInches float64) {
	a.HasMatte = enabled
	a.MatteColor = c
	if widthInches > 0 {
		a.MatteWidthInches = widthInches
	}
}

// Move translates the artwork by (dx, dy) pixels and clamps the total
// bounding box into the wall.
func (a *Artwork) Move(dx, dy float64, wallBounds geometry.Rect, scale float64) {
	a.Position.X += dx
	a.Position.Y += dy
	a.ClampToWall(wallBounds, scale)
}

// ClampToWall keeps the total bounding box inside the wall. When the box is
// larger than the wall on an axis it is pinned to the wall origin.
func (a *Artwork) ClampToWall(wallBounds geometry.Rect, scale float64) {
	size := a.TotalSizePixels(scale)
	a.Position.X = clamp(a.Position.X, wallBounds.X, wallBounds.Right()-size.Width)
	a.Position.Y = clamp(a.Position.Y, wallBounds.Y, wallBounds.Bottom()-size.Height)
}

// PlaceCentered positions the artwork's total box centered on the hint.
func (a *Artwork) PlaceCentered(hint geometry.Point2D, scale float64) {
	size := a.TotalSizePixels(scale)
	a.Position = geometry.NewPoint2D(hint.X-size.Width/2, hint.Y-size.Height/2)
}

// GridPosition returns the pixel position for the index-th slot of the
// 3-column upload grid, row-major on a fixed canonical pitch.
func GridPosition(index int, scale float64) geometry.Point2D {
	col := index % GridColumns
	row := index / GridColumns
	return geometry.NewPoint2D(
		(GridMarginInches+float64(col)*GridPitchXInches)*scale,
		(GridMarginInches+float64(row)*GridPitchYInches)*scale,
	)
}

// ResizeViaHandle derives a new logical size from the bottom-right handle
// position, in wall pixel coordinates. Aspect ratio is always preserved: the
// requested box is shrunk on whichever axis overshoots it. The total box
// never drops below MinPixelSize on its limiting axis.
func (a *Artwork) ResizeViaHandle(cornerX, cornerY float64, scale float64) {
	if scale <= 0 || a.AspectRatio <= 0 {
		return
	}

	borderPx := 2 * a.BorderInches() * scale
	reqW := cornerX - a.Position.X - borderPx
	reqH := cornerY - a.Position.Y - borderPx

	if reqW < 1 {
		reqW = 1
	}
	if reqH < 1 {
		reqH = 1
	}

	// Preserve aspect by clamping the overshooting axis down.
	if reqW/reqH > a.AspectRatio {
		reqW = reqH * a.AspectRatio
	} else {
		reqH = reqW / a.AspectRatio
	}

	// The floor binds on the shorter axis; flooring it after the aspect
	// clamp keeps an extreme ratio from dragging it back under the minimum.
	minLogical := MinPixelSize - borderPx
	if minLogical < 1 {
		minLogical = 1
	}
	if a.AspectRatio >= 1 {
		if reqH < minLogical {
			reqH = minLogical
			reqW = reqH * a.AspectRatio
		}
	} else if reqW < minLogical {
		reqW = minLogical
		reqH = reqW / a.AspectRatio
	}

	a.LogicalWidth = reqW / scale
	a.LogicalHeight = reqH / scale
}

// ApplyDecodedDimensions installs the natural pixel dimensions once the
// asynchronous decode completes. A provisional square is corrected by
// keeping its logical height and re-deriving the width; an artwork whose
// size was already known (restored from a saved layout, then re-decoded for
// rendering) keeps that size exactly.
func (a *Artwork) ApplyDecodedDimensions(naturalWidth, naturalHeight int) {
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return
	}
	a.AspectRatio = float64(naturalWidth) / float64(naturalHeight)
	if a.DecodePending {
		a.LogicalWidth = a.LogicalHeight * a.AspectRatio
		a.DecodePending = false
	}
}

// Rescale adjusts the pixel position for a scale change of the given ratio.
// Canonical sizes are untouched; pixel size follows the new scale on its own.
func (a *Artwork) Rescale(ratio float64) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return
	}
	a.Position = a.Position.Scale(ratio)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
