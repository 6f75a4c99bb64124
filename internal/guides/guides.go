// Package guides computes the distance guides shown between a selected
// artwork and its nearest neighbor (or the wall edge) in each cardinal
// direction.
package guides

import (
	"wall-gallery/internal/units"
	"wall-gallery/pkg/geometry"
)

// Direction identifies one of the four guide directions.
type Direction int

const (
	Left Direction = iota
	Right
	Top
	Bottom
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Guide is one measured segment between two facing edges.
type Guide struct {
	Direction Direction
	Start     geometry.Point2D
	End       geometry.Point2D
	GapPixels float64
	// ToWall is set when no neighbor qualified and the guide targets the
	// wall edge instead.
	ToWall bool
	Label  string
}

// Compute produces up to four guides for the selected box against the other
// boxes, all in wall pixel coordinates. A neighbor qualifies in a direction
// when it lies strictly on that side and its projection overlaps the
// selected box's span on the perpendicular axis; overlapping boxes are never
// neighbors. Without a qualifying neighbor the guide runs to the wall edge
// at the selected box's own center line. Zero gaps produce no guide.
//
// This is a pure function of current geometry: it is recomputed wholesale on
// every move, resize, or selection change and keeps no state.
func Compute(selected geometry.Rect, others []geometry.Rect, wallBounds geometry.Rect, scale float64) []Guide {
	guides := make([]Guide, 0, 4)
	for _, dir := range []Direction{Left, Right, Top, Bottom} {
		if g, ok := compute(dir, selected, others, wallBounds, scale); ok {
			guides = append(guides, g)
		}
	}
	return guides
}

func compute(dir Direction, selected geometry.Rect, others []geometry.Rect, wallBounds geometry.Rect, scale float64) (Guide, bool) {
	best := -1.0
	var bestMid float64
	found := false

	for _, other := range others {
		// A box that intersects the selected one is never a directional
		// neighbor, regardless of its projection.
		if selected.Intersects(other) {
			continue
		}

		gap, ok := directionalGap(dir, selected, other)
		if !ok {
			continue
		}

		var start, length float64
		if dir == Left || dir == Right {
			start, length = selected.OverlapY(other)
		} else {
			start, length = selected.OverlapX(other)
		}
		if length <= 0 {
			continue
		}

		if !found || gap < best {
			best = gap
			bestMid = start + length/2
			found = true
		}
	}

	if found {
		if best <= 0 {
			return Guide{}, false
		}
		return makeGuide(dir, selected, best, bestMid, false, scale), true
	}

	// Wall edge fallback, centered on the selected box itself.
	var gap, mid float64
	switch dir {
	case Left:
		gap = selected.X - wallBounds.X
		mid = selected.Center().Y
	case Right:
		gap = wallBounds.Right() - selected.Right()
		mid = selected.Center().Y
	case Top:
		gap = selected.Y - wallBounds.Y
		mid = selected.Center().X
	case Bottom:
		gap = wallBounds.Bottom() - selected.Bottom()
		mid = selected.Center().X
	}
	if gap <= 0 {
		return Guide{}, false
	}
	return makeGuide(dir, selected, gap, mid, true, scale), true
}

// directionalGap returns the axis-aligned gap between the facing edges when
// other lies strictly on the given side of selected.
func directionalGap(dir Direction, selected, other geometry.Rect) (float64, bool) {
	switch dir {
	case Left:
		if other.Right() > selected.X {
			return 0, false
		}
		return selected.X - other.Right(), true
	case Right:
		if other.X < selected.Right() {
			return 0, false
		}
		return other.X - selected.Right(), true
	case Top:
		if other.Bottom() > selected.Y {
			return 0, false
		}
		return selected.Y - other.Bottom(), true
	case Bottom:
		if other.Y < selected.Bottom() {
			return 0, false
		}
		return other.Y - selected.Bottom(), true
	}
	return 0, false
}

func makeGuide(dir Direction, selected geometry.Rect, gap, mid float64, toWall bool, scale float64) Guide {
	g := Guide{
		Direction: dir,
		GapPixels: gap,
		ToWall:    toWall,
		Label:     units.FormatDual(units.ToUnit(gap, units.Inches, scale)),
	}
	switch dir {
	case Left:
		g.Start = geometry.NewPoint2D(selected.X-gap, mid)
		g.End = geometry.NewPoint2D(selected.X, mid)
	case Right:
		g.Start = geometry.NewPoint2D(selected.Right(), mid)
		g.End = geometry.NewPoint2D(selected.Right()+gap, mid)
	case Top:
		g.Start = geometry.NewPoint2D(mid, selected.Y-gap)
		g.End = geometry.NewPoint2D(mid, selected.Y)
	case Bottom:
		g.Start = geometry.NewPoint2D(mid, selected.Bottom())
		g.End = geometry.NewPoint2D(mid, selected.Bottom()+gap)
	}
	return g
}
