package guides

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wall-gallery/pkg/geometry"
)

var wall = geometry.NewRect(0, 0, 960, 480)

func findGuide(guides []Guide, dir Direction) (Guide, bool) {
	for _, g := range guides {
		if g.Direction == dir {
			return g, true
		}
	}
	return Guide{}, false
}

func TestNeighborRight(t *testing.T) {
	// Scenario: selected at [100,100]-[200,200], neighbor at
	// [250,120]-[350,180] with 60px of vertical overlap.
	selected := geometry.NewRect(100, 100, 100, 100)
	other := geometry.NewRect(250, 120, 100, 60)

	guides := Compute(selected, []geometry.Rect{other}, wall, 10)
	g, ok := findGuide(guides, Right)
	require.True(t, ok)

	assert.False(t, g.ToWall)
	assert.InDelta(t, 50.0, g.GapPixels, 1e-9)
	// Segment sits at the midpoint of the overlap span, between facing edges.
	assert.Equal(t, geometry.NewPoint2D(200, 150), g.Start)
	assert.Equal(t, geometry.NewPoint2D(250, 150), g.End)
	// 50px at 10px/in is 5 inches, 12.7cm.
	assert.Equal(t, "5\" / 13cm", g.Label)
}

func TestNoPerpendicularOverlapFallsBackToWall(t *testing.T) {
	selected := geometry.NewRect(100, 100, 100, 100)
	// Strictly to the right but no vertical overlap.
	other := geometry.NewRect(250, 300, 100, 60)

	guides := Compute(selected, []geometry.Rect{other}, wall, 10)
	g, ok := findGuide(guides, Right)
	require.True(t, ok)
	assert.True(t, g.ToWall)
	assert.InDelta(t, 760.0, g.GapPixels, 1e-9)
	// Wall-edge guides use the selected box's own center line.
	assert.Equal(t, 150.0, g.Start.Y)
}

func TestTouchingProjectionIsNotOverlap(t *testing.T) {
	selected := geometry.NewRect(100, 100, 100, 100)
	// Projection touches at y=200 exactly: overlap of zero does not qualify.
	other := geometry.NewRect(250, 200, 100, 60)

	guides := Compute(selected, []geometry.Rect{other}, wall, 10)
	g, ok := findGuide(guides, Right)
	require.True(t, ok)
	assert.True(t, g.ToWall)
}

func TestOverlappingBoxesAreNeverNeighbors(t *testing.T) {
	selected := geometry.NewRect(100, 100, 100, 100)
	overlapping := geometry.NewRect(150, 150, 200, 200)

	guides := Compute(selected, []geometry.Rect{overlapping}, wall, 10)
	for _, g := range guides {
		assert.True(t, g.ToWall, "%s guide picked an overlapping box", g.Direction)
	}
}

func TestNearestNeighborWins(t *testing.T) {
	selected := geometry.NewRect(100, 100, 100, 100)
	near := geometry.NewRect(230, 120, 50, 60)
	far := geometry.NewRect(400, 110, 50, 80)

	guides := Compute(selected, []geometry.Rect{far, near}, wall, 10)
	g, ok := findGuide(guides, Right)
	require.True(t, ok)
	assert.InDelta(t, 30.0, g.GapPixels, 1e-9)
}

func TestAllFourDirections(t *testing.T) {
	selected := geometry.NewRect(400, 200, 100, 100)
	others := []geometry.Rect{
		{X: 100, Y: 220, Width: 100, Height: 60}, // left, gap 200
		{X: 600, Y: 210, Width: 80, Height: 80},  // right, gap 100
		{X: 420, Y: 50, Width: 60, Height: 100},  // top, gap 50
	}

	guides := Compute(selected, others, wall, 10)
	require.Len(t, guides, 4)

	left, _ := findGuide(guides, Left)
	assert.InDelta(t, 200.0, left.GapPixels, 1e-9)
	assert.False(t, left.ToWall)

	right, _ := findGuide(guides, Right)
	assert.InDelta(t, 100.0, right.GapPixels, 1e-9)

	top, _ := findGuide(guides, Top)
	assert.InDelta(t, 50.0, top.GapPixels, 1e-9)

	bottom, _ := findGuide(guides, Bottom)
	assert.True(t, bottom.ToWall)
	assert.InDelta(t, 180.0, bottom.GapPixels, 1e-9)
}

func TestZeroGapAtWallEdgeProducesNoGuide(t *testing.T) {
	// Flush against the left and top wall edges.
	selected := geometry.NewRect(0, 0, 100, 100)

	guides := Compute(selected, nil, wall, 10)
	_, hasLeft := findGuide(guides, Left)
	_, hasTop := findGuide(guides, Top)
	assert.False(t, hasLeft)
	assert.False(t, hasTop)

	_, hasRight := findGuide(guides, Right)
	assert.True(t, hasRight)
}

func TestGuideSegmentGeometry(t *testing.T) {
	selected := geometry.NewRect(100, 100, 100, 100)
	above := geometry.NewRect(120, 20, 60, 40)

	guides := Compute(selected, []geometry.Rect{above}, wall, 10)
	g, ok := findGuide(guides, Top)
	require.True(t, ok)

	// Overlap on x is [120,180], midpoint 150; segment spans the gap.
	assert.Equal(t, geometry.NewPoint2D(150, 60), g.Start)
	assert.Equal(t, geometry.NewPoint2D(150, 100), g.End)
	assert.InDelta(t, 40.0, g.GapPixels, 1e-9)
}
