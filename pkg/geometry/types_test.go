package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntersects(t *testing.T) {
	a := NewRect(0, 0, 10, 10)

	assert.True(t, a.Intersects(NewRect(5, 5, 10, 10)))
	assert.False(t, a.Intersects(NewRect(20, 0, 10, 10)))

	// Touching edges are not an intersection.
	assert.False(t, a.Intersects(NewRect(10, 0, 10, 10)))
	assert.False(t, a.Intersects(NewRect(0, 10, 10, 10)))
}

func TestRectOverlap(t *testing.T) {
	a := NewRect(100, 100, 100, 100)
	b := NewRect(250, 120, 100, 60)

	start, length := a.OverlapY(b)
	assert.Equal(t, 120.0, start)
	assert.Equal(t, 60.0, length)

	_, length = a.OverlapX(b)
	assert.Less(t, length, 0.0)
}

func TestRectEdges(t *testing.T) {
	r := NewRect(3, 4, 10, 20)
	assert.Equal(t, 13.0, r.Right())
	assert.Equal(t, 24.0, r.Bottom())
	assert.Equal(t, Point2D{X: 8, Y: 14}, r.Center())
}

func TestRectUnion(t *testing.T) {
	u := NewRect(0, 0, 10, 10).Union(NewRect(20, 5, 10, 10))
	assert.Equal(t, NewRect(0, 0, 30, 15), u)
}
