package app

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wall-gallery/internal/storage"
	"wall-gallery/internal/units"
	"wall-gallery/pkg/colorutil"
	"wall-gallery/pkg/geometry"
)

// fixedViewport gives the default 96x48in wall a scale of exactly 10px/in.
func fixedViewport() (float64, float64) { return 1000.0, 2000.0 }

func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := NewState(storage.NewMemStore(), fixedViewport)
	require.NoError(t, err)
	s.Recompute()
	return s
}

func writePNG(t *testing.T, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	return path
}

// waitDecoded blocks until the artwork's async decode has been applied.
func waitDecoded(t *testing.T, s *State, id int64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if a := s.Find(id); a != nil && !a.DecodePending {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("artwork %d never finished decoding", id)
}

// waitImage blocks until the artwork's image has been installed. Restored
// artworks are never decode-pending, so this is the signal that their
// re-decode landed.
func waitImage(t *testing.T, s *State, id int64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if a := s.Find(id); a != nil && a.Image != nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("artwork %d never received its image", id)
}

func TestAddArtworkAppliesDecodedAspect(t *testing.T) {
	s := newTestState(t)
	path := writePNG(t, "art.png", 1200, 800)

	a := s.AddArtworkFromFile(path, nil)
	require.NotNil(t, a)
	waitDecoded(t, s, a.ID)

	got := s.Find(a.ID)
	assert.InDelta(t, 1.5, got.AspectRatio, 1e-9)
	assert.InDelta(t, got.LogicalHeight*1.5, got.LogicalWidth, 1e-9)
	assert.NotNil(t, got.Image)
}

func TestDecodeAfterDeleteIsNoOp(t *testing.T) {
	s := newTestState(t)
	path := writePNG(t, "art.png", 100, 100)

	a := s.AddArtworkFromFile(path, nil)
	require.NotNil(t, a)
	s.DeleteArtwork(a.ID)

	// Give the decode goroutine time to land; it must not resurrect the
	// artwork or panic.
	time.Sleep(100 * time.Millisecond)
	assert.Nil(t, s.Find(a.ID))
	assert.Empty(t, s.Artworks)
}

func TestMultiUploadTilesGrid(t *testing.T) {
	s := newTestState(t)
	a := s.AddArtworkFromFile(writePNG(t, "a.png", 10, 10), nil)
	b := s.AddArtworkFromFile(writePNG(t, "b.png", 10, 10), nil)
	waitDecoded(t, s, a.ID)
	waitDecoded(t, s, b.ID)

	p1, p2 := s.Find(a.ID).Position, s.Find(b.ID).Position
	assert.NotEqual(t, p1, p2)
	assert.Greater(t, p2.X, p1.X)
	assert.Equal(t, p1.Y, p2.Y)
}

func TestSelectionLifecycle(t *testing.T) {
	s := newTestState(t)
	a := s.AddArtworkFromFile(writePNG(t, "a.png", 10, 10), nil)

	events := 0
	s.On(EventSelectionChanged, func(interface{}) { events++ })

	s.Select(a.ID)
	require.NotNil(t, s.Selection())
	assert.Equal(t, a.ID, s.Selection().ID)

	// Re-selecting the same artwork emits nothing.
	s.Select(a.ID)
	assert.Equal(t, 1, events)

	// Deleting the selected artwork clears the selection.
	s.DeleteArtwork(a.ID)
	assert.Nil(t, s.Selection())
	assert.Equal(t, 2, events)
}

func TestSelectUnknownIDIgnored(t *testing.T) {
	s := newTestState(t)
	s.Select(999)
	assert.Nil(t, s.Selection())
}

func TestRescaleOnWallResize(t *testing.T) {
	s := newTestState(t)
	a := s.AddArtworkFromFile(writePNG(t, "a.png", 100, 100), nil)
	waitDecoded(t, s, a.ID)

	logicalW, logicalH := a.LogicalWidth, a.LogicalHeight
	posX := a.Position.X
	oldScale := s.Wall.Scale

	// Doubling the wall halves the scale; physical size must survive.
	require.NoError(t, s.SetWallDimensions(192, 96, units.Inches))
	newScale := s.Wall.Scale
	assert.InDelta(t, oldScale/2, newScale, 1e-9)

	got := s.Find(a.ID)
	assert.Equal(t, logicalW, got.LogicalWidth)
	assert.Equal(t, logicalH, got.LogicalHeight)
	assert.InDelta(t, posX/2, got.Position.X, 1e-9)
}

func TestGuidesFollowSelection(t *testing.T) {
	s := newTestState(t)
	a := s.AddArtworkFromFile(writePNG(t, "a.png", 100, 100), nil)
	b := s.AddArtworkFromFile(writePNG(t, "b.png", 100, 100), nil)
	waitDecoded(t, s, a.ID)
	waitDecoded(t, s, b.ID)

	assert.Nil(t, s.Guides(), "no selection, no guides")

	s.Select(a.ID)
	guides := s.Guides()
	assert.NotEmpty(t, guides)

	s.SetShowGuides(false)
	assert.Nil(t, s.Guides())
}

func TestRoomViewDisablesEdits(t *testing.T) {
	s := newTestState(t)
	a := s.AddArtworkFromFile(writePNG(t, "a.png", 10, 10), nil)
	require.NotNil(t, a)
	pos := a.Position

	s.SetRoomView(true)
	s.MoveArtwork(a.ID, 50, 50)
	assert.Equal(t, pos, s.Find(a.ID).Position)
	assert.Nil(t, s.AddArtworkFromFile(writePNG(t, "b.png", 10, 10), nil))

	s.SetRoomView(false)
	s.MoveArtwork(a.ID, 50, 50)
	assert.NotEqual(t, pos, s.Find(a.ID).Position)
}

func TestSaveAndLoadLayout(t *testing.T) {
	s := newTestState(t)
	path := writePNG(t, "a.png", 1200, 800)
	a := s.AddArtworkFromFile(path, nil)
	waitDecoded(t, s, a.ID)
	s.MoveArtwork(a.ID, 100, 60)
	moved := s.Find(a.ID).Position

	rec, err := s.SaveLayout("")
	require.NoError(t, err)
	assert.Equal(t, "Gallery 1", rec.Name)

	// Mutate, then load the snapshot back.
	s.ClearWall()
	require.Empty(t, s.Artworks)
	require.NoError(t, s.LoadLayout(rec.ID))

	require.Len(t, s.Artworks, 1)
	restored := s.Artworks[0]
	assert.InDelta(t, moved.X, restored.Position.X, 1e-9)
	assert.InDelta(t, moved.Y, restored.Position.Y, 1e-9)
	assert.Nil(t, s.Selection(), "load replaces the selection")
	waitDecoded(t, s, restored.ID)
}

func TestLoadLayoutKeepsUnlockedSize(t *testing.T) {
	s := newTestState(t)
	path := writePNG(t, "a.png", 1200, 800)
	a := s.AddArtworkFromFile(path, nil)
	require.NotNil(t, a)
	waitDecoded(t, s, a.ID)

	// Sized off-ratio with the aspect lock disengaged.
	s.SetArtworkSize(a.ID, 10, 8, units.Inches, false)

	rec, err := s.SaveLayout("")
	require.NoError(t, err)
	s.ClearWall()
	require.NoError(t, s.LoadLayout(rec.ID))

	require.Len(t, s.Artworks, 1)
	restored := s.Artworks[0]
	waitImage(t, s, restored.ID)

	// The re-decode for rendering must not snap the size back to ratio.
	assert.InDelta(t, 10.0, restored.LogicalWidth, 1e-9)
	assert.InDelta(t, 8.0, restored.LogicalHeight, 1e-9)
	assert.InDelta(t, 1.5, restored.AspectRatio, 1e-9)
}

func TestLoadLayoutStaleID(t *testing.T) {
	s := newTestState(t)
	rec, err := s.SaveLayout("doomed")
	require.NoError(t, err)
	require.NoError(t, s.DeleteLayout(rec.ID))

	err = s.LoadLayout(rec.ID)
	assert.Error(t, err)
}

func TestFailedLayoutSaveKeepsSession(t *testing.T) {
	kv := storage.NewMemStore()
	s, err := NewState(kv, fixedViewport)
	require.NoError(t, err)
	s.Recompute()
	a := s.AddArtworkFromFile(writePNG(t, "a.png", 10, 10), nil)

	kv.FailWrites = true
	_, err = s.SaveLayout("nope")
	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)

	// The working session is untouched by the failed write.
	assert.NotNil(t, s.Find(a.ID))
	assert.Equal(t, 0, s.Layouts.Len())
}

func TestCollectionRoundTripThroughState(t *testing.T) {
	s := newTestState(t)
	path := writePNG(t, "cat.png", 300, 200)

	item, err := s.AddToCollection(path, "cat.png")
	require.NoError(t, err)

	hint := geometry.NewPoint2D(480, 240)
	a, err := s.PlaceFromCollection(item.ID, &hint)
	require.NoError(t, err)
	waitDecoded(t, s, a.ID)

	// Placed centered on the hint.
	b := s.Find(a.ID).Bounds(s.Wall.Scale)
	assert.InDelta(t, 480.0, b.Center().X, b.Width/2+1)

	require.NoError(t, s.RemoveFromCollection(item.ID))
	assert.Empty(t, s.Collection.Items())
	// The placed artwork survives collection removal.
	assert.NotNil(t, s.Find(a.ID))
}

func TestSetWallColorEmits(t *testing.T) {
	s := newTestState(t)
	var fired bool
	s.On(EventWallChanged, func(interface{}) { fired = true })
	s.SetWallColor(colorutil.ParseHexOr("#aabbcc", colorutil.WallDefault))
	assert.True(t, fired)
	assert.Equal(t, "#aabbcc", colorutil.ToHex(s.Wall.Color))
}
