package layout

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wall-gallery/internal/artwork"
	"wall-gallery/internal/storage"
	"wall-gallery/internal/units"
	"wall-gallery/internal/wall"
	"wall-gallery/pkg/geometry"
)

func idCounter() func() int64 {
	var n int64
	return func() int64 {
		n++
		return n
	}
}

func testWall(t *testing.T) *wall.Wall {
	t.Helper()
	w := wall.New()
	require.NoError(t, w.SetDimensions(96, 48, units.Inches))
	w.Recompute(1000, 2000) // scale 10
	return w
}

func TestSnapshotRestoreSameViewport(t *testing.T) {
	w := testWall(t)
	a := artwork.New(1, "art.png", 1.5)
	a.SetLogicalSize(10, 8, false)
	a.SetMatte(true, a.MatteColor, 2)
	a.SetFrame(true, a.FrameColor, 1)
	a.Position = geometry.NewPoint2D(100, 50)

	rec := Snapshot(w, []*artwork.Artwork{a})
	require.Len(t, rec.Artworks, 1)
	assert.InDelta(t, 10.0, rec.Artworks[0].XInches, 1e-9)
	assert.InDelta(t, 5.0, rec.Artworks[0].YInches, 1e-9)

	w2, arts, err := rec.Restore(1000, 2000, idCounter())
	require.NoError(t, err)
	require.Len(t, arts, 1)

	assert.Equal(t, w.WidthInches, w2.WidthInches)
	assert.Equal(t, w.Scale, w2.Scale)
	assert.InDelta(t, 100.0, arts[0].Position.X, 1e-9)
	assert.InDelta(t, 50.0, arts[0].Position.Y, 1e-9)
	assert.InDelta(t, 10.0, arts[0].LogicalWidth, 1e-9)
	assert.InDelta(t, 8.0, arts[0].LogicalHeight, 1e-9)
	assert.True(t, arts[0].HasMatte)
	assert.True(t, arts[0].HasFrame)
	assert.Equal(t, 2.0, arts[0].MatteWidthInches)
	assert.Equal(t, 1.0, arts[0].FrameWidthInches)
}

func TestRestoreDifferentViewportKeepsPhysicalArrangement(t *testing.T) {
	w := testWall(t)
	a := artwork.New(1, "art.png", 1.5)
	a.Position = geometry.NewPoint2D(200, 100) // 20in, 10in at scale 10

	rec := Snapshot(w, []*artwork.Artwork{a})

	// Half-size viewport: scale drops to 5.
	w2, arts, err := rec.Restore(520, 2000, idCounter())
	require.NoError(t, err)
	assert.InDelta(t, 5.0, w2.Scale, 1e-9)

	// Same physical position, half the pixels.
	assert.InDelta(t, 100.0, arts[0].Position.X, 1e-9)
	assert.InDelta(t, 50.0, arts[0].Position.Y, 1e-9)
	assert.InDelta(t, a.LogicalWidth, arts[0].LogicalWidth, 1e-9)
}

func TestRestoreLegacyPixelRecord(t *testing.T) {
	rec := Record{
		SavedScale: 10,
		Wall:       WallSettings{WidthInches: 96, HeightInches: 48},
		Artworks: []ArtworkRecord{{
			ImageRef:    "old.png",
			AspectRatio: 1.25,
			X:           100, Y: 50, Width: 160, Height: 128,
			HasMatte: true,
		}},
	}

	_, arts, err := rec.Restore(1000, 2000, idCounter())
	require.NoError(t, err)
	require.Len(t, arts, 1)

	// 160x128px at scale 10 is a 16x12.8in total box; the legacy format
	// never stored matte width, so the default 2in is peeled off each side.
	assert.InDelta(t, 12.0, arts[0].LogicalWidth, 1e-9)
	assert.InDelta(t, 8.8, arts[0].LogicalHeight, 1e-9)
	assert.InDelta(t, 100.0, arts[0].Position.X, 1e-9)
}

func TestRestoreRejectsBadWall(t *testing.T) {
	rec := Record{Wall: WallSettings{WidthInches: -5, HeightInches: 48}}
	_, _, err := rec.Restore(1000, 1000, idCounter())
	require.Error(t, err)
}

func TestRestoreDefaultsAbsentWallDims(t *testing.T) {
	// Zero dimensions mean the fields were absent, not invalid.
	w, _, err := Record{}.Restore(1000, 1000, idCounter())
	require.NoError(t, err)
	assert.Equal(t, wall.DefaultWidthInches, w.WidthInches)
	assert.Equal(t, wall.DefaultHeightInches, w.HeightInches)
}

func TestSaveAutoNames(t *testing.T) {
	s, err := NewStore(storage.NewMemStore())
	require.NoError(t, err)

	r1, err := s.Save("", Record{})
	require.NoError(t, err)
	r2, err := s.Save("", Record{})
	require.NoError(t, err)
	r3, err := s.Save("Bedroom", Record{})
	require.NoError(t, err)

	assert.Equal(t, "Gallery 1", r1.Name)
	assert.Equal(t, "Gallery 2", r2.Name)
	assert.Equal(t, "Bedroom", r3.Name)

	// Ids are timestamp-based and strictly increasing.
	assert.Greater(t, r2.ID, r1.ID)
	assert.Greater(t, r3.ID, r2.ID)
}

func TestStorePersistsAcrossReload(t *testing.T) {
	kv := storage.NewMemStore()
	s, err := NewStore(kv)
	require.NoError(t, err)
	saved, err := s.Save("Hall", Record{Wall: WallSettings{WidthInches: 96, HeightInches: 48}})
	require.NoError(t, err)

	s2, err := NewStore(kv)
	require.NoError(t, err)
	got, err := s2.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hall", got.Name)
	assert.Equal(t, 96.0, got.Wall.WidthInches)
}

func TestDeleteByID(t *testing.T) {
	s, err := NewStore(storage.NewMemStore())
	require.NoError(t, err)
	r1, _ := s.Save("a", Record{})
	r2, _ := s.Save("b", Record{})

	require.NoError(t, s.Delete(r1.ID))
	assert.Equal(t, 1, s.Len())

	// A stale second click on the same row misses cleanly.
	assert.ErrorIs(t, s.Delete(r1.ID), ErrNotFound)

	_, err = s.Get(r2.ID)
	assert.NoError(t, err)
}

func TestFailedWriteRollsBack(t *testing.T) {
	kv := storage.NewMemStore()
	s, err := NewStore(kv)
	require.NoError(t, err)
	r1, err := s.Save("keep", Record{})
	require.NoError(t, err)

	kv.FailWrites = true
	_, err = s.Save("lost", Record{})
	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)
	assert.Equal(t, 1, s.Len())

	err = s.Delete(r1.ID)
	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)
	assert.Equal(t, 1, s.Len())
}

func TestExportImportRoundTrip(t *testing.T) {
	w := testWall(t)
	a := artwork.New(1, "art.png", 1.5)
	a.Position = geometry.NewPoint2D(30, 40)

	src, err := NewStore(storage.NewMemStore())
	require.NoError(t, err)
	_, err = src.Save("Gallery 1", Snapshot(w, []*artwork.Artwork{a}))
	require.NoError(t, err)
	_, err = src.Save("Gallery 2", Snapshot(w, nil))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.ExportAll(&buf))

	dst, err := NewStore(storage.NewMemStore())
	require.NoError(t, err)
	added, err := dst.ImportAndMerge(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	assert.Equal(t, src.Records(), dst.Records())
}

func TestImportMergeAppends(t *testing.T) {
	s, err := NewStore(storage.NewMemStore())
	require.NoError(t, err)
	existing, err := s.Save("existing", Record{})
	require.NoError(t, err)

	added, err := s.ImportAndMerge(strings.NewReader(`[{"id":1,"name":"imported","wall_settings":{"width_inches":96,"height_inches":48},"artworks":[]}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	records := s.Records()
	require.Len(t, records, 2)
	assert.Equal(t, existing.ID, records[0].ID)
	assert.Equal(t, "imported", records[1].Name)
}

func TestImportRejectsNonArray(t *testing.T) {
	s, err := NewStore(storage.NewMemStore())
	require.NoError(t, err)
	_, err = s.Save("keep", Record{})
	require.NoError(t, err)

	for _, payload := range []string{
		`{"name":"not an array"}`,
		`"string"`,
		`42`,
		`not json at all`,
	} {
		_, err := s.ImportAndMerge(strings.NewReader(payload))
		assert.Error(t, err, "payload %s", payload)
		assert.Equal(t, 1, s.Len(), "payload %s mutated the store", payload)
	}

	_, err = s.ImportAndMerge(strings.NewReader(`{"name":"x"}`))
	assert.ErrorIs(t, err, ErrNotArray)
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "wall-art-layouts-2026-08-30.json", ExportFilename(ts))
}

func TestExportIsPrettyPrintedArray(t *testing.T) {
	s, err := NewStore(storage.NewMemStore())
	require.NoError(t, err)
	_, err = s.Save("", Record{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportAll(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "["))
	assert.Contains(t, out, "\n  ")
}
