// Package layout provides named layout snapshots and their durable store.
package layout

import (
	"time"

	"wall-gallery/internal/artwork"
	"wall-gallery/internal/units"
	"wall-gallery/internal/wall"
	"wall-gallery/pkg/colorutil"
	"wall-gallery/pkg/geometry"
)

// WallSettings is the persisted snapshot of the wall.
type WallSettings struct {
	WidthInches     float64 `json:"width_inches"`
	HeightInches    float64 `json:"height_inches"`
	Color           string  `json:"color"`
	BackgroundImage string  `json:"background_image,omitempty"`
	DisplayUnit     string  `json:"display_unit,omitempty"`
}

// ArtworkRecord is the persisted snapshot of one placed artwork. Geometry is
// canonical inches; the pixel fields exist only to read records written by
// builds that persisted screen geometry directly.
type ArtworkRecord struct {
	ImageRef    string  `json:"image_ref"`
	AspectRatio float64 `json:"aspect_ratio"`

	XInches       float64 `json:"x_inches"`
	YInches       float64 `json:"y_inches"`
	WidthInches   float64 `json:"width_inches"`
	HeightInches  float64 `json:"height_inches"`

	HasFrame         bool    `json:"has_frame"`
	FrameColor       string  `json:"frame_color,omitempty"`
	FrameWidthInches float64 `json:"frame_width_inches,omitempty"`
	HasMatte         bool    `json:"has_matte"`
	MatteColor       string  `json:"matte_color,omitempty"`
	MatteWidthInches float64 `json:"matte_width_inches,omitempty"`

	// Legacy pixel geometry (total bounding box at saved_scale).
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Record is one persisted layout.
type Record struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"creation_date"`

	// SavedScale is the pixels-per-inch scale at save time. It is
	// informational for canonical records and load-bearing for legacy
	// pixel records.
	SavedScale float64 `json:"saved_scale,omitempty"`

	Wall     WallSettings    `json:"wall_settings"`
	Artworks []ArtworkRecord `json:"artworks"`
}

// Snapshot captures the wall and artwork set into a Record. Geometry is
// written in canonical inches so the physical arrangement survives loading
// into a session with a different viewport.
func Snapshot(w *wall.Wall, artworks []*artwork.Artwork) Record {
	// UTC keeps the timestamp stable across a JSON round trip.
	rec := Record{
		Created:    time.Now().UTC(),
		SavedScale: w.Scale,
		Wall: WallSettings{
			WidthInches:  w.WidthInches,
			HeightInches: w.HeightInches,
			Color:        colorutil.ToHex(w.Color),
			DisplayUnit:  w.DisplayUnit.String(),
		},
		Artworks: make([]ArtworkRecord, 0, len(artworks)),
	}

	for _, a := range artworks {
		ar := ArtworkRecord{
			ImageRef:     a.ImageRef,
			AspectRatio:  a.AspectRatio,
			WidthInches:  a.LogicalWidth,
			HeightInches: a.LogicalHeight,
			HasFrame:     a.HasFrame,
			HasMatte:     a.HasMatte,
		}
		if w.Scale > 0 {
			ar.XInches = a.Position.X / w.Scale
			ar.YInches = a.Position.Y / w.Scale
		}
		if a.HasFrame {
			ar.FrameColor = colorutil.ToHex(a.FrameColor)
			ar.FrameWidthInches = a.FrameWidthInches
		}
		if a.HasMatte {
			ar.MatteColor = colorutil.ToHex(a.MatteColor)
			ar.MatteWidthInches = a.MatteWidthInches
		}
		rec.Artworks = append(rec.Artworks, ar)
	}
	return rec
}

// Restore rebuilds a wall and artwork set from the record. The wall scale is
// recomputed against the given viewport before artwork positions are
// converted to pixels, so the restored arrangement is physically identical
// to the saved one. Artwork ids are assigned from nextID upward; the caller
// owns the counter.
func (r Record) Restore(viewportWidth, viewportHeight float64, nextID func() int64) (*wall.Wall, []*artwork.Artwork, error) {
	w := wall.New()
	// Zero means the field was absent and keeps the default; anything else,
	// including garbage, is assigned so Validate can reject it.
	if r.Wall.WidthInches != 0 {
		w.WidthInches = r.Wall.WidthInches
	}
	if r.Wall.HeightInches != 0 {
		w.HeightInches = r.Wall.HeightInches
	}
	if r.Wall.DisplayUnit != "" {
		if u, err := units.ParseUnit(r.Wall.DisplayUnit); err == nil {
			w.DisplayUnit = u
		}
	}
	w.Color = colorutil.ParseHexOr(r.Wall.Color, colorutil.WallDefault)
	if err := w.Validate(); err != nil {
		return nil, nil, err
	}
	w.Recompute(viewportWidth, viewportHeight)

	arts := make([]*artwork.Artwork, 0, len(r.Artworks))
	for _, ar := range r.Artworks {
		arts = append(arts, ar.restore(w, nextID(), r.SavedScale))
	}
	return w, arts, nil
}

// restore reconstructs one artwork by literal field assignment, bypassing
// the creation defaults.
func (ar ArtworkRecord) restore(w *wall.Wall, id int64, savedScale float64) *artwork.Artwork {
	a := artwork.New(id, ar.ImageRef, ar.AspectRatio)

	xIn, yIn := ar.XInches, ar.YInches
	wIn, hIn := ar.WidthInches, ar.HeightInches

	if wIn <= 0 && ar.Width > 0 && savedScale > 0 {
		// Legacy record: divide the saved pixel geometry through by the
		// scale it was captured at, then peel off the default borders the
		// old format never stored.
		xIn = ar.X / savedScale
		yIn = ar.Y / savedScale
		wIn = ar.Width / savedScale
		hIn = ar.Height / savedScale
		var border float64
		if ar.HasMatte {
			border += artwork.DefaultMatteWidthInches
		}
		if ar.HasFrame {
			border += artwork.DefaultFrameWidthInches
		}
		wIn -= 2 * border
		hIn -= 2 * border
	}
	if wIn > 0 && hIn > 0 {
		a.SetLogicalSize(wIn, hIn, false)
	}

	a.HasFrame = ar.HasFrame
	if ar.HasFrame {
		a.FrameColor = colorutil.ParseHexOr(ar.FrameColor, colorutil.FrameDefault)
		if ar.FrameWidthInches > 0 {
			a.FrameWidthInches = ar.FrameWidthInches
		}
	}
	a.HasMatte = ar.HasMatte
	if ar.HasMatte {
		a.MatteColor = colorutil.ParseHexOr(ar.MatteColor, colorutil.MatteDefault)
		if ar.MatteWidthInches > 0 {
			a.MatteWidthInches = ar.MatteWidthInches
		}
	}

	a.Position = geometry.NewPoint2D(xIn*w.Scale, yIn*w.Scale)
	return a
}
