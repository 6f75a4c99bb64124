// Package app provides application lifecycle management, state, and events.
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"sync"

	"wall-gallery/internal/artwork"
	"wall-gallery/internal/collection"
	"wall-gallery/internal/guides"
	"wall-gallery/internal/imageio"
	"wall-gallery/internal/layout"
	"wall-gallery/internal/storage"
	"wall-gallery/internal/units"
	"wall-gallery/internal/wall"
	"wall-gallery/pkg/geometry"
)

// ViewportFunc reports the currently available viewport size in pixels.
type ViewportFunc func() (width, height float64)

// EventType identifies different application events.
type EventType int

const (
	EventWallChanged EventType = iota
	EventArtworksChanged
	EventSelectionChanged
	EventGuidesChanged
	EventLayoutsChanged
	EventCollectionChanged
	EventViewModeChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the wall, the placed artworks, the
// current selection, and the durable stores. All mutation goes through
// State's methods so every handler leaves the state internally consistent.
type State struct {
	mu sync.RWMutex

	Wall     *wall.Wall
	Artworks []*artwork.Artwork

	selectedID    int64 // 0 = nothing selected
	nextArtworkID int64

	// ShowGuides toggles distance-guide computation; RoomView is the zoomed
	// preview mode in which edits are disabled.
	ShowGuides bool
	RoomView   bool

	Layouts    *layout.Store
	Collection *collection.Store

	viewport  ViewportFunc
	listeners map[EventType][]EventListener
}

// NewState creates the application state on top of the durable store.
func NewState(kv storage.Store, viewport ViewportFunc) (*State, error) {
	layouts, err := layout.NewStore(kv)
	if err != nil {
		return nil, err
	}
	coll, err := collection.NewStore(kv)
	if err != nil {
		return nil, err
	}
	return &State{
		Wall:       wall.New(),
		ShowGuides: true,
		Layouts:    layouts,
		Collection: coll,
		viewport:   viewport,
		listeners:  make(map[EventType][]EventListener),
	}, nil
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Recompute refreshes the wall scale against the current viewport and
// rescales every artwork's pixel position so physical placement is
// preserved. Call whenever the viewport or the wall dimensions change.
func (s *State) Recompute() {
	s.mu.Lock()
	vw, vh := s.viewport()
	oldScale, newScale := s.Wall.Recompute(vw, vh)
	if oldScale > 0 && oldScale != newScale {
		ratio := newScale / oldScale
		for _, a := range s.Artworks {
			a.Rescale(ratio)
		}
	}
	s.mu.Unlock()

	s.Emit(EventWallChanged, nil)
	s.Emit(EventGuidesChanged, nil)
}

// SetWallDimensions updates the wall size from values in the given display
// unit, then recomputes scale and rescales artwork positions.
func (s *State) SetWallDimensions(width, height float64, unit units.Unit) error {
	s.mu.Lock()
	if err := s.Wall.SetDimensions(width, height, unit); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.Recompute()
	s.Emit(EventModified, nil)
	return nil
}

// SetDisplayUnit changes the unit used for numeric display only; scale and
// artwork geometry are untouched.
func (s *State) SetDisplayUnit(u units.Unit) {
	s.mu.Lock()
	if s.Wall.DisplayUnit == u {
		s.mu.Unlock()
		return
	}
	s.Wall.DisplayUnit = u
	s.mu.Unlock()
	s.Emit(EventWallChanged, nil)
}

// SetWallColor updates the wall color.
func (s *State) SetWallColor(c color.RGBA) {
	s.mu.Lock()
	s.Wall.Color = c
	s.mu.Unlock()
	s.Emit(EventWallChanged, nil)
	s.Emit(EventModified, nil)
}

// SetWallBackground replaces or clears the wall background image. This is a
// redraw-only change with no geometry effect.
func (s *State) SetWallBackground(path string) error {
	if path == "" {
		s.mu.Lock()
		s.Wall.Background = nil
		s.mu.Unlock()
		s.Emit(EventWallChanged, nil)
		return nil
	}

	d, err := imageio.Decode(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.Wall.Background = d.Image
	s.mu.Unlock()
	s.Emit(EventWallChanged, nil)
	return nil
}

// AddArtworkFromFile places a new artwork for the image at path. The artwork
// appears immediately with a provisional square size; the real aspect ratio
// is applied when the asynchronous decode completes. A nil hint tiles the
// artwork onto the upload grid after the existing pieces.
func (s *State) AddArtworkFromFile(path string, hint *geometry.Point2D) *artwork.Artwork {
	s.mu.Lock()
	if s.RoomView {
		s.mu.Unlock()
		return nil
	}
	s.nextArtworkID++
	a := artwork.New(s.nextArtworkID, path, 0)
	s.placeLocked(a, hint)
	s.Artworks = append(s.Artworks, a)
	id := a.ID
	s.mu.Unlock()

	imageio.DecodeAsync(path, func(d imageio.Decoded, err error) {
		s.applyDecoded(id, d, err)
	})

	s.Emit(EventArtworksChanged, nil)
	s.Emit(EventModified, nil)
	return a
}

// PlaceFromCollection places a collection item onto the wall, e.g. at the
// drop point of a drag.
func (s *State) PlaceFromCollection(itemID int, hint *geometry.Point2D) (*artwork.Artwork, error) {
	item, err := s.Collection.Get(itemID)
	if err != nil {
		return nil, err
	}
	a := s.AddArtworkFromFile(item.ImageRef, hint)
	if a == nil {
		return nil, fmt.Errorf("cannot place artwork in room view")
	}
	return a, nil
}

// placeLocked positions a new artwork at the hint or the next grid slot.
func (s *State) placeLocked(a *artwork.Artwork, hint *geometry.Point2D) {
	scale := s.Wall.Scale
	if hint != nil {
		a.PlaceCentered(*hint, scale)
	} else {
		a.Position = artwork.GridPosition(len(s.Artworks), scale)
	}
	a.ClampToWall(s.Wall.Bounds(), scale)
}

// applyDecoded installs decoded image dimensions, guarded against the
// artwork having been deleted while the decode was in flight.
func (s *State) applyDecoded(id int64, d imageio.Decoded, err error) {
	if err != nil {
		log.Printf("artwork %d decode failed: %v", id, err)
		return
	}

	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil {
		// Deleted while decoding; expected race, not an error.
		s.mu.Unlock()
		return
	}
	a.ApplyDecodedDimensions(d.Width, d.Height)
	a.Image = d.Image
	a.ClampToWall(s.Wall.Bounds(), s.Wall.Scale)
	s.mu.Unlock()

	s.Emit(EventArtworksChanged, nil)
	s.Emit(EventGuidesChanged, nil)
}

func (s *State) findLocked(id int64) *artwork.Artwork {
	for _, a := range s.Artworks {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Find returns the artwork with the given id, or nil.
func (s *State) Find(id int64) *artwork.Artwork {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(id)
}

// Select makes the artwork with the given id the current selection.
// Selecting 0 clears the selection.
func (s *State) Select(id int64) {
	s.mu.Lock()
	if id != 0 && s.findLocked(id) == nil {
		s.mu.Unlock()
		return
	}
	changed := s.selectedID != id
	s.selectedID = id
	s.mu.Unlock()

	if changed {
		s.Emit(EventSelectionChanged, id)
		s.Emit(EventGuidesChanged, nil)
	}
}

// Selection returns the selected artwork, or nil.
func (s *State) Selection() *artwork.Artwork {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == 0 {
		return nil
	}
	return s.findLocked(s.selectedID)
}

// MoveArtwork translates an artwork by a pixel delta, clamped to the wall.
func (s *State) MoveArtwork(id int64, dx, dy float64) {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil || s.RoomView {
		s.mu.Unlock()
		return
	}
	a.Move(dx, dy, s.Wall.Bounds(), s.Wall.Scale)
	s.mu.Unlock()

	s.Emit(EventArtworksChanged, nil)
	s.Emit(EventGuidesChanged, nil)
	s.Emit(EventModified, nil)
}

// SetArtworkSize updates an artwork's logical size from values in the given
// display unit.
func (s *State) SetArtworkSize(id int64, width, height float64, unit units.Unit, maintainAspect bool) {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil || s.RoomView {
		s.mu.Unlock()
		return
	}
	a.SetLogicalSize(units.ToCanonical(width, unit), units.ToCanonical(height, unit), maintainAspect)
	a.ClampToWall(s.Wall.Bounds(), s.Wall.Scale)
	s.mu.Unlock()

	s.Emit(EventArtworksChanged, nil)
	s.Emit(EventGuidesChanged, nil)
	s.Emit(EventModified, nil)
}

// SetArtworkFrame updates an artwork's frame settings.
func (s *State) SetArtworkFrame(id int64, enabled bool, c color.RGBA, widthInches float64) {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil || s.RoomView {
		s.mu.Unlock()
		return
	}
	a.SetFrame(enabled, c, widthInches)
	a.ClampToWall(s.Wall.Bounds(), s.Wall.Scale)
	s.mu.Unlock()

	s.Emit(EventArtworksChanged, nil)
	s.Emit(EventGuidesChanged, nil)
	s.Emit(EventModified, nil)
}

// SetArtworkMatte updates an artwork's matte settings.
func (s *State) SetArtworkMatte(id int64, enabled bool, c color.RGBA, widthInches float64) {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil || s.RoomView {
		s.mu.Unlock()
		return
	}
	a.SetMatte(enabled, c, widthInches)
	a.ClampToWall(s.Wall.Bounds(), s.Wall.Scale)
	s.mu.Unlock()

	s.Emit(EventArtworksChanged, nil)
	s.Emit(EventGuidesChanged, nil)
	s.Emit(EventModified, nil)
}

// ResizeArtworkHandle resizes an artwork from its bottom-right handle
// position in wall pixel coordinates.
func (s *State) ResizeArtworkHandle(id int64, cornerX, cornerY float64) {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil || s.RoomView {
		s.mu.Unlock()
		return
	}
	a.ResizeViaHandle(cornerX, cornerY, s.Wall.Scale)
	a.ClampToWall(s.Wall.Bounds(), s.Wall.Scale)
	s.mu.Unlock()

	s.Emit(EventArtworksChanged, nil)
	s.Emit(EventGuidesChanged, nil)
	s.Emit(EventModified, nil)
}

// DeleteArtwork removes an artwork from the wall, clearing the selection if
// it was selected. A decode still in flight for it becomes a no-op.
func (s *State) DeleteArtwork(id int64) {
	s.mu.Lock()
	idx := -1
	for i, a := range s.Artworks {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.Artworks = append(s.Artworks[:idx], s.Artworks[idx+1:]...)
	deselected := s.selectedID == id
	if deselected {
		s.selectedID = 0
	}
	s.mu.Unlock()

	s.Emit(EventArtworksChanged, nil)
	if deselected {
		s.Emit(EventSelectionChanged, int64(0))
	}
	s.Emit(EventGuidesChanged, nil)
	s.Emit(EventModified, nil)
}

// ClearWall removes every artwork. The caller gates this behind a
// confirmation.
func (s *State) ClearWall() {
	s.mu.Lock()
	s.Artworks = nil
	s.selectedID = 0
	s.mu.Unlock()

	s.Emit(EventArtworksChanged, nil)
	s.Emit(EventSelectionChanged, int64(0))
	s.Emit(EventGuidesChanged, nil)
	s.Emit(EventModified, nil)
}

// Guides computes the distance guides for the current selection. It returns
// nil when guides are hidden or nothing is selected.
func (s *State) Guides() []guides.Guide {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ShowGuides || s.selectedID == 0 {
		return nil
	}
	selected := s.findLocked(s.selectedID)
	if selected == nil {
		return nil
	}

	scale := s.Wall.Scale
	others := make([]geometry.Rect, 0, len(s.Artworks)-1)
	for _, a := range s.Artworks {
		if a.ID != selected.ID {
			others = append(others, a.Bounds(scale))
		}
	}
	return guides.Compute(selected.Bounds(scale), others, s.Wall.Bounds(), scale)
}

// SetShowGuides toggles guide visibility.
func (s *State) SetShowGuides(show bool) {
	s.mu.Lock()
	s.ShowGuides = show
	s.mu.Unlock()
	s.Emit(EventGuidesChanged, nil)
}

// SetRoomView toggles the zoomed room preview. Edits are disabled while on;
// there is no geometry of its own.
func (s *State) SetRoomView(on bool) {
	s.mu.Lock()
	changed := s.RoomView != on
	s.RoomView = on
	s.mu.Unlock()
	if changed {
		s.Emit(EventViewModeChanged, on)
	}
}

// SaveLayout snapshots the current wall and artworks under the given name
// (auto-named when empty) and persists it. A failed write leaves the working
// session untouched.
func (s *State) SaveLayout(name string) (layout.Record, error) {
	s.mu.RLock()
	rec := layout.Snapshot(s.Wall, s.Artworks)
	s.mu.RUnlock()

	saved, err := s.Layouts.Save(name, rec)
	if err != nil {
		return layout.Record{}, err
	}
	s.Emit(EventLayoutsChanged, nil)
	return saved, nil
}

// LoadLayout replaces the current wall and artwork set wholesale with the
// stored layout. The caller gates this behind a confirmation when unsaved
// work would be lost.
func (s *State) LoadLayout(id int64) error {
	rec, err := s.Layouts.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	vw, vh := s.viewport()
	w, arts, err := rec.Restore(vw, vh, func() int64 {
		s.nextArtworkID++
		return s.nextArtworkID
	})
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.Wall = w
	s.Artworks = arts
	s.selectedID = 0
	s.mu.Unlock()

	// Restored artworks reference image files; decode them for rendering.
	for _, a := range arts {
		id := a.ID
		imageio.DecodeAsync(a.ImageRef, func(d imageio.Decoded, err error) {
			s.applyDecoded(id, d, err)
		})
	}

	s.Emit(EventWallChanged, nil)
	s.Emit(EventArtworksChanged, nil)
	s.Emit(EventSelectionChanged, int64(0))
	s.Emit(EventLayoutsChanged, nil)
	return nil
}

// DeleteLayout removes a stored layout. The caller gates this behind a
// confirmation.
func (s *State) DeleteLayout(id int64) error {
	if err := s.Layouts.Delete(id); err != nil {
		return err
	}
	s.Emit(EventLayoutsChanged, nil)
	return nil
}

// ExportLayouts writes the whole layout collection to w.
func (s *State) ExportLayouts(w io.Writer) error {
	return s.Layouts.ExportAll(w)
}

// ImportLayouts merges an export file into the layout collection, returning
// the number of layouts added. The caller confirms the count beforehand via
// layout.ParseImport.
func (s *State) ImportLayouts(r io.Reader) (int, error) {
	n, err := s.Layouts.ImportAndMerge(r)
	if err != nil {
		return 0, err
	}
	s.Emit(EventLayoutsChanged, nil)
	return n, nil
}

// AddToCollection registers an image file in the durable collection.
func (s *State) AddToCollection(path, name string) (collection.Item, error) {
	item, err := s.Collection.Add(path, name)
	if err != nil {
		return collection.Item{}, err
	}
	s.Emit(EventCollectionChanged, nil)
	return item, nil
}

// RemoveFromCollection deletes an item from the collection. Deliberately not
// gated behind a confirmation.
func (s *State) RemoveFromCollection(id int) error {
	if err := s.Collection.Remove(id); err != nil {
		return err
	}
	s.Emit(EventCollectionChanged, nil)
	return nil
}
