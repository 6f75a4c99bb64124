// Package canvas provides the wall canvas: rendering of the wall, the placed
// artworks, and the distance guides, plus pointer interaction for selecting,
// moving, and resizing.
package canvas

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"wall-gallery/internal/app"
	"wall-gallery/internal/artwork"
	"wall-gallery/internal/guides"
	"wall-gallery/pkg/colorutil"
	"wall-gallery/pkg/geometry"
)

const (
	// handleSize is the square drag handle at the bottom-right corner of
	// the selected artwork.
	handleSize = 10.0

	// roomZoom shrinks the wall in room preview so it reads as hanging in
	// a larger space.
	roomZoom = 0.45

	guideLabelSize = 12.0
)

var (
	selectionColor   = color.RGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 255}
	guideColor       = color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: 255}
	placeholderColor = color.RGBA{R: 0xBD, G: 0xBD, B: 0xBD, A: 255}
	roomWallColor    = color.RGBA{R: 0x42, G: 0x42, B: 0x42, A: 255}
)

// WallCanvas renders the wall and handles pointer interaction.
type WallCanvas struct {
	widget.BaseWidget

	state *app.State

	// Active drag, if any.
	dragID     int64
	dragResize bool
}

// NewWallCanvas creates the wall canvas bound to the application state.
func NewWallCanvas(state *app.State) *WallCanvas {
	c := &WallCanvas{state: state}
	c.ExtendBaseWidget(c)

	refresh := func(interface{}) { c.Refresh() }
	state.On(app.EventWallChanged, refresh)
	state.On(app.EventArtworksChanged, refresh)
	state.On(app.EventSelectionChanged, refresh)
	state.On(app.EventGuidesChanged, refresh)
	state.On(app.EventViewModeChanged, refresh)

	return c
}

// Resize recomputes the wall scale whenever the available viewport changes.
func (c *WallCanvas) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	c.state.Recompute()
}

// MinSize keeps the canvas usable even in a small window.
func (c *WallCanvas) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// viewZoom returns the extra rendering zoom for the current view mode.
func (c *WallCanvas) viewZoom() float64 {
	if c.state.RoomView {
		return roomZoom
	}
	return 1.0
}

// wallOrigin returns the widget-space position of the wall's top-left corner.
func (c *WallCanvas) wallOrigin() geometry.Point2D {
	size := c.Size()
	wallPx := c.state.Wall.PixelSize().Scale(c.viewZoom())
	return geometry.NewPoint2D(
		(float64(size.Width)-wallPx.Width)/2,
		(float64(size.Height)-wallPx.Height)/2,
	)
}

// toWall converts a widget-space pointer position to wall pixel coordinates.
func (c *WallCanvas) toWall(p fyne.Position) geometry.Point2D {
	origin := c.wallOrigin()
	zoom := c.viewZoom()
	return geometry.NewPoint2D(
		(float64(p.X)-origin.X)/zoom,
		(float64(p.Y)-origin.Y)/zoom,
	)
}

// hitTest returns the topmost artwork under the wall-space point, or nil.
func (c *WallCanvas) hitTest(p geometry.Point2D) *artwork.Artwork {
	scale := c.state.Wall.Scale
	for i := len(c.state.Artworks) - 1; i >= 0; i-- {
		a := c.state.Artworks[i]
		if a.Bounds(scale).Contains(p) {
			return a
		}
	}
	return nil
}

// onHandle reports whether the wall-space point is on the selected artwork's
// resize handle.
func (c *WallCanvas) onHandle(p geometry.Point2D) bool {
	selected := c.state.Selection()
	if selected == nil {
		return false
	}
	b := selected.Bounds(c.state.Wall.Scale)
	half := handleSize / c.viewZoom()
	return p.X >= b.Right()-half && p.X <= b.Right()+half &&
		p.Y >= b.Bottom()-half && p.Y <= b.Bottom()+half
}

// Tapped selects the artwork under the pointer, or clears the selection.
func (c *WallCanvas) Tapped(ev *fyne.PointEvent) {
	p := c.toWall(ev.Position)
	if a := c.hitTest(p); a != nil {
		c.state.Select(a.ID)
	} else {
		c.state.Select(0)
	}
}

// Dragged moves the dragged artwork or drives its resize handle. Edits are
// already rejected by the state while room view is active.
func (c *WallCanvas) Dragged(ev *fyne.DragEvent) {
	p := c.toWall(ev.Position)

	if c.dragID == 0 {
		if c.onHandle(p) {
			c.dragID = c.state.Selection().ID
			c.dragResize = true
		} else if a := c.hitTest(p); a != nil {
			c.state.Select(a.ID)
			c.dragID = a.ID
			c.dragResize = false
		} else {
			return
		}
	}

	if c.dragResize {
		c.state.ResizeArtworkHandle(c.dragID, p.X, p.Y)
	} else {
		zoom := c.viewZoom()
		c.state.MoveArtwork(c.dragID, float64(ev.Dragged.DX)/zoom, float64(ev.Dragged.DY)/zoom)
	}
}

// DragEnd finishes the active drag.
func (c *WallCanvas) DragEnd() {
	c.dragID = 0
	c.dragResize = false
}

// CreateRenderer builds the canvas renderer.
func (c *WallCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &wallRenderer{canvas: c}
}

// wallRenderer rebuilds the full object list from state on every refresh;
// the scene is small enough that incremental updates are not worth the
// bookkeeping.
type wallRenderer struct {
	canvas  *WallCanvas
	objects []fyne.CanvasObject
}

func (r *wallRenderer) Layout(fyne.Size) {
	r.rebuild()
}

func (r *wallRenderer) MinSize() fyne.Size {
	return r.canvas.MinSize()
}

func (r *wallRenderer) Refresh() {
	r.rebuild()
	fynecanvas.Refresh(r.canvas)
}

func (r *wallRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *wallRenderer) Destroy() {}

func (r *wallRenderer) rebuild() {
	c := r.canvas
	state := c.state
	zoom := c.viewZoom()
	origin := c.wallOrigin()
	scale := state.Wall.Scale

	place := func(obj fyne.CanvasObject, rect geometry.Rect) {
		obj.Move(fyne.NewPos(
			float32(origin.X+rect.X*zoom),
			float32(origin.Y+rect.Y*zoom)))
		obj.Resize(fyne.NewSize(
			float32(rect.Width*zoom),
			float32(rect.Height*zoom)))
	}

	objects := make([]fyne.CanvasObject, 0, 4+6*len(state.Artworks))

	if state.RoomView {
		// Darkened backdrop to read as the surrounding room.
		backdrop := fynecanvas.NewRectangle(roomWallColor)
		backdrop.Resize(c.Size())
		objects = append(objects, backdrop)
	}

	wallBounds := state.Wall.Bounds()
	wallRect := fynecanvas.NewRectangle(state.Wall.Color)
	wallRect.StrokeColor = colorutil.Black
	wallRect.StrokeWidth = 1
	place(wallRect, wallBounds)
	objects = append(objects, wallRect)

	if state.Wall.Background != nil {
		bg := fynecanvas.NewImageFromImage(state.Wall.Background)
		bg.FillMode = fynecanvas.ImageFillStretch
		place(bg, wallBounds)
		objects = append(objects, bg)
	}

	selected := state.Selection()
	for _, a := range state.Artworks {
		objects = append(objects, r.artworkObjects(a, scale, place)...)
	}

	if selected != nil {
		b := selected.Bounds(scale)
		outline := fynecanvas.NewRectangle(color.Transparent)
		outline.StrokeColor = selectionColor
		outline.StrokeWidth = 2
		place(outline, b)
		objects = append(objects, outline)

		if !state.RoomView {
			handle := fynecanvas.NewRectangle(selectionColor)
			place(handle, geometry.NewRect(
				b.Right()-handleSize/2/zoom, b.Bottom()-handleSize/2/zoom,
				handleSize/zoom, handleSize/zoom))
			objects = append(objects, handle)
		}
	}

	for _, g := range state.Guides() {
		objects = append(objects, r.guideObjects(g, origin, zoom)...)
	}

	r.objects = objects
}

// artworkObjects renders one artwork: frame band, matte band, then the image
// (or a placeholder while the decode is pending).
func (r *wallRenderer) artworkObjects(a *artwork.Artwork, scale float64, place func(fyne.CanvasObject, geometry.Rect)) []fyne.CanvasObject {
	var objs []fyne.CanvasObject
	b := a.Bounds(scale)
	inset := 0.0

	if a.HasFrame {
		frame := fynecanvas.NewRectangle(a.FrameColor)
		place(frame, b)
		objs = append(objs, frame)
		inset += a.FrameWidthInches * scale
	}
	if a.HasMatte {
		matte := fynecanvas.NewRectangle(a.MatteColor)
		place(matte, geometry.NewRect(
			b.X+inset, b.Y+inset, b.Width-2*inset, b.Height-2*inset))
		objs = append(objs, matte)
		inset += a.MatteWidthInches * scale
	}

	imgRect := geometry.NewRect(b.X+inset, b.Y+inset, b.Width-2*inset, b.Height-2*inset)
	if a.Image != nil {
		img := fynecanvas.NewImageFromImage(a.Image)
		img.FillMode = fynecanvas.ImageFillStretch
		place(img, imgRect)
		objs = append(objs, img)
	} else {
		placeholder := fynecanvas.NewRectangle(placeholderColor)
		place(placeholder, imgRect)
		objs = append(objs, placeholder)
	}
	return objs
}

// guideObjects renders one distance guide as a line plus its dual-unit label.
func (r *wallRenderer) guideObjects(g guides.Guide, origin geometry.Point2D, zoom float64) []fyne.CanvasObject {
	toView := func(p geometry.Point2D) fyne.Position {
		return fyne.NewPos(float32(origin.X+p.X*zoom), float32(origin.Y+p.Y*zoom))
	}

	line := fynecanvas.NewLine(guideColor)
	line.StrokeWidth = 1
	line.Position1 = toView(g.Start)
	line.Position2 = toView(g.End)

	label := fynecanvas.NewText(g.Label, guideColor)
	label.TextSize = guideLabelSize
	mid := geometry.NewPoint2D((g.Start.X+g.End.X)/2, (g.Start.Y+g.End.Y)/2)
	pos := toView(mid)
	if g.Direction == guides.Left || g.Direction == guides.Right {
		pos.Y -= float32(guideLabelSize) + 4
	} else {
		pos.X += 6
	}
	size := label.MinSize()
	label.Move(fyne.NewPos(pos.X-size.Width/2, pos.Y))

	return []fyne.CanvasObject{line, label}
}
