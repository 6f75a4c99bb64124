package panels

import (
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"wall-gallery/internal/app"
	"wall-gallery/internal/collection"
	"wall-gallery/internal/imageio"
	"wall-gallery/ui/dialogs"
)

const thumbEdge = 64

// CollectionPanel manages the reusable image collection. Items can be
// placed onto the wall any number of times.
type CollectionPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	list  *widget.List
	items []collection.Item
}

// NewCollectionPanel creates the collection panel.
func NewCollectionPanel(state *app.State) *CollectionPanel {
	p := &CollectionPanel{state: state}

	p.list = widget.NewList(
		func() int { return len(p.items) },
		func() fyne.CanvasObject {
			thumb := canvas.NewImageFromImage(nil)
			thumb.FillMode = canvas.ImageFillContain
			thumb.SetMinSize(fyne.NewSize(thumbEdge, thumbEdge))
			name := widget.NewLabel("name")
			place := widget.NewButton("Place", nil)
			remove := widget.NewButton("Remove", nil)
			return container.NewBorder(nil, nil, thumb,
				container.NewHBox(place, remove), name)
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			if i >= len(p.items) {
				return
			}
			item := p.items[i]
			border := obj.(*fyne.Container)
			var name *widget.Label
			var thumb *canvas.Image
			var buttons *fyne.Container
			for _, child := range border.Objects {
				switch c := child.(type) {
				case *widget.Label:
					name = c
				case *canvas.Image:
					thumb = c
				case *fyne.Container:
					buttons = c
				}
			}
			name.SetText(item.Name)
			if d, err := imageio.Decode(item.ImageRef); err == nil {
				thumb.Image = imageio.Thumbnail(d.Image, thumbEdge)
			} else {
				thumb.Image = nil
			}
			thumb.Refresh()
			id := item.ID
			place := buttons.Objects[0].(*widget.Button)
			remove := buttons.Objects[1].(*widget.Button)
			place.OnTapped = func() { p.place(id) }
			remove.OnTapped = func() { p.remove(id) }
		},
	)

	addBtn := widget.NewButton("Add Image...", p.addImage)

	p.container = container.NewBorder(addBtn, nil, nil, nil, p.list)

	state.On(app.EventCollectionChanged, func(interface{}) { p.sync() })
	p.sync()

	return p
}

// Container returns the panel content.
func (p *CollectionPanel) Container() fyne.CanvasObject {
	return p.container
}

// SetWindow sets the parent window for dialogs.
func (p *CollectionPanel) SetWindow(w fyne.Window) {
	p.window = w
}

func (p *CollectionPanel) sync() {
	p.items = p.state.Collection.Items()
	p.list.Refresh()
}

func (p *CollectionPanel) addImage() {
	open := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		name := filepath.Base(path)
		if _, err := p.state.AddToCollection(path, name); err != nil {
			dialogs.ShowError(err, p.window)
		}
	}, p.window)
	open.SetFilter(storage.NewExtensionFileFilter(
		[]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".webp"}))
	open.Show()
}

func (p *CollectionPanel) place(id int) {
	if _, err := p.state.PlaceFromCollection(id, nil); err != nil {
		dialogs.ShowError(err, p.window)
	}
}

// Removing a collection item does not touch artworks already on the wall.
func (p *CollectionPanel) remove(id int) {
	if err := p.state.RemoveFromCollection(id); err != nil {
		dialogs.ShowError(err, p.window)
	}
}
