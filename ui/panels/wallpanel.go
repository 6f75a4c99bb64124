// Package panels provides the side panel sections of the application.
package panels

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"wall-gallery/internal/app"
	"wall-gallery/internal/units"
	"wall-gallery/pkg/colorutil"
	"wall-gallery/ui/dialogs"
)

// WallPanel edits the wall dimensions, display unit, color, and background.
type WallPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	widthEntry  *widget.Entry
	heightEntry *widget.Entry
	unitSelect  *widget.Select
	colorEntry  *widget.Entry
}

// NewWallPanel creates the wall panel.
func NewWallPanel(state *app.State) *WallPanel {
	p := &WallPanel{state: state}

	p.widthEntry = widget.NewEntry()
	p.heightEntry = widget.NewEntry()

	unitNames := make([]string, 0, len(units.All()))
	for _, u := range units.All() {
		unitNames = append(unitNames, u.String())
	}
	p.unitSelect = widget.NewSelect(unitNames, func(name string) {
		u, err := units.ParseUnit(name)
		if err != nil {
			return
		}
		// Display-only change; re-renders the numeric fields.
		state.SetDisplayUnit(u)
	})

	p.colorEntry = widget.NewEntry()

	applyBtn := widget.NewButton("Apply Size", p.applyDimensions)
	colorBtn := widget.NewButton("Apply Color", p.applyColor)

	backgroundBtn := widget.NewButton("Background Image...", p.chooseBackground)
	clearBgBtn := widget.NewButton("Clear Background", func() {
		_ = state.SetWallBackground("")
	})

	clearWallBtn := widget.NewButton("Clear Wall", func() {
		dialogs.ConfirmDestructive("Clear Wall",
			"Remove every artwork from the wall?", p.window, state.ClearWall)
	})

	form := container.NewGridWithColumns(2,
		widget.NewLabel("Width"), p.widthEntry,
		widget.NewLabel("Height"), p.heightEntry,
		widget.NewLabel("Unit"), p.unitSelect,
		widget.NewLabel("Color"), p.colorEntry,
	)

	p.container = container.NewVBox(
		form,
		applyBtn,
		colorBtn,
		widget.NewSeparator(),
		backgroundBtn,
		clearBgBtn,
		widget.NewSeparator(),
		clearWallBtn,
	)

	state.On(app.EventWallChanged, func(interface{}) { p.sync() })
	p.sync()

	return p
}

// Container returns the panel content.
func (p *WallPanel) Container() fyne.CanvasObject {
	return p.container
}

// SetWindow sets the parent window for dialogs.
func (p *WallPanel) SetWindow(w fyne.Window) {
	p.window = w
}

// sync re-renders the numeric fields from canonical state in the current
// display unit.
func (p *WallPanel) sync() {
	w, h := p.state.Wall.DisplayDimensions()
	p.widthEntry.SetText(strconv.FormatFloat(w, 'f', -1, 64))
	p.heightEntry.SetText(strconv.FormatFloat(h, 'f', -1, 64))
	p.unitSelect.SetSelected(p.state.Wall.DisplayUnit.String())
	p.colorEntry.SetText(colorutil.ToHex(p.state.Wall.Color))
}

// applyDimensions parses the entries in the current display unit. Malformed
// input aborts without touching state.
func (p *WallPanel) applyDimensions() {
	w, err := strconv.ParseFloat(p.widthEntry.Text, 64)
	if err != nil {
		dialogs.ShowError(fmt.Errorf("invalid width %q", p.widthEntry.Text), p.window)
		return
	}
	h, err := strconv.ParseFloat(p.heightEntry.Text, 64)
	if err != nil {
		dialogs.ShowError(fmt.Errorf("invalid height %q", p.heightEntry.Text), p.window)
		return
	}
	if err := p.state.SetWallDimensions(w, h, p.state.Wall.DisplayUnit); err != nil {
		dialogs.ShowError(err, p.window)
	}
}

func (p *WallPanel) applyColor() {
	c, err := colorutil.ParseHex(p.colorEntry.Text)
	if err != nil {
		dialogs.ShowError(err, p.window)
		return
	}
	p.state.SetWallColor(c)
}

func (p *WallPanel) chooseBackground() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		if err := p.state.SetWallBackground(path); err != nil {
			dialogs.ShowError(err, p.window)
		}
	}, p.window)
}
