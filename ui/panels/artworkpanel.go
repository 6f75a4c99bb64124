package panels

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"wall-gallery/internal/app"
	"wall-gallery/internal/units"
	"wall-gallery/pkg/colorutil"
	"wall-gallery/ui/dialogs"
)

// ArtworkPanel edits the currently selected artwork: logical size with an
// aspect-ratio lock, frame and matte borders, and deletion.
type ArtworkPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	noneLabel *widget.Label
	form      *fyne.Container

	widthEntry  *widget.Entry
	heightEntry *widget.Entry
	aspectLock  *widget.Check

	frameCheck      *widget.Check
	frameColorEntry *widget.Entry
	frameWidthEntry *widget.Entry
	matteCheck      *widget.Check
	matteColorEntry *widget.Entry
	matteWidthEntry *widget.Entry

	// syncing suppresses widget callbacks while the panel re-renders from
	// state.
	syncing bool
}

// NewArtworkPanel creates the artwork panel.
func NewArtworkPanel(state *app.State) *ArtworkPanel {
	p := &ArtworkPanel{state: state}

	p.noneLabel = widget.NewLabel("No artwork selected")

	p.widthEntry = widget.NewEntry()
	p.heightEntry = widget.NewEntry()
	p.aspectLock = widget.NewCheck("Lock aspect ratio", nil)
	p.aspectLock.SetChecked(true)

	applySizeBtn := widget.NewButton("Apply Size", p.applySize)

	p.frameCheck = widget.NewCheck("Frame", func(bool) { p.applyFrame() })
	p.frameColorEntry = widget.NewEntry()
	p.frameWidthEntry = widget.NewEntry()
	frameApply := widget.NewButton("Apply Frame", p.applyFrame)

	p.matteCheck = widget.NewCheck("Matte", func(bool) { p.applyMatte() })
	p.matteColorEntry = widget.NewEntry()
	p.matteWidthEntry = widget.NewEntry()
	matteApply := widget.NewButton("Apply Matte", p.applyMatte)

	deleteBtn := widget.NewButton("Delete Artwork", func() {
		if a := state.Selection(); a != nil {
			state.DeleteArtwork(a.ID)
		}
	})

	p.form = container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewLabel("Width"), p.widthEntry,
			widget.NewLabel("Height"), p.heightEntry,
		),
		p.aspectLock,
		applySizeBtn,
		widget.NewSeparator(),
		p.frameCheck,
		container.NewGridWithColumns(2,
			widget.NewLabel("Frame color"), p.frameColorEntry,
			widget.NewLabel("Frame width"), p.frameWidthEntry,
		),
		frameApply,
		widget.NewSeparator(),
		p.matteCheck,
		container.NewGridWithColumns(2,
			widget.NewLabel("Matte color"), p.matteColorEntry,
			widget.NewLabel("Matte width"), p.matteWidthEntry,
		),
		matteApply,
		widget.NewSeparator(),
		deleteBtn,
	)

	p.container = container.NewVBox(p.noneLabel, p.form)

	sync := func(interface{}) { p.sync() }
	state.On(app.EventSelectionChanged, sync)
	state.On(app.EventArtworksChanged, sync)
	state.On(app.EventWallChanged, sync)
	p.sync()

	return p
}

// Container returns the panel content.
func (p *ArtworkPanel) Container() fyne.CanvasObject {
	return p.container
}

// SetWindow sets the parent window for dialogs.
func (p *ArtworkPanel) SetWindow(w fyne.Window) {
	p.window = w
}

// sync re-renders the editors from the current selection.
func (p *ArtworkPanel) sync() {
	a := p.state.Selection()
	if a == nil {
		p.noneLabel.Show()
		p.form.Hide()
		return
	}
	p.noneLabel.Hide()
	p.form.Show()

	p.syncing = true
	defer func() { p.syncing = false }()

	u := p.state.Wall.DisplayUnit
	p.widthEntry.SetText(formatDim(units.FromCanonical(a.LogicalWidth, u)))
	p.heightEntry.SetText(formatDim(units.FromCanonical(a.LogicalHeight, u)))

	p.frameCheck.SetChecked(a.HasFrame)
	p.frameColorEntry.SetText(colorutil.ToHex(a.FrameColor))
	p.frameWidthEntry.SetText(formatDim(units.FromCanonical(a.FrameWidthInches, u)))

	p.matteCheck.SetChecked(a.HasMatte)
	p.matteColorEntry.SetText(colorutil.ToHex(a.MatteColor))
	p.matteWidthEntry.SetText(formatDim(units.FromCanonical(a.MatteWidthInches, u)))
}

func (p *ArtworkPanel) applySize() {
	a := p.state.Selection()
	if a == nil {
		return
	}
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
	p.state.SetArtworkSize(a.ID, w, h, p.state.Wall.DisplayUnit, p.aspectLock.Checked)
}

func (p *ArtworkPanel) applyFrame() {
	if p.syncing {
		return
	}
	a := p.state.Selection()
	if a == nil {
		return
	}
	c, err := colorutil.ParseHex(p.frameColorEntry.Text)
	if err != nil {
		c = a.FrameColor
	}
	width := parseDimOr(p.frameWidthEntry.Text, p.state.Wall.DisplayUnit, a.FrameWidthInches)
	p.state.SetArtworkFrame(a.ID, p.frameCheck.Checked, c, width)
}

func (p *ArtworkPanel) applyMatte() {
	if p.syncing {
		return
	}
	a := p.state.Selection()
	if a == nil {
		return
	}
	c, err := colorutil.ParseHex(p.matteColorEntry.Text)
	if err != nil {
		c = a.MatteColor
	}
	width := parseDimOr(p.matteWidthEntry.Text, p.state.Wall.DisplayUnit, a.MatteWidthInches)
	p.state.SetArtworkMatte(a.ID, p.matteCheck.Checked, c, width)
}

// formatDim renders a dimension with sensible precision for an entry field.
func formatDim(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// parseDimOr parses a dimension in the given display unit, falling back to
// the given canonical value.
func parseDimOr(text string, u units.Unit, fallbackInches float64) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v <= 0 {
		return fallbackInches
	}
	return units.ToCanonical(v, u)
}
