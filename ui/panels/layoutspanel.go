package panels

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"wall-gallery/internal/app"
	"wall-gallery/internal/layout"
	"wall-gallery/ui/dialogs"
)

// LayoutsPanel lists saved layouts and handles save, load, delete,
// export and import.
type LayoutsPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	list    *widget.List
	records []layout.Record
}

// NewLayoutsPanel creates the saved-layouts panel.
func NewLayoutsPanel(state *app.State) *LayoutsPanel {
	p := &LayoutsPanel{state: state}

	p.list = widget.NewList(
		func() int { return len(p.records) },
		func() fyne.CanvasObject {
			name := widget.NewLabel("name")
			load := widget.NewButton("Load", nil)
			del := widget.NewButton("Delete", nil)
			return container.NewBorder(nil, nil, nil, container.NewHBox(load, del), name)
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			if i >= len(p.records) {
				return
			}
			rec := p.records[i]
			border := obj.(*fyne.Container)
			var name *widget.Label
			var buttons *fyne.Container
			for _, child := range border.Objects {
				switch c := child.(type) {
				case *widget.Label:
					name = c
				case *fyne.Container:
					buttons = c
				}
			}
			name.SetText(fmt.Sprintf("%s  (%s)", rec.Name, rec.Created.Local().Format("Jan 2 2006")))
			load := buttons.Objects[0].(*widget.Button)
			del := buttons.Objects[1].(*widget.Button)
			id := rec.ID
			load.OnTapped = func() { p.loadLayout(id) }
			del.OnTapped = func() { p.deleteLayout(id) }
		},
	)

	saveBtn := widget.NewButton("Save Current Layout", p.saveLayout)
	exportBtn := widget.NewButton("Export All...", p.exportLayouts)
	importBtn := widget.NewButton("Import...", p.importLayouts)

	p.container = container.NewBorder(
		saveBtn,
		container.NewGridWithColumns(2, exportBtn, importBtn),
		nil, nil,
		p.list,
	)

	state.On(app.EventLayoutsChanged, func(interface{}) { p.sync() })
	p.sync()

	return p
}

// Container returns the panel content.
func (p *LayoutsPanel) Container() fyne.CanvasObject {
	return p.container
}

// SetWindow sets the parent window for dialogs.
func (p *LayoutsPanel) SetWindow(w fyne.Window) {
	p.window = w
}

func (p *LayoutsPanel) sync() {
	p.records = p.state.Layouts.Records()
	p.list.Refresh()
}

func (p *LayoutsPanel) saveLayout() {
	dialogs.PromptLayoutName(p.window, func(name string) {
		if _, err := p.state.SaveLayout(name); err != nil {
			dialogs.ShowError(err, p.window)
		}
	})
}

// loadLayout replaces the current wall wholesale, so it is gated by a
// confirmation.
func (p *LayoutsPanel) loadLayout(id int64) {
	dialogs.ConfirmDestructive("Load Layout",
		"Replace the current wall with this layout?", p.window, func() {
			if err := p.state.LoadLayout(id); err != nil {
				dialogs.ShowError(err, p.window)
			}
		})
}

func (p *LayoutsPanel) deleteLayout(id int64) {
	dialogs.ConfirmDestructive("Delete Layout",
		"Delete this saved layout? This cannot be undone.", p.window, func() {
			if err := p.state.DeleteLayout(id); err != nil {
				dialogs.ShowError(err, p.window)
			}
		})
}

func (p *LayoutsPanel) exportLayouts() {
	save := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := p.state.ExportLayouts(wc); err != nil {
			dialogs.ShowError(err, p.window)
		}
	}, p.window)
	save.SetFileName(layout.ExportFilename(time.Now()))
	save.Show()
}

// importLayouts previews the incoming file so the user confirms how many
// layouts will be merged before anything changes.
func (p *LayoutsPanel) importLayouts() {
	dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			dialogs.ShowError(err, p.window)
			return
		}
		records, err := layout.ParseImport(data)
		if err != nil {
			dialogs.ShowError(err, p.window)
			return
		}
		dialogs.ConfirmImport(len(records), p.window, func() {
			if _, err := p.state.ImportLayouts(bytes.NewReader(data)); err != nil {
				dialogs.ShowError(err, p.window)
			}
		})
	}, p.window)
}
