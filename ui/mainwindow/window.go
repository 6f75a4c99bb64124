// Package mainwindow provides the main application window.
package mainwindow

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"wall-gallery/internal/app"
	"wall-gallery/internal/layout"
	"wall-gallery/internal/units"
	"wall-gallery/internal/version"
	"wall-gallery/ui/canvas"
	"wall-gallery/ui/dialogs"
	"wall-gallery/ui/panels"
	"wall-gallery/ui/prefs"
)

const (
	prefKeyLastDir      = "lastDirectory"
	prefKeyDisplayUnit  = "displayUnit"
	prefKeyShowGuides   = "showGuides"
	prefKeyWindowWidth  = "windowWidth"
	prefKeyWindowHeight = "windowHeight"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.WallCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	// Menu items that need state tracking
	roomViewItem   *fyne.MenuItem
	showGuidesItem *fyne.MenuItem

	prefsDirty bool
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, appPrefs *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Wall Gallery")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  appPrefs,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restorePreferences()

	return mw
}

// WallCanvas returns the wall canvas, which also acts as the viewport for
// scale computation.
func (mw *MainWindow) WallCanvas() *canvas.WallCanvas {
	return mw.canvas
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewWallCanvas(mw.state)

	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")

	// Main layout: side panel | wall canvas
	split := container.NewHSplit(
		mw.sidePanel.Container(),
		mw.canvas,
	)
	split.SetOffset(0.28)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Add Artwork...", mw.onAddArtwork),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Layouts...", mw.onExportLayouts),
		fyne.NewMenuItem("Import Layouts...", mw.onImportLayouts),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Delete Artwork", mw.onDeleteArtwork),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Wall", mw.onClearWall),
	)

	mw.roomViewItem = fyne.NewMenuItem("Room View", mw.onToggleRoomView)
	mw.showGuidesItem = fyne.NewMenuItem("Show Guides", mw.onToggleShowGuides)
	mw.showGuidesItem.Checked = true

	unitItems := make([]*fyne.MenuItem, 0, len(units.All()))
	for _, u := range units.All() {
		unit := u
		unitItems = append(unitItems, fyne.NewMenuItem(unit.String(), func() {
			mw.state.SetDisplayUnit(unit)
		}))
	}

	viewMenu := fyne.NewMenu("View",
		mw.roomViewItem,
		mw.showGuidesItem,
		fyne.NewMenuItemSeparator(),
	)
	viewMenu.Items = append(viewMenu.Items, unitItems...)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventArtworksChanged, func(interface{}) {
		mw.updateStatus(fmt.Sprintf("%d artwork(s) on the wall", len(mw.state.Artworks)))
	})

	mw.state.On(app.EventWallChanged, func(interface{}) {
		w, h := mw.state.Wall.DisplayDimensions()
		mw.updateStatus(fmt.Sprintf("Wall %.0f x %.0f %s",
			w, h, mw.state.Wall.DisplayUnit))
		mw.prefs.SetString(prefKeyDisplayUnit, mw.state.Wall.DisplayUnit.String())
		mw.prefsDirty = true
	})

	mw.state.On(app.EventLayoutsChanged, func(interface{}) {
		mw.updateStatus(fmt.Sprintf("%d saved layout(s)", mw.state.Layouts.Len()))
	})

	mw.state.On(app.EventViewModeChanged, func(interface{}) {
		mw.roomViewItem.Checked = mw.state.RoomView
		mw.refreshMenus()
		if mw.state.RoomView {
			mw.updateStatus("Room view: editing disabled")
		} else {
			mw.updateStatus("Wall view")
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) refreshMenus() {
	if menu := mw.MainMenu(); menu != nil {
		mw.SetMainMenu(menu)
	}
}

func (mw *MainWindow) onAddArtwork() {
	open := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		mw.saveLastDir(path)
		if a := mw.state.AddArtworkFromFile(path, nil); a == nil {
			mw.updateStatus("Switch to wall view to add artwork")
		}
	}, mw.Window)
	open.SetFilter(storage.NewExtensionFileFilter(
		[]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".webp"}))
	if dir := mw.getLastDir(); dir != nil {
		open.SetLocation(dir)
	}
	open.Show()
}

func (mw *MainWindow) onDeleteArtwork() {
	if a := mw.state.Selection(); a != nil {
		mw.state.DeleteArtwork(a.ID)
	}
}

func (mw *MainWindow) onClearWall() {
	dialogs.ConfirmDestructive("Clear Wall",
		"Remove all artworks from the wall?", mw.Window, func() {
			mw.state.ClearWall()
		})
}

func (mw *MainWindow) onToggleRoomView() {
	mw.state.SetRoomView(!mw.state.RoomView)
}

func (mw *MainWindow) onToggleShowGuides() {
	show := !mw.state.ShowGuides
	mw.state.SetShowGuides(show)
	mw.showGuidesItem.Checked = show
	mw.refreshMenus()
	mw.prefs.SetBool(prefKeyShowGuides, show)
	mw.prefsDirty = true
}

func (mw *MainWindow) onExportLayouts() {
	save := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := mw.state.ExportLayouts(wc); err != nil {
			dialogs.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Layouts exported")
	}, mw.Window)
	save.SetFileName(layout.ExportFilename(time.Now()))
	save.Show()
}

func (mw *MainWindow) onImportLayouts() {
	dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			dialogs.ShowError(err, mw.Window)
			return
		}
		records, err := layout.ParseImport(data)
		if err != nil {
			dialogs.ShowError(err, mw.Window)
			return
		}
		dialogs.ConfirmImport(len(records), mw.Window, func() {
			added, err := mw.state.ImportLayouts(bytes.NewReader(data))
			if err != nil {
				dialogs.ShowError(err, mw.Window)
				return
			}
			mw.updateStatus(fmt.Sprintf("Imported %d layout(s)", added))
		})
	}, mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Wall Gallery",
		fmt.Sprintf("Wall Gallery %s\nBuilt %s (%s)",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
	mw.prefsDirty = true
}

// restorePreferences applies persisted preferences to the fresh state.
func (mw *MainWindow) restorePreferences() {
	w := mw.prefs.Float(prefKeyWindowWidth, 1280)
	h := mw.prefs.Float(prefKeyWindowHeight, 800)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))

	if name := mw.prefs.String(prefKeyDisplayUnit); name != "" {
		if u, err := units.ParseUnit(name); err == nil {
			mw.state.SetDisplayUnit(u)
		}
	}

	show := mw.prefs.Bool(prefKeyShowGuides, true)
	mw.state.SetShowGuides(show)
	mw.showGuidesItem.Checked = show
	mw.refreshMenus()
}

// SavePreferences writes current preferences to disk.
func (mw *MainWindow) SavePreferences() {
	winSize := mw.Window.Canvas().Size()
	mw.prefs.SetFloat(prefKeyWindowWidth, float64(winSize.Width))
	mw.prefs.SetFloat(prefKeyWindowHeight, float64(winSize.Height))
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Failed to save preferences: " + err.Error())
		return
	}
	mw.prefsDirty = false
}

// SavePreferencesIfChanged flushes preferences only when something changed
// since the last save.
func (mw *MainWindow) SavePreferencesIfChanged() {
	if !mw.prefsDirty {
		return
	}
	mw.SavePreferences()
}
