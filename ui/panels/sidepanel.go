package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"wall-gallery/internal/app"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	container *container.AppTabs

	wallPanel       *WallPanel
	artworkPanel    *ArtworkPanel
	layoutsPanel    *LayoutsPanel
	collectionPanel *CollectionPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{}

	sp.wallPanel = NewWallPanel(state)
	sp.artworkPanel = NewArtworkPanel(state)
	sp.layoutsPanel = NewLayoutsPanel(state)
	sp.collectionPanel = NewCollectionPanel(state)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Wall", sp.wallPanel.Container()),
		container.NewTabItem("Artwork", sp.artworkPanel.Container()),
		container.NewTabItem("Layouts", sp.layoutsPanel.Container()),
		container.NewTabItem("Collection", sp.collectionPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.wallPanel.SetWindow(w)
	sp.artworkPanel.SetWindow(w)
	sp.layoutsPanel.SetWindow(w)
	sp.collectionPanel.SetWindow(w)
}
