// Package main provides the entry point for the Wall Gallery application.
package main

import (
	"log"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"wall-gallery/internal/app"
	"wall-gallery/internal/storage"
	"wall-gallery/internal/version"
	"wall-gallery/ui/mainwindow"
	"wall-gallery/ui/prefs"
)

const appTitle = "Wall Gallery"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("wall-gallery")

	kv, err := storage.NewFileStore()
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	// The wall canvas is the viewport; until the window exists, fall back
	// to a plausible size so the initial scale is sane.
	var win *mainwindow.MainWindow
	state, err := app.NewState(kv, func() (float64, float64) {
		if win == nil {
			return 1024, 640
		}
		size := win.WallCanvas().Size()
		if size.Width < 1 || size.Height < 1 {
			return 1024, 640
		}
		return float64(size.Width), float64(size.Height)
	})
	if err != nil {
		log.Fatalf("state: %v", err)
	}

	appPrefs := prefs.Load()
	win = mainwindow.New(fyneApp, state, appPrefs)

	setupHotReload(win)

	win.SetMaster()
	win.ShowAndRun()
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.StartupTime().Format("15:04:05"))

	reloader.OnTick(func() {
		win.SavePreferencesIfChanged()
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(ok bool) {
				if !ok {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: saving preferences before restart...")
				win.SavePreferences()
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win)
	})

	reloader.Start()
}
