// Package main provides the entry point for the Digit Canvas application.
package main

import (
	"errors"
	"log"

	"digit-canvas/internal/app"
	"digit-canvas/internal/backend"
	"digit-canvas/internal/predict"
	"digit-canvas/internal/prefs"
	"digit-canvas/internal/version"
	"digit-canvas/ui/mainwindow"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.digit-canvas"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s %s", mainwindow.Title, version.String())

	cfg, err := app.LoadConfig(prefs.DefaultPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	classifier, err := backend.Open(cfg)
	if err != nil {
		var lerr *predict.ModelLoadError
		if errors.As(err, &lerr) {
			log.Fatalf("Cannot start without a classifier: %v", lerr)
		}
		log.Fatalf("Failed to open %s backend: %v", cfg.Backend, err)
	}
	defer classifier.Close()

	session := app.NewSession(classifier, app.WithClearPolicy(cfg.Clear))

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.CanvasTheme{})

	win := mainwindow.New(a, session, cfg)
	win.ShowAndRun()
	log.Printf("Exiting")
}
