// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"digit-canvas/internal/app"
	"digit-canvas/internal/chart"
	"digit-canvas/internal/imageio"
	"digit-canvas/internal/predict"
	"digit-canvas/internal/version"
	"digit-canvas/ui/canvas"
	"digit-canvas/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// Title is the window title.
const Title = "Digit Canvas"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	session   *app.Session
	canvas    *canvas.GridCanvas
	probPanel *panels.ProbabilityPanel
	statusBar *widget.Label

	// lastDir is the directory of the last file chosen in a dialog. It is
	// not persisted.
	lastDir string
}

// New creates a new main window.
func New(fyneApp fyne.App, session *app.Session, cfg app.Config) *MainWindow {
	win := fyneApp.NewWindow(Title)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
	}

	mw.setupUI(cfg.PixelSize)
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI(pixelSize int) {
	mw.canvas = canvas.NewGridCanvas(mw.session, pixelSize)
	mw.canvas.SetOnError(mw.showCycleError)

	mw.probPanel = panels.NewProbabilityPanel(mw.session)

	mw.statusBar = widget.NewLabel("Ready")

	buttons := container.NewHBox(
		widget.NewButton("Clear", mw.onClear),
		widget.NewButton("Save as image", mw.onExportImage),
		widget.NewButton("Import image", mw.onImportImage),
	)

	// Grid | probabilities
	body := container.NewHBox(
		container.NewCenter(mw.canvas),
		container.NewPadded(mw.probPanel.Container()),
	)

	// Buttons and status bar along the bottom
	bottom := container.NewVBox(buttons, container.NewPadded(mw.statusBar))
	content := container.NewBorder(nil, bottom, nil, nil, body)

	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	clearItem := fyne.NewMenuItem("Clear", mw.onClear)
	clearItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierShortcutDefault}

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Import Image...", mw.onImportImage),
		fyne.NewMenuItem("Save as Image...", mw.onExportImage),
		fyne.NewMenuItem("Export Chart...", mw.onExportChart),
		fyne.NewMenuItemSeparator(),
		clearItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
	mw.Canvas().AddShortcut(clearItem.Shortcut, func(fyne.Shortcut) { mw.onClear() })
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventPrediction, func(data interface{}) {
		if p, ok := data.(predict.Probabilities); ok {
			mw.updateStatus("Prediction: " + p.String())
		}
	})

	mw.session.On(app.EventPredictionCleared, func(interface{}) {
		mw.updateStatus("Cleared")
	})

	mw.session.On(app.EventImported, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(Title + " - " + filepath.Base(path))
		}
	})

	mw.session.On(app.EventExported, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Saved " + path)
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// showCycleError reports a failed stamp or clear. Busy rejections are dropped.
func (mw *MainWindow) showCycleError(err error) {
	if errors.Is(err, app.ErrBusy) {
		return
	}
	log.Printf("Classification failed: %v", err)
	mw.updateStatus(err.Error())
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	if mw.lastDir == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(mw.lastDir))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir remembers the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.lastDir = filepath.Dir(filePath)
}

// Action handlers

func (mw *MainWindow) onClear() {
	if err := mw.session.Clear(); err != nil {
		mw.showCycleError(err)
		return
	}
	mw.SetTitle(Title)
}

func (mw *MainWindow) onImportImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)

		if !imageio.IsImportFormat(path) {
			dialog.ShowError(fmt.Errorf("%s is not a supported image", filepath.Base(path)), mw.Window)
			return
		}
		if err := mw.session.Import(path); err != nil {
			log.Printf("Import failed: %v", err)
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(imageio.ImportFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportImage() {
	mw.saveFile("digit"+imageio.DefaultExt, imageio.ExportFormats(), func(path string) (string, error) {
		return mw.session.Export(path)
	})
}

func (mw *MainWindow) onExportChart() {
	p, ok := mw.session.Prediction()
	if !ok {
		dialog.ShowInformation("Export Chart", "Draw or import a digit first.", mw.Window)
		return
	}
	mw.saveFile("prediction.png", chart.Formats(), func(path string) (string, error) {
		written, err := chart.Save(path, p)
		if err == nil {
			log.Printf("Exported chart to %s", written)
			mw.updateStatus("Saved " + written)
		}
		return written, err
	})
}

// saveFile runs a save dialog and hands the chosen path to save.
func (mw *MainWindow) saveFile(name string, exts []string, save func(path string) (string, error)) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		mw.saveLastDir(path)

		if _, err := saveOver(path, save); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName(name)
	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// saveOver runs save on a path the save dialog has already created. The empty
// placeholder is removed when save fails or writes somewhere else.
func saveOver(path string, save func(path string) (string, error)) (string, error) {
	written, err := save(path)
	if err != nil || written != path {
		_ = os.Remove(path)
	}
	return written, err
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+Title,
		fmt.Sprintf("%s %s\n\n"+
			"Draw a digit and watch the classifier guess it.",
			Title, version.String()),
		mw.Window)
}
