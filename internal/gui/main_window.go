package gui

import (
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the owner's primary window. Launch messages from later
// instances land here.
type MainWindow struct {
	win     fyne.Window
	status  *widget.Label
	imports *widget.List

	pending []string
}

func NewMainWindow(a fyne.App, title string, open func(name string)) *MainWindow {
	m := &MainWindow{
		win:    a.NewWindow(title),
		status: widget.NewLabel("Ready"),
	}

	m.imports = widget.NewList(
		func() int { return len(m.pending) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(filepath.Base(m.pending[id]))
		},
	)

	toolbar := container.NewHBox(
		widget.NewButton("Add", func() { open(DialogAddCards) }),
		widget.NewButton("Browse", func() { open(DialogBrowser) }),
		widget.NewButton("Stats", func() { open(DialogDeckStats) }),
		widget.NewButton("About", func() { open(DialogAbout) }),
	)

	m.win.SetContent(container.NewBorder(toolbar, m.status, nil, nil, m.imports))
	m.win.Resize(fyne.NewSize(800, 560))
	m.win.SetMaster()
	return m
}

func (m *MainWindow) Window() fyne.Window {
	return m.win
}

func (m *MainWindow) Raise() {
	m.win.Show()
	m.win.RequestFocus()
}

// QueueImport records a file handed over by another launch.
func (m *MainWindow) QueueImport(path string) {
	m.pending = append(m.pending, path)
	m.imports.Refresh()
	m.status.SetText("Queued for import: " + filepath.Base(path))
}

func (m *MainWindow) PendingImports() []string {
	return append([]string(nil), m.pending...)
}

func (m *MainWindow) Status() string {
	return m.status.Text
}

func (m *MainWindow) SetStatus(text string) {
	m.status.SetText(text)
}
