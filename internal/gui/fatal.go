package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// NewFatalWindow shows a startup failure. Dismissing it quits the app.
func NewFatalWindow(a fyne.App, title, detail string) fyne.Window {
	w := a.NewWindow(title)

	text := widget.NewMultiLineEntry()
	text.SetText(detail)
	text.Wrapping = fyne.TextWrapWord

	ok := widget.NewButton("OK", func() { a.Quit() })
	w.SetContent(container.NewBorder(nil, container.NewCenter(ok), nil, nil, text))
	w.Resize(fyne.NewSize(560, 320))
	w.SetMaster()
	w.CenterOnScreen()
	return w
}

// ReportFatal blocks on the error window until the user dismisses it.
// The caller is expected to exit afterwards.
func ReportFatal(a fyne.App, title, detail string) {
	NewFatalWindow(a, title, detail).ShowAndRun()
}
