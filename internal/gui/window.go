package gui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

type WindowOptions struct {
	Title string
	Size  fyne.Size
	// Dirty reports unsaved state. A nil Dirty never vetoes.
	Dirty func() bool
	// OnClosed runs once, however the window ends up closed.
	OnClosed func()
}

// Window is a modeless fyne window that satisfies dialogs.Dialog.
type Window struct {
	win   fyne.Window
	dirty func() bool

	mu         sync.Mutex
	forceClose bool
	closed     bool
}

func NewWindow(a fyne.App, content fyne.CanvasObject, opts WindowOptions) *Window {
	w := &Window{
		win:   a.NewWindow(opts.Title),
		dirty: opts.Dirty,
	}

	w.win.SetContent(content)
	if opts.Size.Width > 0 && opts.Size.Height > 0 {
		w.win.Resize(opts.Size)
	}
	w.win.SetCloseIntercept(w.RequestClose)
	w.win.SetOnClosed(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		if opts.OnClosed != nil {
			opts.OnClosed()
		}
	})
	w.win.Show()
	return w
}

func (w *Window) Window() fyne.Window {
	return w.win
}

// Raise brings the window back to the front. fyne has no explicit
// minimized/maximized state; Show restores a hidden window.
func (w *Window) Raise() {
	w.win.Show()
	w.win.RequestFocus()
}

func (w *Window) CanClose() bool {
	w.mu.Lock()
	force := w.forceClose
	w.mu.Unlock()

	if force || w.dirty == nil {
		return true
	}
	return !w.dirty()
}

func (w *Window) SetForceClose(force bool) {
	w.mu.Lock()
	w.forceClose = force
	w.mu.Unlock()
}

func (w *Window) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.win.Close()
}

func (w *Window) IsClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// RequestClose is the user's close button: windows with unsaved state ask
// before discarding it.
func (w *Window) RequestClose() {
	if w.CanClose() {
		w.Close()
		return
	}

	dialog.ShowConfirm("Discard changes?", "This window has unsaved changes. Close it anyway?",
		func(discard bool) {
			if !discard {
				return
			}
			w.SetForceClose(true)
			w.Close()
		}, w.win)
}
