package gui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashdesk/internal/dialogs"
)

func newRegistry(t *testing.T) *dialogs.Registry {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	var registry *dialogs.Registry
	registry = dialogs.New(Factories(a, AboutInfo{Name: "flashdesk", Version: "test"}, func(name string, d dialogs.Dialog) {
		registry.CloseIf(name, d)
	}))
	return registry
}

func TestAddCardsVetoesWhileHoldingText(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	closed := 0
	d := NewAddCards(a, "Spanish", func() { closed++ })
	assert.True(t, d.CanClose())

	d.Front.SetText("hola")
	assert.False(t, d.CanClose())

	d.SetForceClose(true)
	assert.True(t, d.CanClose())

	d.Close()
	d.Close()
	assert.True(t, d.IsClosed())
	assert.Equal(t, 1, closed)
}

func TestRequestCloseKeepsDirtyWindowOpen(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	d := NewEditCurrent(a, "front text", nil)
	d.Editor.SetText("edited")

	d.RequestClose()
	assert.False(t, d.IsClosed())

	d.Editor.SetText("front text")
	d.RequestClose()
	assert.True(t, d.IsClosed())
}

func TestRegistryReusesWindowAndForgetsItOnClose(t *testing.T) {
	registry := newRegistry(t)

	first := registry.Open(DialogBrowser, "deck:Spanish")
	second := registry.Open(DialogBrowser)
	require.Same(t, first, second)
	assert.Equal(t, "deck:Spanish", first.(*Browser).Search.Text)

	first.Close()
	assert.False(t, registry.IsOpen(DialogBrowser))

	third := registry.Open(DialogBrowser)
	assert.NotSame(t, first, third)
}

func TestCloseHookNamesTheClosingWindow(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	type closedWindow struct {
		name string
		d    dialogs.Dialog
	}
	var got []closedWindow
	factories := Factories(a, AboutInfo{Name: "flashdesk"}, func(name string, d dialogs.Dialog) {
		got = append(got, closedWindow{name, d})
	})

	add := factories[DialogAddCards]("Spanish")
	about := factories[DialogAbout]()
	add.Close()
	about.Close()

	require.Len(t, got, 2)
	assert.Equal(t, DialogAddCards, got[0].name)
	assert.Same(t, add, got[0].d)
	assert.Equal(t, DialogAbout, got[1].name)
	assert.Same(t, about, got[1].d)
}

func TestCloseAllHonoursUnsavedCards(t *testing.T) {
	registry := newRegistry(t)

	add := registry.Open(DialogAddCards).(*AddCards)
	registry.Open(DialogAbout)
	add.Back.SetText("adiós")

	// name order visits About before AddCards
	assert.False(t, registry.CloseAll())
	assert.False(t, registry.IsOpen(DialogAbout))
	assert.True(t, registry.IsOpen(DialogAddCards))
	assert.False(t, add.IsClosed())

	add.Back.SetText("")
	assert.True(t, registry.CloseAll())
	assert.True(t, add.IsClosed())
	for _, name := range registry.Names() {
		assert.False(t, registry.IsOpen(name), name)
	}
}

func TestMainWindowQueuesImports(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	var opened []string
	m := NewMainWindow(a, "flashdesk", func(name string) { opened = append(opened, name) })

	m.QueueImport("/decks/spanish.apkg")
	assert.Equal(t, []string{"/decks/spanish.apkg"}, m.PendingImports())
	assert.Equal(t, "Queued for import: spanish.apkg", m.Status())
	assert.Empty(t, opened)
}

func TestFatalWindow(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	w := NewFatalWindow(a, "Startup Error", "boom")
	assert.Equal(t, "Startup Error", w.Title())
}

func TestStringArg(t *testing.T) {
	assert.Equal(t, "", stringArg(nil, 0))
	assert.Equal(t, "x", stringArg([]any{"x"}, 0))
	assert.Equal(t, "42", stringArg([]any{42}, 0))
}
