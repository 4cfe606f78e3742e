package gui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"flashdesk/internal/dialogs"
)

const (
	DialogAddCards    = "AddCards"
	DialogBrowser     = "Browser"
	DialogEditCurrent = "EditCurrent"
	DialogDeckStats   = "DeckStats"
	DialogAbout       = "About"
)

type AboutInfo struct {
	Name    string
	Version string
	Website string
}

// Factories builds the modeless dialog set. forget is called with the
// dialog name and the closing window, so a late hook from an old window
// cannot clear a newer one.
func Factories(a fyne.App, about AboutInfo, forget func(name string, d dialogs.Dialog)) map[string]dialogs.Factory {
	return map[string]dialogs.Factory{
		DialogAddCards: func(args ...any) dialogs.Dialog {
			return tracked(DialogAddCards, forget, func(onClosed func()) *AddCards {
				return NewAddCards(a, stringArg(args, 0), onClosed)
			})
		},
		DialogBrowser: func(args ...any) dialogs.Dialog {
			return tracked(DialogBrowser, forget, func(onClosed func()) *Browser {
				return NewBrowser(a, stringArg(args, 0), onClosed)
			})
		},
		DialogEditCurrent: func(args ...any) dialogs.Dialog {
			return tracked(DialogEditCurrent, forget, func(onClosed func()) *EditCurrent {
				return NewEditCurrent(a, stringArg(args, 0), onClosed)
			})
		},
		DialogDeckStats: func(args ...any) dialogs.Dialog {
			return tracked(DialogDeckStats, forget, func(onClosed func()) *DeckStats {
				return NewDeckStats(a, stringArg(args, 0), onClosed)
			})
		},
		DialogAbout: func(args ...any) dialogs.Dialog {
			return tracked(DialogAbout, forget, func(onClosed func()) *About {
				return NewAbout(a, about, onClosed)
			})
		},
	}
}

// tracked builds a dialog whose close hook reports that exact instance.
func tracked[T dialogs.Dialog](name string, forget func(string, dialogs.Dialog), build func(onClosed func()) T) dialogs.Dialog {
	var d T
	d = build(func() { forget(name, d) })
	return d
}

func stringArg(args []any, i int) string {
	if i >= len(args) {
		return ""
	}
	if s, ok := args[i].(string); ok {
		return s
	}
	return fmt.Sprint(args[i])
}

// AddCards vetoes closing while either side holds text.
type AddCards struct {
	*Window
	Deck  string
	Front *widget.Entry
	Back  *widget.Entry
	added int
}

func NewAddCards(a fyne.App, deck string, onClosed func()) *AddCards {
	if deck == "" {
		deck = "Default"
	}
	d := &AddCards{
		Deck:  deck,
		Front: widget.NewMultiLineEntry(),
		Back:  widget.NewMultiLineEntry(),
	}
	d.Front.SetPlaceHolder("Front")
	d.Back.SetPlaceHolder("Back")

	status := widget.NewLabel("")
	add := widget.NewButton("Add", func() {
		if strings.TrimSpace(d.Front.Text) == "" {
			status.SetText("The front of the card is empty.")
			return
		}
		d.added++
		d.Front.SetText("")
		d.Back.SetText("")
		status.SetText(fmt.Sprintf("Added %d to %s", d.added, d.Deck))
	})

	content := container.NewBorder(
		widget.NewLabel("Deck: "+deck), container.NewHBox(add, status), nil, nil,
		container.NewGridWithRows(2, d.Front, d.Back),
	)
	d.Window = NewWindow(a, content, WindowOptions{
		Title:    "Add",
		Size:     fyne.NewSize(520, 420),
		Dirty:    d.hasText,
		OnClosed: onClosed,
	})
	return d
}

func (d *AddCards) hasText() bool {
	return strings.TrimSpace(d.Front.Text) != "" || strings.TrimSpace(d.Back.Text) != ""
}

// EditCurrent vetoes closing while the text differs from what was loaded.
type EditCurrent struct {
	*Window
	Editor   *widget.Entry
	original string
}

func NewEditCurrent(a fyne.App, text string, onClosed func()) *EditCurrent {
	d := &EditCurrent{Editor: widget.NewMultiLineEntry(), original: text}
	d.Editor.SetText(text)

	save := widget.NewButton("Save", func() { d.original = d.Editor.Text })
	d.Window = NewWindow(a, container.NewBorder(nil, save, nil, nil, d.Editor), WindowOptions{
		Title:    "Edit Current",
		Size:     fyne.NewSize(480, 360),
		Dirty:    func() bool { return d.Editor.Text != d.original },
		OnClosed: onClosed,
	})
	return d
}

type Browser struct {
	*Window
	Search *widget.Entry
}

func NewBrowser(a fyne.App, query string, onClosed func()) *Browser {
	d := &Browser{Search: widget.NewEntry()}
	d.Search.SetPlaceHolder("Search")
	d.Search.SetText(query)

	d.Window = NewWindow(a, container.NewBorder(d.Search, nil, nil, nil, widget.NewLabel("No cards match.")), WindowOptions{
		Title:    "Browse",
		Size:     fyne.NewSize(720, 480),
		OnClosed: onClosed,
	})
	return d
}

type DeckStats struct {
	*Window
}

func NewDeckStats(a fyne.App, deck string, onClosed func()) *DeckStats {
	if deck == "" {
		deck = "all decks"
	}
	return &DeckStats{Window: NewWindow(a, widget.NewLabel("Statistics for "+deck), WindowOptions{
		Title:    "Statistics",
		Size:     fyne.NewSize(480, 360),
		OnClosed: onClosed,
	})}
}

type About struct {
	*Window
}

func NewAbout(a fyne.App, info AboutInfo, onClosed func()) *About {
	body := container.NewVBox(
		widget.NewLabelWithStyle(info.Name, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Version "+info.Version, fyne.TextAlignCenter, fyne.TextStyle{}),
	)
	if info.Website != "" {
		body.Add(widget.NewLabelWithStyle(info.Website, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}))
	}
	return &About{Window: NewWindow(a, body, WindowOptions{
		Title:    "About",
		OnClosed: onClosed,
	})}
}
