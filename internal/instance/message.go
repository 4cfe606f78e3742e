package instance

import "path/filepath"

// RaiseArg asks the owner to bring its main window to the front.
const RaiseArg = "raise"

type Source int

const (
	SourceChannel Source = iota
	SourceFileOpen
)

func (s Source) String() string {
	switch s {
	case SourceChannel:
		return "channel"
	case SourceFileOpen:
		return "file-open"
	default:
		return "unknown"
	}
}

// Message is one launch argument handed to the owner, either over the
// channel or by the OS file-open event.
type Message struct {
	Arg    string
	Source Source
}

func (m Message) IsRaise() bool {
	return m.Arg == RaiseArg
}

// RepresentativeArg picks the single argument forwarded to an owner: the
// first positional made absolute, or RaiseArg when it is missing or empty.
func RepresentativeArg(positional []string) string {
	if len(positional) == 0 || positional[0] == "" {
		return RaiseArg
	}
	abs, err := filepath.Abs(positional[0])
	if err != nil {
		return positional[0]
	}
	return abs
}
