package widget

import (
	"context"

	"github.com/ziadkadry99/slide-gallery/internal/slides"
)

// Msg is an event applied to the gallery by Update: a fetch result or a
// user interaction.
type Msg any

// Cmd is deferred work, usually a fetch, whose result is fed back to Update.
type Cmd func(ctx context.Context) Msg

// IndexLoader loads the slide index.
type IndexLoader interface {
	Load(ctx context.Context) (slides.SlideIndex, error)
}

// FragmentLoader loads the detail markup for a slide path.
type FragmentLoader interface {
	Load(ctx context.Context, path string) (slides.SanitizedHTML, error)
}

// IndexLoadedMsg carries the result of an index fetch.
type IndexLoadedMsg struct {
	Index slides.SlideIndex
	Err   error

	gen uint64
}

// FragmentLoadedMsg carries the result of a panel's fragment fetch.
type FragmentLoadedMsg struct {
	Path string
	HTML slides.SanitizedHTML
	Err  error

	token uint64
}

// ActivateMsg opens the panel of the item at Position. Path must match the
// item's path; when it does not, the first item with Path is used.
type ActivateMsg struct {
	Position int
	Path     string
}

// CloseSource says which affordance dismissed a panel.
type CloseSource string

const (
	CloseButton   CloseSource = "button"
	CloseBackdrop CloseSource = "backdrop"
	CloseEscape   CloseSource = "escape"
)

// Valid reports whether s is a known close source.
func (s CloseSource) Valid() bool {
	switch s {
	case CloseButton, CloseBackdrop, CloseEscape:
		return true
	}
	return false
}

// CloseMsg dismisses the panel for Path.
type CloseMsg struct {
	Path   string
	Source CloseSource
}

// RetryMsg asks a failed gallery to load the index again.
type RetryMsg struct{}

// Run executes cmd synchronously. A nil cmd yields a nil Msg.
func Run(ctx context.Context, cmd Cmd) Msg {
	if cmd == nil {
		return nil
	}
	return cmd(ctx)
}
