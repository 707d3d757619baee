package widget

import (
	"context"

	"github.com/google/uuid"

	"github.com/ziadkadry99/slide-gallery/internal/slides"
)

// FragmentFailureMessage is shown in a panel whose fragment could not be loaded.
const FragmentFailureMessage = "This slide could not be loaded."

// Panel is the detail overlay for one slide. Its fragment state lives only
// as long as the panel is mounted.
type Panel struct {
	summary slides.SlideSummary
	labelID string
	token   uint64
	state   FetchState[slides.SanitizedHTML]
	mounted bool
	closed  bool
	onClose func(CloseSource)
}

// NewPanel returns an unmounted panel for summary. onClose is invoked once,
// when the panel is dismissed through Close.
func NewPanel(summary slides.SlideSummary, token uint64, onClose func(CloseSource)) *Panel {
	return &Panel{
		summary: summary,
		labelID: "slide-panel-title-" + uuid.NewString()[:8],
		token:   token,
		state:   Idle[slides.SanitizedHTML](),
		onClose: onClose,
	}
}

func (p *Panel) Summary() slides.SlideSummary { return p.summary }

func (p *Panel) Path() string { return p.summary.Path }

// LabelID is the id of the element that labels the dialog.
func (p *Panel) LabelID() string { return p.labelID }

func (p *Panel) State() FetchState[slides.SanitizedHTML] { return p.state }

func (p *Panel) Mounted() bool { return p.mounted }

// Mount enters Loading and returns the fragment fetch for the panel's path.
// Mounting twice, or after close, returns nil.
func (p *Panel) Mount(loader FragmentLoader) Cmd {
	if p.mounted || p.closed {
		return nil
	}
	p.mounted = true
	p.state = Loading[slides.SanitizedHTML]()

	path, token := p.summary.Path, p.token
	return func(ctx context.Context) Msg {
		html, err := loader.Load(ctx, path)
		return FragmentLoadedMsg{Path: path, HTML: html, Err: err, token: token}
	}
}

// Apply stores a fetch result. Results for another mount, for an unmounted
// panel, or arriving after the state settled are rejected.
func (p *Panel) Apply(msg FragmentLoadedMsg) bool {
	if !p.mounted || msg.token != p.token || p.state.Settled() {
		return false
	}
	if msg.Err != nil {
		p.state = Failed[slides.SanitizedHTML](FragmentFailureMessage, msg.Err)
	} else {
		p.state = Succeeded(msg.HTML)
	}
	return true
}

// Close dismisses the panel and invokes the close callback. Only the first
// call has any effect.
func (p *Panel) Close(source CloseSource) bool {
	if p.closed {
		return false
	}
	p.unmount()
	if p.onClose != nil {
		p.onClose(source)
	}
	return true
}

// unmount drops the panel without reporting a dismissal.
func (p *Panel) unmount() {
	p.closed = true
	p.mounted = false
	p.state = Idle[slides.SanitizedHTML]()
}
