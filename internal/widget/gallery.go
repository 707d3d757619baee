package widget

import (
	"context"
	"log/slog"

	"github.com/ziadkadry99/slide-gallery/internal/slides"
)

// IndexFailureMessage replaces the gallery when the index cannot be loaded.
const IndexFailureMessage = "Failed to fetch slides. Please try again later."

// Gallery is the top-level widget. It owns the index lifecycle, one Item per
// summary, and the policy that at most one panel is open at a time.
//
// A Gallery is not safe for concurrent use; it is driven from one event
// loop (Session, or a bubbletea program).
type Gallery struct {
	index     IndexLoader
	fragments FragmentLoader
	logger    *slog.Logger

	state  FetchState[slides.SlideIndex]
	items  []*Item
	active *Item

	gen       uint64
	tokens    uint64
	version   uint64
	started   bool
	mounted   bool
	unmounted bool
}

// NewGallery returns a gallery in the Loading state.
func NewGallery(index IndexLoader, fragments FragmentLoader, logger *slog.Logger) *Gallery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gallery{
		index:     index,
		fragments: fragments,
		logger:    logger,
		state:     Loading[slides.SlideIndex](),
	}
}

// Mount returns the index fetch. Only the first call starts a fetch.
func (g *Gallery) Mount() Cmd {
	if g.started || g.unmounted {
		return nil
	}
	g.started = true
	g.mounted = true
	return g.loadIndex()
}

// Unmount closes any open panel. Every later message is ignored.
func (g *Gallery) Unmount() {
	if !g.mounted {
		return
	}
	if g.active != nil {
		g.active.dismiss()
		g.active = nil
	}
	g.mounted = false
	g.unmounted = true
	g.version++
}

// Mounted reports whether the gallery accepts messages.
func (g *Gallery) Mounted() bool { return g.mounted }

func (g *Gallery) State() FetchState[slides.SlideIndex] { return g.state }

// Items returns the items in index order.
func (g *Gallery) Items() []*Item { return g.items }

// Active returns the item whose panel is open, or nil.
func (g *Gallery) Active() *Item { return g.active }

// Version increases every time a message changes what would be rendered.
func (g *Gallery) Version() uint64 { return g.version }

// Update applies msg and returns any follow-up work.
func (g *Gallery) Update(msg Msg) Cmd {
	if !g.mounted {
		g.logger.Debug("gallery: message after unmount dropped", "msg", msgName(msg))
		return nil
	}

	switch m := msg.(type) {
	case IndexLoadedMsg:
		g.applyIndex(m)
	case ActivateMsg:
		return g.activate(m)
	case CloseMsg:
		g.close(m)
	case FragmentLoadedMsg:
		g.applyFragment(m)
	case RetryMsg:
		if g.state.Status() != StatusFailure {
			return nil
		}
		g.logger.Info("gallery: retrying index load")
		cmd := g.loadIndex()
		g.version++
		return cmd
	}
	return nil
}

func (g *Gallery) loadIndex() Cmd {
	g.gen++
	gen := g.gen
	g.state = Loading[slides.SlideIndex]()

	loader := g.index
	return func(ctx context.Context) Msg {
		index, err := loader.Load(ctx)
		return IndexLoadedMsg{Index: index, Err: err, gen: gen}
	}
}

func (g *Gallery) applyIndex(m IndexLoadedMsg) {
	if m.gen != g.gen || g.state.Settled() {
		g.logger.Debug("gallery: stale index result dropped")
		return
	}

	if m.Err != nil {
		g.logger.Warn("gallery: index load failed", "error", m.Err)
		g.state = Failed[slides.SlideIndex](IndexFailureMessage, m.Err)
		g.items = nil
		g.version++
		return
	}

	index := m.Index
	if index == nil {
		index = slides.SlideIndex{}
	}
	g.state = Succeeded(index)
	g.items = make([]*Item, len(index))
	for i, summary := range index {
		g.items[i] = &Item{Summary: summary, Position: i}
	}
	g.version++
}

func (g *Gallery) activate(m ActivateMsg) Cmd {
	if g.state.Status() != StatusSuccess {
		return nil
	}

	item := g.find(m)
	if item == nil {
		g.logger.Debug("gallery: activate for unknown slide", "path", m.Path, "position", m.Position)
		return nil
	}
	if item.Open() {
		return nil
	}

	if g.active != nil {
		g.active.dismiss()
	}

	g.tokens++
	cmd := item.activate(g.tokens, g.fragments)
	g.active = item
	g.version++
	return cmd
}

func (g *Gallery) find(m ActivateMsg) *Item {
	if m.Position >= 0 && m.Position < len(g.items) && g.items[m.Position].Summary.Path == m.Path {
		return g.items[m.Position]
	}
	for _, it := range g.items {
		if it.Summary.Path == m.Path {
			return it
		}
	}
	return nil
}

func (g *Gallery) close(m CloseMsg) {
	if g.active == nil || g.active.panel == nil || g.active.Summary.Path != m.Path {
		return
	}
	if g.active.panel.Close(m.Source) {
		g.logger.Debug("gallery: panel closed", "path", m.Path, "source", string(m.Source))
		g.active = nil
		g.version++
	}
}

func (g *Gallery) applyFragment(m FragmentLoadedMsg) {
	if g.active == nil || g.active.panel == nil || !g.active.panel.Apply(m) {
		g.logger.Debug("gallery: stale fragment result dropped", "path", m.Path)
		return
	}
	if m.Err != nil {
		g.logger.Warn("gallery: fragment load failed", "path", m.Path, "error", m.Err)
	}
	g.version++
}

func msgName(msg Msg) string {
	switch msg.(type) {
	case IndexLoadedMsg:
		return "index_loaded"
	case FragmentLoadedMsg:
		return "fragment_loaded"
	case ActivateMsg:
		return "activate"
	case CloseMsg:
		return "close"
	case RetryMsg:
		return "retry"
	default:
		return "unknown"
	}
}
