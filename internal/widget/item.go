package widget

import "github.com/ziadkadry99/slide-gallery/internal/slides"

// Item is one rendered summary. It owns the visibility of its panel; it
// never fetches anything itself.
type Item struct {
	Summary  slides.SlideSummary
	Position int

	panel *Panel
}

// Open reports whether the item's panel is showing.
func (it *Item) Open() bool { return it.panel != nil }

// Panel returns the open panel, or nil.
func (it *Item) Panel() *Panel { return it.panel }

// activate mounts a fresh panel and returns its fragment fetch. An item
// that is already open returns nil.
func (it *Item) activate(token uint64, loader FragmentLoader) Cmd {
	if it.panel != nil {
		return nil
	}
	it.panel = NewPanel(it.Summary, token, it.onPanelClose)
	return it.panel.Mount(loader)
}

// onPanelClose is the callback handed to the panel.
func (it *Item) onPanelClose(CloseSource) {
	it.panel = nil
}

// dismiss removes the panel without going through its close affordance.
func (it *Item) dismiss() {
	if it.panel == nil {
		return
	}
	it.panel.unmount()
	it.panel = nil
}
