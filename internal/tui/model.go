// Package tui browses a slide gallery in the terminal. It drives the same
// widget.Gallery as the web surface, with keys in place of clicks.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ziadkadry99/slide-gallery/internal/widget"
)

// Model is a bubbletea model wrapping one gallery.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	gallery *widget.Gallery
	md      *converter.Converter

	cursor int
	width  int
	height int

	// last converted panel body
	bodyFor string
	body    string
}

// New returns a model for an unmounted gallery. Fetches run under ctx.
func New(ctx context.Context, g *widget.Gallery) *Model {
	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		ctx:     ctx,
		cancel:  cancel,
		gallery: g,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		width: 80,
	}
}

// Gallery returns the wrapped gallery.
func (m *Model) Gallery() *widget.Gallery { return m.gallery }

// Cursor returns the position of the highlighted slide.
func (m *Model) Cursor() int { return m.cursor }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.wrap(m.gallery.Mount())
}

// wrap runs a widget command as a bubbletea command.
func (m *Model) wrap(cmd widget.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg { return cmd(ctx) }
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case widget.IndexLoadedMsg, widget.FragmentLoadedMsg:
		cmd := m.gallery.Update(msg)
		m.clampCursor()
		return m, m.wrap(cmd)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}

	if active := m.gallery.Active(); active != nil {
		switch key {
		case "esc", "q", "backspace":
			return m.wrap(m.gallery.Update(widget.CloseMsg{Path: active.Summary.Path, Source: widget.CloseEscape}))
		}
		return nil
	}

	items := m.gallery.Items()
	switch key {
	case "q", "esc":
		return m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		if len(items) > 0 {
			m.cursor = len(items) - 1
		}
	case "enter", " ":
		if m.cursor < len(items) {
			it := items[m.cursor]
			return m.wrap(m.gallery.Update(widget.ActivateMsg{Position: it.Position, Path: it.Summary.Path}))
		}
	case "r":
		return m.wrap(m.gallery.Update(widget.RetryMsg{}))
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.gallery.Unmount()
	m.cancel()
	return tea.Quit
}

func (m *Model) clampCursor() {
	if n := len(m.gallery.Items()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	state := m.gallery.State()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Slides"))
	b.WriteString("\n\n")

	switch state.Status() {
	case widget.StatusIdle, widget.StatusLoading:
		b.WriteString(dimStyle.Render("Loading..."))
		b.WriteString("\n")
	case widget.StatusFailure:
		b.WriteString(errorStyle.Render(state.Reason()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("r try again • q quit"))
	case widget.StatusSuccess:
		if active := m.gallery.Active(); active != nil {
			b.WriteString(m.panelView(active.Panel()))
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("esc close"))
			break
		}
		b.WriteString(m.listView())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ move • enter open • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) listView() string {
	items := m.gallery.Items()
	if len(items) == 0 {
		return dimStyle.Render("No slides.") + "\n"
	}
	var b strings.Builder
	for i, it := range items {
		marker, title := "  ", itemTitleStyle
		if i == m.cursor {
			marker, title = cursorStyle.Render("> "), selectedTitleStyle
		}
		b.WriteString(marker)
		b.WriteString(title.Render(it.Summary.Title))
		b.WriteString("\n")
		if it.Summary.Description != "" {
			b.WriteString("    ")
			b.WriteString(dimStyle.Render(it.Summary.Description))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) panelView(p *widget.Panel) string {
	var body string
	state := p.State()
	switch state.Status() {
	case widget.StatusIdle, widget.StatusLoading:
		body = dimStyle.Render("Loading...")
	case widget.StatusFailure:
		body = errorStyle.Render(state.Reason())
	case widget.StatusSuccess:
		html, _ := state.Value()
		body = m.markdown(p.LabelID(), html.String())
	}

	content := panelTitleStyle.Render(p.Summary().Title) + "\n\n" + body
	return panelStyle.Width(max(m.width-4, 20)).Render(content)
}

// markdown converts a fragment for terminal display, reusing the last
// conversion for the same panel.
func (m *Model) markdown(key, html string) string {
	if m.bodyFor == key {
		return m.body
	}
	md, err := m.md.ConvertString(html)
	if err != nil {
		md = fmt.Sprintf("(could not display slide: %v)", err)
	}
	m.bodyFor, m.body = key, strings.TrimSpace(md)
	return m.body
}
