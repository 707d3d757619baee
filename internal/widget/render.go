package widget

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer writes gallery and panel markup.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing widget templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

type galleryView struct {
	Status   string
	Loading  bool
	Failed   bool
	Message  string
	CanRetry bool
	Items    []itemView
	Panel    *panelView
}

type itemView struct {
	Position    int
	Path        string
	Title       string
	Description string
	Image       string
	Open        bool
}

type panelView struct {
	Path    string
	Title   string
	LabelID string
	Loading bool
	Failed  bool
	Message string
	Body    template.HTML
}

// Gallery writes the markup for g in its current state.
func (r *Renderer) Gallery(w io.Writer, g *Gallery) error {
	return r.tmpl.ExecuteTemplate(w, "gallery", newGalleryView(g))
}

// Panel writes the markup for a single panel.
func (r *Renderer) Panel(w io.Writer, p *Panel) error {
	return r.tmpl.ExecuteTemplate(w, "panel", newPanelView(p))
}

// GalleryString renders g to a string.
func (r *Renderer) GalleryString(g *Gallery) (string, error) {
	var buf bytes.Buffer
	if err := r.Gallery(&buf, g); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func newGalleryView(g *Gallery) galleryView {
	state := g.State()
	v := galleryView{Status: state.Status().String()}

	switch state.Status() {
	case StatusIdle, StatusLoading:
		v.Loading = true
	case StatusFailure:
		v.Failed = true
		v.Message = state.Reason()
		v.CanRetry = g.Mounted()
	case StatusSuccess:
		v.Items = make([]itemView, len(g.Items()))
		for i, it := range g.Items() {
			v.Items[i] = itemView{
				Position:    it.Position,
				Path:        it.Summary.Path,
				Title:       it.Summary.Title,
				Description: it.Summary.Description,
				Image:       it.Summary.Image,
				Open:        it.Open(),
			}
		}
		if active := g.Active(); active != nil && active.Panel() != nil {
			pv := newPanelView(active.Panel())
			v.Panel = &pv
		}
	}
	return v
}

func newPanelView(p *Panel) panelView {
	state := p.State()
	v := panelView{
		Path:    p.Path(),
		Title:   p.Summary().Title,
		LabelID: p.LabelID(),
	}
	switch state.Status() {
	case StatusIdle, StatusLoading:
		v.Loading = true
	case StatusFailure:
		v.Failed = true
		v.Message = state.Reason()
	case StatusSuccess:
		html, _ := state.Value()
		// Fragment markup has passed the sanitizer in the fetcher.
		v.Body = template.HTML(html.String())
	}
	return v
}
