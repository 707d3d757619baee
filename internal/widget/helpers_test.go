package widget

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/slide-gallery/internal/slides"
)

type indexFunc func(ctx context.Context) (slides.SlideIndex, error)

func (f indexFunc) Load(ctx context.Context) (slides.SlideIndex, error) { return f(ctx) }

func staticIndex(index slides.SlideIndex) indexFunc {
	return func(context.Context) (slides.SlideIndex, error) { return index, nil }
}

func failingIndex() indexFunc {
	return func(context.Context) (slides.SlideIndex, error) {
		return nil, &slides.IndexLoadError{URL: "/slides/query-index.json", Err: errors.New("Failed to fetch")}
	}
}

// fragmentServer answers fragment requests from a map and records every
// requested path. Unknown paths get a 404.
type fragmentServer struct {
	mu     sync.Mutex
	bodies map[string]string
	calls  []string
	gate   chan struct{}
}

func (s *fragmentServer) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fragmentServer) do(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req.URL.Path)
	body, ok := s.bodies[req.URL.Path]
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}

	status := http.StatusOK
	if !ok {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func newFragments(t *testing.T, srv *fragmentServer) *slides.FragmentFetcher {
	t.Helper()
	up, err := slides.NewUpstream(slides.DoerFunc(srv.do), slides.UpstreamOptions{Origin: "http://slides.test"})
	if err != nil {
		t.Fatalf("NewUpstream: %v", err)
	}
	return slides.NewFragmentFetcher(up, nil)
}

func sampleIndex() slides.SlideIndex {
	return slides.SlideIndex{
		{Path: "/slide1", Title: "T1", Description: "D1", Image: "/i1.jpg"},
		{Path: "/slide2", Title: "T2", Description: "D2", Image: "/i2.jpg"},
		{Path: "/slide3", Title: "T3", Description: "D3", Image: "/i3.jpg"},
	}
}

// mountGallery mounts g and applies the index result.
func mountGallery(t *testing.T, g *Gallery) {
	t.Helper()
	cmd := g.Mount()
	if cmd == nil {
		t.Fatal("expected Mount to return the index fetch")
	}
	g.Update(Run(t.Context(), cmd))
}

func render(t *testing.T, g *Gallery) *html.Node {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	out, err := r.GalleryString(g)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse rendered markup: %v", err)
	}
	return doc
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func byClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		for _, c := range strings.Fields(attr(n, "class")) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func byRole(role string) func(*html.Node) bool {
	return func(n *html.Node) bool { return attr(n, "role") == role }
}

func isHeading(n *html.Node) bool {
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
