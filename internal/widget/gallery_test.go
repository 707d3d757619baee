package widget

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/slide-gallery/internal/slides"
)

func TestGalleryStartsLoading(t *testing.T) {
	g := NewGallery(staticIndex(sampleIndex()), nil, nil)
	if g.State().Status() != StatusLoading {
		t.Fatalf("expected initial state loading, got %s", g.State().Status())
	}

	doc := render(t, g)
	if n := len(findAll(doc, byRole("status"))); n != 1 {
		t.Errorf("expected exactly 1 loading indicator, got %d", n)
	}
	if n := len(findAll(doc, byClass("slide-builder-item"))); n != 0 {
		t.Errorf("expected no slide items while loading, got %d", n)
	}
	if n := len(findAll(doc, byRole("alert"))); n != 0 {
		t.Errorf("expected no error while loading, got %d", n)
	}
}

func TestGalleryMountFetchesOnce(t *testing.T) {
	calls := 0
	g := NewGallery(indexFunc(func(context.Context) (slides.SlideIndex, error) {
		calls++
		return sampleIndex(), nil
	}), nil, nil)

	cmd := g.Mount()
	if g.Mount() != nil {
		t.Error("expected second Mount to return nil")
	}
	g.Update(Run(t.Context(), cmd))

	if g.Mount() != nil {
		t.Error("expected Mount after load to return nil")
	}
	if calls != 1 {
		t.Errorf("expected 1 index fetch, got %d", calls)
	}
}

func TestGalleryRendersItemsInIndexOrder(t *testing.T) {
	g := NewGallery(staticIndex(sampleIndex()), nil, nil)
	mountGallery(t, g)

	if g.State().Status() != StatusSuccess {
		t.Fatalf("expected success, got %s", g.State().Status())
	}

	doc := render(t, g)
	items := findAll(doc, byClass("slide-builder-item"))
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range sampleIndex() {
		if got := attr(items[i], "data-path"); got != want.Path {
			t.Errorf("item %d: path %q, want %q", i, got, want.Path)
		}
		text := textOf(items[i])
		if !strings.Contains(text, want.Title) || !strings.Contains(text, want.Description) {
			t.Errorf("item %d: text %q missing title/description", i, text)
		}
		imgs := findAll(items[i], func(n *html.Node) bool { return n.Data == "img" })
		if len(imgs) != 1 || attr(imgs[0], "src") != want.Image {
			t.Errorf("item %d: expected thumbnail %q", i, want.Image)
		}
	}
	if n := len(findAll(doc, byRole("status"))); n != 0 {
		t.Errorf("expected no loading indicator after load, got %d", n)
	}
}

func TestGalleryEmptyIndexRendersNothing(t *testing.T) {
	g := NewGallery(staticIndex(slides.SlideIndex{}), nil, nil)
	mountGallery(t, g)

	doc := render(t, g)
	if n := len(findAll(doc, byClass("slide-builder-item"))); n != 0 {
		t.Errorf("expected no items, got %d", n)
	}
	if n := len(findAll(doc, isHeading)); n != 0 {
		t.Errorf("expected no heading, got %d", n)
	}
	if n := len(findAll(doc, byRole("alert"))) + len(findAll(doc, byRole("status"))); n != 0 {
		t.Errorf("expected no status or error message, got %d", n)
	}
}

func TestGalleryIndexFailure(t *testing.T) {
	statusUpstream, _ := slides.NewUpstream(slides.DoerFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusServiceUnavailable, Body: io.NopCloser(strings.NewReader("")), Request: req}, nil
	}), slides.UpstreamOptions{Origin: "http://slides.test"})

	loaders := map[string]IndexLoader{
		"rejected":   failingIndex(),
		"bad status": slides.NewIndexFetcher(statusUpstream, "", ""),
	}
	for name, loader := range loaders {
		t.Run(name, func(t *testing.T) {
			g := NewGallery(loader, nil, nil)
			mountGallery(t, g)

			if g.State().Status() != StatusFailure {
				t.Fatalf("expected failure, got %s", g.State().Status())
			}
			var loadErr *slides.IndexLoadError
			if !errors.As(g.State().Err(), &loadErr) {
				t.Errorf("expected IndexLoadError cause, got %v", g.State().Err())
			}

			doc := render(t, g)
			alerts := findAll(doc, byRole("alert"))
			if len(alerts) != 1 {
				t.Fatalf("expected exactly 1 error message, got %d", len(alerts))
			}
			if !strings.Contains(strings.ToLower(textOf(alerts[0])), "failed to fetch slides") {
				t.Errorf("unexpected error text %q", textOf(alerts[0]))
			}
			if n := len(findAll(doc, byClass("slide-builder-item"))); n != 0 {
				t.Errorf("expected zero items, got %d", n)
			}
		})
	}
}

func TestGallerySettledStateIsFinal(t *testing.T) {
	results := []error{nil, errors.New("late failure")}
	g := NewGallery(indexFunc(func(context.Context) (slides.SlideIndex, error) {
		err := results[0]
		results = results[1:]
		if err != nil {
			return nil, err
		}
		return sampleIndex(), nil
	}), nil, nil)

	cmd := g.Mount()
	first := Run(t.Context(), cmd)
	second := Run(t.Context(), cmd)

	g.Update(first)
	g.Update(second)

	if g.State().Status() != StatusSuccess {
		t.Errorf("expected success to survive a later result, got %s", g.State().Status())
	}
	if len(g.Items()) != 3 {
		t.Errorf("expected 3 items, got %d", len(g.Items()))
	}
}

func TestGalleryIgnoresResultAfterUnmount(t *testing.T) {
	g := NewGallery(staticIndex(sampleIndex()), nil, nil)
	cmd := g.Mount()
	msg := Run(t.Context(), cmd)

	g.Unmount()
	g.Update(msg)

	if g.State().Status() != StatusLoading {
		t.Errorf("expected result after unmount to be dropped, got %s", g.State().Status())
	}
	if g.Mount() != nil {
		t.Error("expected Mount after Unmount to return nil")
	}
}

func TestActivateFetchesFragmentOnce(t *testing.T) {
	srv := &fragmentServer{bodies: map[string]string{"/slide2": "<p>Second</p>"}}
	g := NewGallery(staticIndex(sampleIndex()), newFragments(t, srv), nil)
	mountGallery(t, g)

	cmd := g.Update(ActivateMsg{Position: 1, Path: "/slide2"})
	if cmd == nil {
		t.Fatal("expected activation to start a fragment fetch")
	}
	if g.Update(ActivateMsg{Position: 1, Path: "/slide2"}) != nil {
		t.Error("expected activating an open item to do nothing")
	}

	active := g.Active()
	if active == nil || active.Summary.Path != "/slide2" {
		t.Fatalf("expected /slide2 active, got %+v", active)
	}
	if active.Panel().State().Status() != StatusLoading {
		t.Errorf("expected panel loading, got %s", active.Panel().State().Status())
	}

	g.Update(Run(t.Context(), cmd))

	if calls := srv.Calls(); len(calls) != 1 || calls[0] != "/slide2" {
		t.Errorf("expected exactly one request for /slide2, got %v", calls)
	}

	doc := render(t, g)
	dialogs := findAll(doc, byRole("dialog"))
	if len(dialogs) != 1 {
		t.Fatalf("expected 1 dialog, got %d", len(dialogs))
	}
	if !strings.Contains(textOf(dialogs[0]), "Second") {
		t.Errorf("expected fragment in panel, got %q", textOf(dialogs[0]))
	}
}

func TestActivateUnknownOrBeforeLoad(t *testing.T) {
	srv := &fragmentServer{}
	g := NewGallery(staticIndex(sampleIndex()), newFragments(t, srv), nil)
	cmd := g.Mount()

	if g.Update(ActivateMsg{Position: 0, Path: "/slide1"}) != nil {
		t.Error("expected activation while loading to be ignored")
	}
	g.Update(Run(t.Context(), cmd))

	if g.Update(ActivateMsg{Position: 0, Path: "/missing"}) != nil {
		t.Error("expected activation of unknown path to be ignored")
	}
	if g.Update(ActivateMsg{Position: 7, Path: "/slide3"}) == nil {
		t.Error("expected fallback lookup by path")
	}
	if g.Active().Position != 2 {
		t.Errorf("expected item 2 active, got %d", g.Active().Position)
	}
}

func TestCloseRemovesPanel(t *testing.T) {
	for _, source := range []CloseSource{CloseButton, CloseBackdrop, CloseEscape} {
		t.Run(string(source), func(t *testing.T) {
			srv := &fragmentServer{bodies: map[string]string{"/slide1": "<p>X</p>"}}
			g := NewGallery(staticIndex(sampleIndex()), newFragments(t, srv), nil)
			mountGallery(t, g)

			g.Update(Run(t.Context(), g.Update(ActivateMsg{Position: 0, Path: "/slide1"})))
			item := g.Active()

			g.Update(CloseMsg{Path: "/slide1", Source: source})

			if g.Active() != nil || item.Open() {
				t.Fatal("expected panel removed after close")
			}
			doc := render(t, g)
			if n := len(findAll(doc, byRole("dialog"))); n != 0 {
				t.Errorf("expected no dialog, got %d", n)
			}
			if n := len(findAll(doc, byClass("slide-builder-item"))); n != 3 {
				t.Errorf("expected gallery intact, got %d items", n)
			}
		})
	}
}

func TestReopenIssuesFreshFetch(t *testing.T) {
	srv := &fragmentServer{bodies: map[string]string{"/slide1": "<p>X</p>"}}
	g := NewGallery(staticIndex(sampleIndex()), newFragments(t, srv), nil)
	mountGallery(t, g)

	firstCmd := g.Update(ActivateMsg{Position: 0, Path: "/slide1"})
	staleMsg := Run(t.Context(), firstCmd)
	g.Update(CloseMsg{Path: "/slide1", Source: CloseButton})

	secondCmd := g.Update(ActivateMsg{Position: 0, Path: "/slide1"})
	if secondCmd == nil {
		t.Fatal("expected reopen to start a new fetch")
	}

	g.Update(staleMsg)
	if st := g.Active().Panel().State().Status(); st != StatusLoading {
		t.Errorf("expected stale result dropped and panel still loading, got %s", st)
	}

	g.Update(Run(t.Context(), secondCmd))
	if st := g.Active().Panel().State().Status(); st != StatusSuccess {
		t.Errorf("expected fresh result applied, got %s", st)
	}
	if calls := srv.Calls(); len(calls) != 2 {
		t.Errorf("expected 2 fragment requests, got %v", calls)
	}
}

func TestOnePanelOpenAtATime(t *testing.T) {
	srv := &fragmentServer{bodies: map[string]string{"/slide1": "<p>One</p>", "/slide2": "<p>Two</p>"}}
	g := NewGallery(staticIndex(sampleIndex()), newFragments(t, srv), nil)
	mountGallery(t, g)

	firstCmd := g.Update(ActivateMsg{Position: 0, Path: "/slide1"})
	first := g.Active()
	secondCmd := g.Update(ActivateMsg{Position: 1, Path: "/slide2"})

	if first.Open() {
		t.Error("expected first panel closed when second opens")
	}
	if g.Active() == nil || g.Active().Summary.Path != "/slide2" {
		t.Fatal("expected /slide2 active")
	}

	g.Update(Run(t.Context(), firstCmd))
	g.Update(Run(t.Context(), secondCmd))

	doc := render(t, g)
	dialogs := findAll(doc, byRole("dialog"))
	if len(dialogs) != 1 {
		t.Fatalf("expected 1 dialog, got %d", len(dialogs))
	}
	text := textOf(dialogs[0])
	if !strings.Contains(text, "Two") || strings.Contains(text, "One") {
		t.Errorf("expected only the second fragment, got %q", text)
	}
}

func TestFragmentFailureKeepsCloseAffordance(t *testing.T) {
	srv := &fragmentServer{}
	g := NewGallery(staticIndex(sampleIndex()), newFragments(t, srv), nil)
	mountGallery(t, g)

	g.Update(Run(t.Context(), g.Update(ActivateMsg{Position: 0, Path: "/slide1"})))

	state := g.Active().Panel().State()
	if state.Status() != StatusFailure {
		t.Fatalf("expected panel failure, got %s", state.Status())
	}
	var loadErr *slides.FragmentLoadError
	if !errors.As(state.Err(), &loadErr) || loadErr.Status != http.StatusNotFound {
		t.Errorf("expected FragmentLoadError 404, got %v", state.Err())
	}

	doc := render(t, g)
	dialog := findAll(doc, byRole("dialog"))
	if len(dialog) != 1 {
		t.Fatalf("expected 1 dialog, got %d", len(dialog))
	}
	if n := len(findAll(dialog[0], byClass("slide-panel-close"))); n != 1 {
		t.Errorf("expected close control on failed panel, got %d", n)
	}
	if n := len(findAll(doc, byClass("slide-builder-item"))); n != 3 {
		t.Errorf("expected gallery unaffected, got %d items", n)
	}
}

func TestRetryAfterFailure(t *testing.T) {
	fail := true
	g := NewGallery(indexFunc(func(context.Context) (slides.SlideIndex, error) {
		if fail {
			return nil, errors.New("offline")
		}
		return sampleIndex(), nil
	}), nil, nil)
	mountGallery(t, g)

	if g.State().Status() != StatusFailure {
		t.Fatalf("expected failure, got %s", g.State().Status())
	}
	doc := render(t, g)
	if n := len(findAll(doc, byClass("slide-retry"))); n != 1 {
		t.Errorf("expected retry control, got %d", n)
	}

	fail = false
	cmd := g.Update(RetryMsg{})
	if cmd == nil {
		t.Fatal("expected retry to start a fetch")
	}
	if g.State().Status() != StatusLoading {
		t.Errorf("expected loading during retry, got %s", g.State().Status())
	}
	g.Update(Run(t.Context(), cmd))
	if g.State().Status() != StatusSuccess {
		t.Errorf("expected success after retry, got %s", g.State().Status())
	}

	if g.Update(RetryMsg{}) != nil {
		t.Error("expected retry to be ignored once loaded")
	}
}

func TestExampleScenario(t *testing.T) {
	index := slides.SlideIndex{{Path: "/slide1", Title: "T1", Description: "D1", Image: "/i1.jpg"}}
	srv := &fragmentServer{bodies: map[string]string{"/slide1": "<p>X</p>"}}
	g := NewGallery(staticIndex(index), newFragments(t, srv), nil)
	mountGallery(t, g)

	doc := render(t, g)
	items := findAll(doc, byClass("slide-builder-item"))
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if text := textOf(items[0]); !strings.Contains(text, "T1") || !strings.Contains(text, "D1") {
		t.Errorf("expected T1 and D1, got %q", text)
	}

	g.Update(Run(t.Context(), g.Update(ActivateMsg{Position: 0, Path: "/slide1"})))

	doc = render(t, g)
	dialogs := findAll(doc, byRole("dialog"))
	if len(dialogs) != 1 {
		t.Fatalf("expected 1 dialog, got %d", len(dialogs))
	}
	dialog := dialogs[0]
	if attr(dialog, "aria-modal") != "true" {
		t.Error("expected aria-modal=true")
	}
	labelID := attr(dialog, "aria-labelledby")
	labels := findAll(dialog, func(n *html.Node) bool { return attr(n, "id") == labelID })
	if labelID == "" || len(labels) != 1 || textOf(labels[0]) != "T1" {
		t.Errorf("expected dialog labelled by the slide title, id %q", labelID)
	}
	body := findAll(dialog, byClass("slide-panel-body"))
	if len(body) != 1 || textOf(body[0]) != "X" {
		t.Errorf("expected body X, got %v", body)
	}
	closeButtons := findAll(dialog, func(n *html.Node) bool { return attr(n, "aria-label") == "Close panel" })
	if len(closeButtons) != 1 || closeButtons[0].Data != "button" {
		t.Errorf("expected one labelled close button, got %d", len(closeButtons))
	}
}
