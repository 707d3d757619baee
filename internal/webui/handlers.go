package webui

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/slide-gallery/internal/slides"
	"github.com/ziadkadry99/slide-gallery/internal/widget"
)

// ServeGallery mounts a gallery for the request, waits for the index and
// writes the settled markup. Index failures are rendered, not returned as
// an HTTP error.
func (h *Handler) ServeGallery(w http.ResponseWriter, r *http.Request) {
	g := widget.NewGallery(h.index, h.fragments, h.logger)
	defer g.Unmount()
	g.Update(widget.Run(r.Context(), g.Mount()))

	var buf bytes.Buffer
	if err := h.renderer.Gallery(&buf, g); err != nil {
		h.logger.Error("webui: rendering gallery", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "rendering failed"})
		return
	}
	writeHTML(w, buf.Bytes())
}

// ServePanel renders the panel for the slide at ?path=, with its fragment
// loaded. ?title= labels the dialog.
func (h *Handler) ServePanel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref := q.Get("path")
	clean, err := panelPath(ref)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !h.allowed(clean) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "path not allowed: " + clean})
		return
	}

	panel := widget.NewPanel(slides.SlideSummary{Path: ref, Title: q.Get("title")}, 1, nil)
	if msg, ok := widget.Run(r.Context(), panel.Mount(h.fragments)).(widget.FragmentLoadedMsg); ok {
		panel.Apply(msg)
	}

	var buf bytes.Buffer
	if err := h.renderer.Panel(&buf, panel); err != nil {
		h.logger.Error("webui: rendering panel", "path", ref, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "rendering failed"})
		return
	}
	writeHTML(w, buf.Bytes())
}

type badPath string

func (e badPath) Error() string { return string(e) }

// panelPath checks that ref is an origin-relative path and returns its
// cleaned form for matching.
func panelPath(ref string) (string, error) {
	if ref == "" {
		return "", badPath("path is required")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", badPath("invalid path: " + err.Error())
	}
	if u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "", badPath("path must be relative to the origin and start with /")
	}
	return path.Clean(u.Path), nil
}

func (h *Handler) allowed(p string) bool {
	for _, pattern := range h.allow {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
