package webui

import (
	"embed"
	"net/http"
)

//go:embed static
var staticFS embed.FS

type hostPage struct {
	MountID string
}

// ServeHost serves a minimal host page with the widget's container element.
func (h *Handler) ServeHost(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.host.Execute(w, hostPage{MountID: h.mountID}); err != nil {
		h.logger.Error("webui: rendering host page", "error", err)
	}
}

func (h *Handler) serveAsset(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := staticFS.ReadFile(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	}
}
