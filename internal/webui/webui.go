package webui

import (
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/slide-gallery/internal/widget"
)

// Options configures the widget's HTTP surface.
type Options struct {
	Index     widget.IndexLoader
	Fragments widget.FragmentLoader
	// Allow lists doublestar patterns a stateless panel request's path
	// must match. Empty allows nothing.
	Allow   []string
	MountID string
	// AllowedOrigins lists origins, with optional wildcards, that may open
	// live sessions in addition to the serving host. AllowAll admits any.
	AllowedOrigins []string
	AllowAll       bool
	Logger         *slog.Logger
}

// Handler serves the host page, widget assets, server-rendered gallery and
// panel markup, and live widget sessions.
type Handler struct {
	index     widget.IndexLoader
	fragments widget.FragmentLoader
	allow     []string
	mountID   string
	logger    *slog.Logger
	renderer  *widget.Renderer
	host      *template.Template
	upgrader  websocket.Upgrader

	origins  []string
	allowAll bool
}

// New creates a Handler.
func New(opts Options) (*Handler, error) {
	if opts.Index == nil || opts.Fragments == nil {
		return nil, fmt.Errorf("webui: index and fragment loaders are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := widget.NewRenderer()
	if err != nil {
		return nil, err
	}
	host, err := template.ParseFS(staticFS, "static/host.html")
	if err != nil {
		return nil, fmt.Errorf("webui: parsing host page: %w", err)
	}

	mountID := opts.MountID
	if mountID == "" {
		mountID = "slide-gallery-app"
	}

	h := &Handler{
		index:     opts.Index,
		fragments: opts.Fragments,
		allow:     opts.Allow,
		mountID:   mountID,
		logger:    logger,
		renderer:  renderer,
		host:      host,
		origins:   opts.AllowedOrigins,
		allowAll:  opts.AllowAll,
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h, nil
}

// RegisterRoutes mounts all widget routes onto the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ServeHost)
	r.Get("/widget.js", h.serveAsset("static/widget.js", "text/javascript; charset=utf-8"))
	r.Get("/widget.css", h.serveAsset("static/widget.css", "text/css; charset=utf-8"))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/widget", h.ServeGallery)
		r.Get("/widget/panel", h.ServePanel)
	})

	r.Get("/ws/widget", h.handleWebSocket)
}
