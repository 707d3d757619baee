package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/slide-gallery/internal/widget"
)

// clientEvent is the incoming WebSocket message format.
type clientEvent struct {
	Type   string `json:"type"` // "open", "close" or "retry"
	Index  int    `json:"index"`
	Path   string `json:"path"`
	Source string `json:"source"`
}

// serverEvent is the outgoing WebSocket message format.
type serverEvent struct {
	Type    string `json:"type"` // "render" or "error"
	Session string `json:"session"`
	HTML    string `json:"html,omitempty"`
	Content string `json:"content,omitempty"`
}

// liveConn serializes writes from the session loop and the read loop.
type liveConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
	id   string
}

func (c *liveConn) send(ev serverEvent) error {
	ev.Session = c.id
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(ev)
}

func (c *liveConn) sendError(content string) {
	c.send(serverEvent{Type: "error", Content: content})
}

// handleWebSocket runs one gallery session per connection. Every state
// change is pushed to the client as a full re-render.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("webui: websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	lc := &liveConn{conn: conn, id: uuid.NewString()}
	logger := h.logger.With("session", lc.id)
	session := widget.NewSession(widget.NewGallery(h.index, h.fragments, logger), logger)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		err := session.Run(ctx, func(g *widget.Gallery) error {
			markup, err := h.renderer.GalleryString(g)
			if err != nil {
				return err
			}
			return lc.send(serverEvent{Type: "render", HTML: markup})
		})
		if err != nil {
			logger.Warn("webui: session ended", "error", err)
			// Unblock the read loop.
			conn.Close()
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("webui: websocket read", "error", err)
			}
			break
		}

		var ev clientEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			lc.sendError("invalid message format")
			continue
		}
		msg, err := ev.msg()
		if err != nil {
			lc.sendError(err.Error())
			continue
		}
		if !session.Dispatch(msg) {
			break
		}
	}

	cancel()
	<-session.Done()
}

// checkOrigin admits requests without an Origin header, from the serving
// host itself, or from an origin matching the allow-list.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowAll {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	origin = strings.ToLower(origin)
	for _, pattern := range h.origins {
		if pattern == "*" {
			return true
		}
		if ok, _ := doublestar.Match(strings.ToLower(pattern), origin); ok {
			return true
		}
	}
	h.logger.Warn("webui: websocket origin rejected", "origin", origin)
	return false
}

// msg converts a client event into a widget message.
func (ev clientEvent) msg() (widget.Msg, error) {
	switch ev.Type {
	case "open":
		if ev.Path == "" {
			return nil, fmt.Errorf("path is required")
		}
		return widget.ActivateMsg{Position: ev.Index, Path: ev.Path}, nil
	case "close":
		source := widget.CloseSource(ev.Source)
		if source == "" {
			source = widget.CloseButton
		}
		if !source.Valid() {
			return nil, fmt.Errorf("unknown close source: %s", ev.Source)
		}
		return widget.CloseMsg{Path: ev.Path, Source: source}, nil
	case "retry":
		return widget.RetryMsg{}, nil
	default:
		return nil, fmt.Errorf("unknown message type: %s", ev.Type)
	}
}
