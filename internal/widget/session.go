package widget

import (
	"context"
	"log/slog"
)

// Session is the event loop of one mounted gallery. Fetches run on their
// own goroutines; their results and dispatched user events are applied one
// at a time on the goroutine running Run.
type Session struct {
	gallery *Gallery
	logger  *slog.Logger
	events  chan Msg
	done    chan struct{}
}

// NewSession wraps an unmounted gallery.
func NewSession(g *Gallery, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		gallery: g,
		logger:  logger,
		events:  make(chan Msg, 16),
		done:    make(chan struct{}),
	}
}

// Dispatch queues a user event. It returns false once the session has ended.
func (s *Session) Dispatch(msg Msg) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.events <- msg:
		return true
	case <-s.done:
		return false
	}
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} { return s.done }

// Run mounts the gallery, renders it, and then renders again after every
// message that changed it. It returns when ctx is cancelled or render
// fails; the gallery is unmounted on return so late results are dropped.
func (s *Session) Run(ctx context.Context, render func(*Gallery) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer close(s.done)
	defer s.gallery.Unmount()

	results := make(chan Msg)
	exec := func(cmd Cmd) {
		if cmd == nil {
			return
		}
		go func() {
			msg := cmd(ctx)
			select {
			case results <- msg:
			case <-ctx.Done():
			}
		}()
	}

	exec(s.gallery.Mount())
	if err := render(s.gallery); err != nil {
		return err
	}
	rendered := s.gallery.Version()

	for {
		var msg Msg
		select {
		case <-ctx.Done():
			s.logger.Debug("widget session ended")
			return nil
		case msg = <-s.events:
		case msg = <-results:
		}

		exec(s.gallery.Update(msg))

		if v := s.gallery.Version(); v != rendered {
			if err := render(s.gallery); err != nil {
				return err
			}
			rendered = v
		}
	}
}
