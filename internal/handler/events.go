package handler

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"stocklens/internal/controller"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// latestView holds the most recent view not yet written to the client.
// Bursts collapse into the last view, so the settled state is never lost.
type latestView struct {
	mu    sync.Mutex
	view  *ViewResponse
	ready chan struct{}
}

func newLatestView() *latestView {
	return &latestView{ready: make(chan struct{}, 1)}
}

func (l *latestView) put(v ViewResponse) {
	l.mu.Lock()
	l.view = &v
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default:
	}
}

func (l *latestView) take() (ViewResponse, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.view == nil {
		return ViewResponse{}, false
	}
	v := *l.view
	l.view = nil
	return v, true
}

func (h *SessionHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || h.allowedOrigins[origin]
		},
	}
}

// StreamEvents pushes the active view of a session over a websocket every
// time it changes, starting with the current one.
func (h *SessionHandler) StreamEvents(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("error upgrading to websocket", "session_id", s.ID, "error", err)
		return
	}
	defer conn.Close()

	pending := newLatestView()
	unsubscribe := s.Subscribe(func(v controller.View) {
		pending.put(h.toViewResponse(v, nil))
	})
	defer unsubscribe()

	if ctrl, err := s.Active(); err == nil {
		pending.put(h.toViewResponse(ctrl.View(), ctrl.Fields()))
	}

	// The client never sends anything we need; reading only detects close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	slog.Info("event stream opened", "session_id", s.ID)

	for {
		select {
		case <-closed:
			slog.Info("event stream closed", "session_id", s.ID)
			return
		case <-pending.ready:
			v, ok := pending.take()
			if !ok {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(v); err != nil {
				slog.Warn("error writing view event", "session_id", s.ID, "error", err)
				return
			}
		}
	}
}
