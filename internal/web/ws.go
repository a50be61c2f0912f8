package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	},
}

// handleWS pushes the latest snapshot on connect and after every refresh tick
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debugf("Websocket upgrade failed: %v", err)
		return
	}
	s.serveConnection(r.Context(), conn)
}

// serveConnection pushes snapshots until the client goes away or ctx is
// cancelled; on cancellation the client receives a going-away close frame.
func (s *Server) serveConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	if err := writeSnapshot(conn, s.latest()); err != nil {
		return
	}

	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()

	// Reads only detect the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ticker.C:
			if err := writeSnapshot(conn, s.latest()); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteTimeout))
			return
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(snap)
}
