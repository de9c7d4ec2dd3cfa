package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/BitFracture/squirrel-lighting-control/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // LAN-only operator page, served from any host name
	},
}

// handleClientStream pushes the client list as JSON whenever membership changes,
// and at least every StatusPushInterval so last-seen times stay fresh.
func (s *Server) handleClientStream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		slog.Debug("Websocket upgrade failed", "remote_ip", c.RealIP(), "error", err)
		return nil
	}

	writer := newStreamWriter(conn, s.clock)
	if s.streamMetrics != nil {
		s.streamMetrics.ActiveConnections.Inc()
		defer s.streamMetrics.ActiveConnections.Dec()
	}

	changes, unsubscribe := s.clients.Subscribe()
	defer unsubscribe()

	// Read pump: only control frames are expected; any error means the peer is gone.
	peerGone := make(chan struct{})
	go func() {
		defer close(peerGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := s.clock.NewTicker(s.config.StatusPushInterval)
	defer ticker.Stop()

	s.pushSnapshot(writer)
	for {
		select {
		case <-changes:
			s.pushSnapshot(writer)
		case <-ticker.Chan():
			s.pushSnapshot(writer)
		case <-s.shutdownCh:
			writer.stopGraceful("controller shutting down")
			return nil
		case <-peerGone:
			writer.stop()
			return nil
		case <-writer.done():
			writer.stop()
			return nil
		}
	}
}

func (s *Server) pushSnapshot(writer *streamWriter) {
	data, err := json.Marshal(domain.Views(s.clients.Snapshot()))
	if err != nil {
		slog.Error("Failed to marshal client snapshot", "error", err)
		return
	}
	if writer.send(data) && s.streamMetrics != nil {
		s.streamMetrics.SnapshotsPushed.Inc()
	}
}
