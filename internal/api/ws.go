package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// SolveEventsWSHandler streams solve events for one solution over a
// WebSocket: GET /v1/solutions/{id}/events/ws.
func (s *Server) SolveEventsWSHandler(w http.ResponseWriter, r *http.Request, solveID string) {
	if strings.TrimSpace(solveID) == "" {
		writeProblem(w, http.StatusBadRequest, "Missing solution id", "", r.URL.Path)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ch := s.Broker.Subscribe(solveID)
	done := make(chan struct{})

	// Writer: events plus keepalive pings.
	go func() {
		ticker := time.NewTicker(20 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case evt, ok := <-ch:
				if !ok {
					return
				}
				if err := conn.WriteJSON(evt); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Read loop only services control frames and detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
	s.Broker.Unsubscribe(solveID, ch)
}
