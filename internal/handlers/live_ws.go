package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/airvigil/airvigil/internal/services"
	"github.com/gorilla/websocket"
)

// LiveHandler streams the latest hourly rollups to dashboard clients over a
// websocket, pushing a fresh snapshot on a fixed interval.
type LiveHandler struct {
	stations *services.StationService
	upgrader websocket.Upgrader
	interval time.Duration
}

// NewLiveHandler creates a new live feed handler
func NewLiveHandler(stations *services.StationService, interval time.Duration) *LiveHandler {
	return &LiveHandler{
		stations: stations,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The citizen dashboard is served from a different origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		interval: interval,
	}
}

// SetupRoutes sets up the live feed route
func (h *LiveHandler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/live", h.handleLive)
}

// liveSnapshot is one websocket frame.
type liveSnapshot struct {
	Type    string      `json:"type"`
	SentAt  time.Time   `json:"sent_at"`
	Metrics interface{} `json:"metrics"`
}

// handleLive handles GET /ws/live
func (h *LiveHandler) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("LiveHandler: websocket upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("LiveHandler: closing connection: %v", err)
		}
	}()

	log.Printf("LiveHandler: dashboard client connected from %s", r.RemoteAddr)

	// Drain client frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Push an initial snapshot immediately, then on every tick.
	if !h.pushSnapshot(conn) {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for range ticker.C {
		if !h.pushSnapshot(conn) {
			return
		}
	}
}

// pushSnapshot writes one metrics frame. Returns false when the client is
// gone.
func (h *LiveHandler) pushSnapshot(conn *websocket.Conn) bool {
	metrics, err := h.stations.RecentMetrics(50)
	if err != nil {
		log.Printf("LiveHandler: metrics read failed: %v", err)
		// The client stays connected; the next tick retries.
		return true
	}

	if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return false
	}
	if err := conn.WriteJSON(liveSnapshot{
		Type:    "hourly_metrics",
		SentAt:  time.Now().UTC(),
		Metrics: metrics,
	}); err != nil {
		return false
	}
	return true
}
