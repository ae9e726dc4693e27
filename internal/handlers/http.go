package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// HTTPHandler wires all HTTP endpoints
type HTTPHandler struct {
	ingestHandler *IngestHandler
	alertHandler  *AlertHandler
	statsHandler  *StatsHandler
	adminHandler  *AdminHandler
	authHandler   *AuthHandler
	liveHandler   *LiveHandler
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(ingest *IngestHandler, alert *AlertHandler, stats *StatsHandler, admin *AdminHandler, auth *AuthHandler, live *LiveHandler) *HTTPHandler {
	return &HTTPHandler{
		ingestHandler: ingest,
		alertHandler:  alert,
		statsHandler:  stats,
		adminHandler:  admin,
		authHandler:   auth,
		liveHandler:   live,
	}
}

// SetupRoutes configures all HTTP routes
func (h *HTTPHandler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)

	h.ingestHandler.SetupRoutes(mux)
	h.alertHandler.SetupRoutes(mux)
	h.statsHandler.SetupRoutes(mux)
	h.adminHandler.SetupRoutes(mux)
	h.authHandler.SetupRoutes(mux)
	h.liveHandler.SetupRoutes(mux)
}

// handleHealth returns a simple health check response
func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]string{
		"status":  "ok",
		"version": "1.0.0",
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding health response: %v", err)
	}
}
