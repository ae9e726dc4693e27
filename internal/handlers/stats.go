package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/airvigil/airvigil/internal/api"
	"github.com/airvigil/airvigil/internal/services"
)

// StatsHandler serves the dashboard read endpoints: rollup feed and the
// cleanest-station ranking.
type StatsHandler struct {
	alerts   *services.AlertService
	stations *services.StationService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(alerts *services.AlertService, stations *services.StationService) *StatsHandler {
	return &StatsHandler{alerts: alerts, stations: stations}
}

// SetupRoutes sets up dashboard routes
func (h *StatsHandler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/stations/ranking", h.handleRanking)
	mux.HandleFunc("/api/v1/hourly-metrics", h.handleHourlyMetrics)
}

// handleRanking handles GET /api/stations/ranking
func (h *StatsHandler) handleRanking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ranked, err := h.alerts.Ranking()
	if err != nil {
		log.Printf("StatsHandler: ranking query failed: %v", err)
		api.RespondErrorWithCode(w, http.StatusInternalServerError, "storage_error", "Failed to compute station ranking")
		return
	}

	response := api.RankingResponse{Stations: make([]api.RankedStationEntry, 0, len(ranked))}
	for _, station := range ranked {
		response.Stations = append(response.Stations, api.RankedStationEntry{
			Rank:           station.Rank,
			StationID:      station.StationID,
			StationName:    station.StationName,
			City:           station.City,
			PollutionIndex: station.PollutionIndex,
		})
	}

	api.RespondJSON(w, http.StatusOK, response)
}

// handleHourlyMetrics handles GET /api/v1/hourly-metrics?limit=N
func (h *StatsHandler) handleHourlyMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.RespondErrorWithCode(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	metrics, err := h.stations.RecentMetrics(limit)
	if err != nil {
		log.Printf("StatsHandler: hourly metrics query failed: %v", err)
		api.RespondErrorWithCode(w, http.StatusInternalServerError, "storage_error", "Failed to read hourly metrics")
		return
	}

	api.RespondJSON(w, http.StatusOK, api.HourlyMetricsResponse{Metrics: metrics})
}
