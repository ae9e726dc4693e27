package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/airvigil/airvigil/internal/api"
	"github.com/airvigil/airvigil/internal/database"
	"github.com/airvigil/airvigil/internal/middleware"
	"github.com/airvigil/airvigil/internal/services"
)

// AlertHandler serves the alert query, pending and delivery-registration
// endpoints.
type AlertHandler struct {
	alerts *services.AlertService
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alerts *services.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// SetupRoutes sets up alert routes
func (h *AlertHandler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/alerts/pending", h.handlePending)
	mux.HandleFunc("/api/alerts/register-delivery", h.handleRegisterDelivery)
	// Station alert lookup: /api/stations/{id}/alert
	mux.HandleFunc("/api/stations/", h.handleStationAlert)
}

// handlePending handles GET /api/alerts/pending
func (h *AlertHandler) handlePending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	pending, err := h.alerts.PendingAlerts()
	if err != nil {
		log.Printf("AlertHandler: pending alerts query failed: %v", err)
		api.RespondErrorWithCode(w, http.StatusInternalServerError, "storage_error", "Failed to compute pending alerts")
		return
	}

	response := api.PendingAlertsResponse{Alerts: make([]api.PendingAlert, 0, len(pending))}
	for _, p := range pending {
		response.Alerts = append(response.Alerts, api.PendingAlert{
			StationID:      p.StationID,
			AlertTimestamp: p.AlertTimestamp,
			Pollutant:      p.Pollutant,
			Value:          p.Value,
			Limit:          p.LimitValue,
			StationName:    p.StationName,
			City:           p.City,
		})
	}

	api.RespondJSON(w, http.StatusOK, response)
}

// handleRegisterDelivery handles POST /api/alerts/register-delivery
func (h *AlertHandler) handleRegisterDelivery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var records []api.DeliveryRecord
	if err := api.DecodeJSON(r, &records); err != nil {
		api.RespondErrorWithCode(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	deliveries := make([]database.DeliveredAlert, 0, len(records))
	for i, record := range records {
		if fieldErrors := api.Validate(record); fieldErrors != nil {
			prefixed := make(map[string]string, len(fieldErrors))
			for field, msg := range fieldErrors {
				prefixed["records["+strconv.Itoa(i)+"]."+field] = msg
			}
			api.RespondValidationError(w, prefixed)
			return
		}

		deliveries = append(deliveries, database.DeliveredAlert{
			StationID:      record.StationID,
			AlertTimestamp: record.AlertTimestamp,
			Pollutant:      record.Pollutant,
			Value:          record.Value,
			LimitValue:     record.Limit,
			StationName:    record.StationName,
			City:           record.City,
		})
	}

	recorded, err := h.alerts.RegisterDeliveries(deliveries)
	if err != nil {
		service := middleware.GetServiceFromContext(r.Context())
		log.Printf("AlertHandler: delivery registration of %d records from %q failed: %v", len(deliveries), service, err)
		api.RespondErrorWithCode(w, http.StatusInternalServerError, "storage_error", "Failed to record deliveries, retry later")
		return
	}

	api.RespondJSON(w, http.StatusOK, api.RegisterDeliveryResponse{
		Status:   "success",
		Received: len(deliveries),
		Recorded: int(recorded),
	})
}

// handleStationAlert handles GET /api/stations/{id}/alert
func (h *AlertHandler) handleStationAlert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stationID, ok := parseStationAlertPath(r.URL.Path)
	if !ok {
		api.RespondError(w, http.StatusNotFound, "Not found")
		return
	}

	candidate, err := h.alerts.LatestAlertForStation(stationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStationUnknown):
			api.RespondErrorWithCode(w, http.StatusNotFound, "station_not_found", "Station has no recorded metrics")
		case errors.Is(err, services.ErrNoActiveAlert):
			api.RespondErrorWithCode(w, http.StatusNotFound, "no_active_alert", "No active alert for this station")
		default:
			log.Printf("AlertHandler: alert lookup for station %d failed: %v", stationID, err)
			api.RespondErrorWithCode(w, http.StatusInternalServerError, "storage_error", "Failed to query station alert")
		}
		return
	}

	api.RespondJSON(w, http.StatusOK, candidate)
}

// parseStationAlertPath extracts the station id from
// /api/stations/{id}/alert.
func parseStationAlertPath(path string) (int, bool) {
	rest := strings.TrimPrefix(path, "/api/stations/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "alert" {
		return 0, false
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	return id, true
}
