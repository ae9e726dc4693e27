package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/airvigil/airvigil/internal/api"
	"github.com/airvigil/airvigil/internal/database"
	"github.com/airvigil/airvigil/internal/middleware"
	"github.com/airvigil/airvigil/internal/services"
)

// IngestHandler is the ingestion gateway: it accepts reading batches from
// authenticated city pollers and writes them to the raw layer.
type IngestHandler struct {
	stations *services.StationService
}

// NewIngestHandler creates a new ingestion gateway handler
func NewIngestHandler(stations *services.StationService) *IngestHandler {
	return &IngestHandler{stations: stations}
}

// SetupRoutes sets up ingestion routes
func (h *IngestHandler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/ingest", h.handleIngest)
}

// handleIngest handles POST /api/ingest. The whole batch is validated
// before storage is touched: a malformed record rejects the request with no
// side effects. Duplicate (station, timestamp) pairs inside the stored data
// are absorbed by the storage constraint, so retrying a failed batch is safe.
func (h *IngestHandler) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var batch []api.InboundReading
	if err := api.DecodeJSON(r, &batch); err != nil {
		api.RespondErrorWithCode(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if len(batch) == 0 {
		api.RespondErrorWithCode(w, http.StatusBadRequest, "empty_batch", "batch contains no records")
		return
	}

	readings := make([]database.RawReading, 0, len(batch))
	for i, record := range batch {
		if fieldErrors := api.Validate(record); fieldErrors != nil {
			prefixed := make(map[string]string, len(fieldErrors))
			for field, msg := range fieldErrors {
				prefixed[fmt.Sprintf("records[%d].%s", i, field)] = msg
			}
			api.RespondValidationError(w, prefixed)
			return
		}

		capturedAt, err := time.Parse(time.RFC3339, record.CaptureTimestamp)
		if err != nil {
			api.RespondValidationError(w, map[string]string{
				fmt.Sprintf("records[%d].capture_timestamp", i): "must be an ISO-8601 timestamp",
			})
			return
		}

		readings = append(readings, database.RawReading{
			StationID:        record.StationID,
			CaptureTimestamp: capturedAt,
			StationName:      record.Name,
			Address:          record.Address,
			ZoneType:         record.ZoneType,
			EmissionType:     record.EmissionType,
			AirQualityLabel:  record.AirQualityLabel,
			FiwareID:         record.FiwareID,
			Parameters:       record.Parameters,
			Measurements:     record.Measurements,
			SO2:              record.SO2,
			NO2:              record.NO2,
			O3:               record.O3,
			CO:               record.CO,
			PM10:             record.PM10,
			PM25:             record.PM25,
			GeoShape:         record.GeoShape,
			GeoPoint:         record.GeoPoint,
		})
	}

	inserted, err := h.stations.IngestBatch(readings)
	if err != nil {
		service := middleware.GetServiceFromContext(r.Context())
		log.Printf("IngestHandler: batch of %d records from %q failed: %v", len(readings), service, err)
		api.RespondErrorWithCode(w, http.StatusInternalServerError, "storage_error", "Failed to store readings batch, retry later")
		return
	}

	api.RespondJSON(w, http.StatusCreated, api.IngestResponse{
		Status:   "success",
		Received: len(readings),
		Inserted: int(inserted),
	})
}
