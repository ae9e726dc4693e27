package api

import (
	"time"

	"github.com/airvigil/airvigil/internal/database"
)

// ========== Ingestion Types ==========

// InboundReading is one record of the ingestion batch posted by a city
// poller. The schema is fail-closed: unknown fields are rejected by the
// decoder, and the identifying fields are mandatory. Geo payloads must be
// present, well-formed objects but are otherwise opaque.
type InboundReading struct {
	StationID       int    `json:"station_id" validate:"required"`
	FiwareID        string `json:"fiware_id" validate:"required"`
	Name            string `json:"name" validate:"required"`
	Address         string `json:"address" validate:"required"`
	ZoneType        string `json:"zone_type" validate:"required"`
	EmissionType    string `json:"emission_type" validate:"required"`
	AirQualityLabel string `json:"air_quality_label"`

	// ISO-8601 instant; parsed and timezone-checked by the gateway.
	CaptureTimestamp string `json:"capture_timestamp" validate:"required"`

	Parameters   string `json:"parameters,omitempty"`
	Measurements string `json:"measurements,omitempty"`

	SO2  *float64 `json:"so2,omitempty"`
	NO2  *float64 `json:"no2,omitempty"`
	O3   *float64 `json:"o3,omitempty"`
	CO   *float64 `json:"co,omitempty"`
	PM10 *float64 `json:"pm10,omitempty"`
	PM25 *float64 `json:"pm25,omitempty"`

	GeoShape database.JSONB `json:"geo_shape" validate:"required"`
	GeoPoint database.JSONB `json:"geo_point" validate:"required"`
}

// IngestResponse acknowledges an accepted ingestion batch.
type IngestResponse struct {
	Status   string `json:"status"`
	Received int    `json:"received"`
	Inserted int    `json:"inserted"`
}

// ========== Alert Types ==========

// PendingAlert is one (station, hour, pollutant) alert not yet present in
// the delivery log, shaped for the notification dispatcher.
type PendingAlert struct {
	StationID      int       `json:"station_id"`
	AlertTimestamp time.Time `json:"alert_timestamp"`
	Pollutant      string    `json:"pollutant"`
	Value          float64   `json:"value"`
	Limit          float64   `json:"limit"`
	StationName    string    `json:"station_name"`
	City           string    `json:"city"`
}

// PendingAlertsResponse is the body of GET /api/alerts/pending.
type PendingAlertsResponse struct {
	Alerts []PendingAlert `json:"alerts"`
}

// DeliveryRecord is one delivery registration posted by the dispatcher after
// a confirmed external send.
type DeliveryRecord struct {
	StationID      int       `json:"station_id" validate:"required"`
	AlertTimestamp time.Time `json:"alert_timestamp" validate:"required"`
	Pollutant      string    `json:"pollutant" validate:"required,oneof=so2 no2 o3 co pm10 pm25"`
	Value          float64   `json:"value"`
	Limit          float64   `json:"limit"`
	StationName    string    `json:"station_name"`
	City           string    `json:"city"`
}

// RegisterDeliveryResponse is the body of POST /api/alerts/register-delivery.
type RegisterDeliveryResponse struct {
	Status   string `json:"status"`
	Received int    `json:"received"`
	Recorded int    `json:"recorded"`
}

// ========== Dashboard Types ==========

// RankingResponse is the body of GET /api/stations/ranking.
type RankingResponse struct {
	Stations []RankedStationEntry `json:"stations"`
}

// RankedStationEntry is one row of the cleanest-station ranking.
type RankedStationEntry struct {
	Rank           int     `json:"rank"`
	StationID      int     `json:"station_id"`
	StationName    string  `json:"station_name"`
	City           string  `json:"city"`
	PollutionIndex float64 `json:"pollution_index"`
}

// HourlyMetricsResponse is the body of GET /api/v1/hourly-metrics.
type HourlyMetricsResponse struct {
	Metrics []database.HourlyMetric `json:"metrics"`
}
