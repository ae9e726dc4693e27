package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JSONB is a custom type for PostgreSQL JSONB columns. The geo payloads are
// stored and round-tripped through it without interpretation.
type JSONB map[string]interface{}

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, j)
}

// Value implements the driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// RawReading is one pollutant measurement snapshot for one station at one
// timestamp, as delivered by a municipal open-data feed. The raw layer is
// append-only: rows are never mutated or deleted, and the composite unique
// index makes a repeat delivery of the same (station, timestamp) a no-op.
type RawReading struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	StationID        int       `gorm:"not null;uniqueIndex:idx_readings_station_capture" json:"station_id"`
	CaptureTimestamp time.Time `gorm:"not null;uniqueIndex:idx_readings_station_capture" json:"capture_timestamp"`
	StationName      string    `gorm:"type:varchar(255)" json:"station_name"`
	Address          string    `gorm:"type:text" json:"address"`
	ZoneType         string    `gorm:"type:varchar(100)" json:"zone_type"`
	EmissionType     string    `gorm:"type:varchar(100)" json:"emission_type"`
	AirQualityLabel  string    `gorm:"type:varchar(100)" json:"air_quality_label"`
	FiwareID         string    `gorm:"type:varchar(255)" json:"fiware_id"`
	Parameters       string    `gorm:"type:text" json:"parameters"`
	Measurements     string    `gorm:"type:text" json:"measurements"`

	// Pollutant concentrations in µg/m³ (CO in mg/m³). Nullable: a station
	// does not necessarily measure every pollutant.
	SO2  *float64 `json:"so2"`
	NO2  *float64 `json:"no2"`
	O3   *float64 `json:"o3"`
	CO   *float64 `json:"co"`
	PM10 *float64 `json:"pm10"`
	PM25 *float64 `json:"pm25"`

	// Opaque geographic payloads, stored without interpretation
	GeoShape JSONB `gorm:"type:jsonb" json:"geo_shape"`
	GeoPoint JSONB `gorm:"type:jsonb" json:"geo_point"`

	IngestedAt time.Time `gorm:"autoCreateTime" json:"ingested_at"`
}

func (RawReading) TableName() string {
	return "raw_readings"
}

// HourlyMetric is the read model over the metrics store's per-station,
// per-hour rollup view. The core only ever reads it.
type HourlyMetric struct {
	StationID   int       `json:"station_id"`
	StationName string    `json:"station_name"`
	City        string    `json:"city"`
	MeasureHour time.Time `json:"measure_hour"`

	AvgSO2  *float64 `json:"avg_so2"`
	AvgNO2  *float64 `json:"avg_no2"`
	AvgO3   *float64 `json:"avg_o3"`
	AvgCO   *float64 `json:"avg_co"`
	AvgPM10 *float64 `json:"avg_pm10"`
	AvgPM25 *float64 `json:"avg_pm25"`
}

func (HourlyMetric) TableName() string {
	return "hourly_metrics"
}

// StationThreshold is the read model over the metrics store's dynamic
// threshold view: a trailing-window 75th percentile per pollutant.
type StationThreshold struct {
	StationID int `json:"station_id"`

	P75SO2  *float64 `json:"p75_so2"`
	P75NO2  *float64 `json:"p75_no2"`
	P75O3   *float64 `json:"p75_o3"`
	P75CO   *float64 `json:"p75_co"`
	P75PM10 *float64 `json:"p75_pm10"`
	P75PM25 *float64 `json:"p75_pm25"`
}

func (StationThreshold) TableName() string {
	return "station_thresholds"
}

// DeliveredAlert is the permanent record that a specific
// (station, hour, pollutant) alert was already pushed to the notification
// channel. Append-only audit trail; the unique triple index is what gates
// re-delivery.
type DeliveredAlert struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StationID      int       `gorm:"not null;uniqueIndex:idx_delivered_triple" json:"station_id"`
	AlertTimestamp time.Time `gorm:"not null;uniqueIndex:idx_delivered_triple" json:"alert_timestamp"`
	Pollutant      string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_delivered_triple" json:"pollutant"`
	Value          float64   `json:"value"`
	LimitValue     float64   `gorm:"column:limit_value" json:"limit"`
	StationName    string    `gorm:"type:varchar(255)" json:"station_name"`
	City           string    `gorm:"type:varchar(100)" json:"city"`
	SentAt         time.Time `gorm:"autoCreateTime" json:"sent_at"`
}

func (DeliveredAlert) TableName() string {
	return "delivered_alerts"
}

// APIClient is a machine-to-machine service identity. Revocation flips
// is_active; rows are never deleted.
type APIClient struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ServiceName string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"service_name"`
	APIKey      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (APIClient) TableName() string {
	return "api_clients"
}
