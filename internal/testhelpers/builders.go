// Package testhelpers data builders for readings, metrics, and alerts.
package testhelpers

import (
	"time"

	"github.com/airvigil/airvigil/internal/database"
)

// Float returns a pointer to the given value, for nullable pollutant fields.
func Float(v float64) *float64 {
	return &v
}

// ========================================
// Raw Reading Builder
// ========================================

// ReadingBuilder builds RawReading instances for testing
type ReadingBuilder struct {
	reading database.RawReading
}

// NewReadingBuilder creates a new reading builder with defaults
func NewReadingBuilder() *ReadingBuilder {
	return &ReadingBuilder{
		reading: database.RawReading{
			StationID:        4,
			CaptureTimestamp: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
			StationName:      "Pista de Silla",
			Address:          "Carrer de Sant Vicent Màrtir",
			ZoneType:         "Urbana",
			EmissionType:     "Tráfico",
			FiwareID:         "A04_PISTASILLA_24H",
			GeoShape:         database.JSONB{"type": "Point"},
			GeoPoint:         database.JSONB{"lat": 39.458, "lon": -0.376},
		},
	}
}

// WithStationID sets the station ID
func (b *ReadingBuilder) WithStationID(id int) *ReadingBuilder {
	b.reading.StationID = id
	return b
}

// WithCaptureTimestamp sets the capture timestamp
func (b *ReadingBuilder) WithCaptureTimestamp(ts time.Time) *ReadingBuilder {
	b.reading.CaptureTimestamp = ts
	return b
}

// WithStationName sets the station name
func (b *ReadingBuilder) WithStationName(name string) *ReadingBuilder {
	b.reading.StationName = name
	return b
}

// WithNO2 sets the NO2 concentration
func (b *ReadingBuilder) WithNO2(v float64) *ReadingBuilder {
	b.reading.NO2 = Float(v)
	return b
}

// WithPM25 sets the PM2.5 concentration
func (b *ReadingBuilder) WithPM25(v float64) *ReadingBuilder {
	b.reading.PM25 = Float(v)
	return b
}

// WithPM10 sets the PM10 concentration
func (b *ReadingBuilder) WithPM10(v float64) *ReadingBuilder {
	b.reading.PM10 = Float(v)
	return b
}

// WithO3 sets the O3 concentration
func (b *ReadingBuilder) WithO3(v float64) *ReadingBuilder {
	b.reading.O3 = Float(v)
	return b
}

// Build returns the constructed reading
func (b *ReadingBuilder) Build() database.RawReading {
	return b.reading
}

// ========================================
// Hourly Metric Builder
// ========================================

// MetricBuilder builds HourlyMetric instances for testing
type MetricBuilder struct {
	metric database.HourlyMetric
}

// NewMetricBuilder creates a new metric builder with defaults
func NewMetricBuilder() *MetricBuilder {
	return &MetricBuilder{
		metric: database.HourlyMetric{
			StationID:   4,
			StationName: "Pista de Silla",
			City:        "valencia",
			MeasureHour: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		},
	}
}

// WithStationID sets the station ID
func (b *MetricBuilder) WithStationID(id int) *MetricBuilder {
	b.metric.StationID = id
	return b
}

// WithStationName sets the station name
func (b *MetricBuilder) WithStationName(name string) *MetricBuilder {
	b.metric.StationName = name
	return b
}

// WithMeasureHour sets the measure hour
func (b *MetricBuilder) WithMeasureHour(ts time.Time) *MetricBuilder {
	b.metric.MeasureHour = ts
	return b
}

// WithSO2 sets the hourly SO2 average
func (b *MetricBuilder) WithSO2(v float64) *MetricBuilder {
	b.metric.AvgSO2 = Float(v)
	return b
}

// WithNO2 sets the hourly NO2 average
func (b *MetricBuilder) WithNO2(v float64) *MetricBuilder {
	b.metric.AvgNO2 = Float(v)
	return b
}

// WithO3 sets the hourly O3 average
func (b *MetricBuilder) WithO3(v float64) *MetricBuilder {
	b.metric.AvgO3 = Float(v)
	return b
}

// WithCO sets the hourly CO average
func (b *MetricBuilder) WithCO(v float64) *MetricBuilder {
	b.metric.AvgCO = Float(v)
	return b
}

// WithPM10 sets the hourly PM10 average
func (b *MetricBuilder) WithPM10(v float64) *MetricBuilder {
	b.metric.AvgPM10 = Float(v)
	return b
}

// WithPM25 sets the hourly PM2.5 average
func (b *MetricBuilder) WithPM25(v float64) *MetricBuilder {
	b.metric.AvgPM25 = Float(v)
	return b
}

// Build returns the constructed metric
func (b *MetricBuilder) Build() database.HourlyMetric {
	return b.metric
}

// ========================================
// Delivered Alert Builder
// ========================================

// DeliveredAlertBuilder builds DeliveredAlert instances for testing
type DeliveredAlertBuilder struct {
	alert database.DeliveredAlert
}

// NewDeliveredAlertBuilder creates a new delivered alert builder with defaults
func NewDeliveredAlertBuilder() *DeliveredAlertBuilder {
	return &DeliveredAlertBuilder{
		alert: database.DeliveredAlert{
			StationID:      4,
			AlertTimestamp: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
			Pollutant:      "no2",
			Value:          42.0,
			LimitValue:     25.0,
			StationName:    "Pista de Silla",
			City:           "valencia",
		},
	}
}

// WithStationID sets the station ID
func (b *DeliveredAlertBuilder) WithStationID(id int) *DeliveredAlertBuilder {
	b.alert.StationID = id
	return b
}

// WithAlertTimestamp sets the alert timestamp
func (b *DeliveredAlertBuilder) WithAlertTimestamp(ts time.Time) *DeliveredAlertBuilder {
	b.alert.AlertTimestamp = ts
	return b
}

// WithPollutant sets the pollutant code
func (b *DeliveredAlertBuilder) WithPollutant(p string) *DeliveredAlertBuilder {
	b.alert.Pollutant = p
	return b
}

// WithValue sets the measured value
func (b *DeliveredAlertBuilder) WithValue(v float64) *DeliveredAlertBuilder {
	b.alert.Value = v
	return b
}

// Build returns the constructed delivered alert
func (b *DeliveredAlertBuilder) Build() database.DeliveredAlert {
	return b.alert
}
