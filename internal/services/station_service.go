package services

import (
	"github.com/airvigil/airvigil/internal/database"
	"gorm.io/gorm"
)

// StationService owns the raw reading layer and the dashboard rollup feed.
type StationService struct {
	db *gorm.DB
}

// NewStationService creates a new StationService
func NewStationService(db *gorm.DB) *StationService {
	return &StationService{db: db}
}

// IngestBatch writes a validated batch of raw readings with at-most-once
// effect per (station, capture timestamp). Returns rows actually written.
func (s *StationService) IngestBatch(readings []database.RawReading) (int64, error) {
	return database.InsertReadings(s.db, readings)
}

// LatestReadings returns the most recent raw reading per station.
func (s *StationService) LatestReadings() ([]database.RawReading, error) {
	return database.LatestReadings(s.db)
}

// RecentMetrics returns up to limit rollup rows for the dashboard, newest
// first.
func (s *StationService) RecentMetrics(limit int) ([]database.HourlyMetric, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return database.RecentHourlyMetrics(s.db, limit)
}
