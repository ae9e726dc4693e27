package database

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func seedMetric(t *testing.T, db *gorm.DB, stationID int, hour time.Time, no2 float64) {
	t.Helper()
	m := HourlyMetric{
		StationID:   stationID,
		StationName: "Pista de Silla",
		City:        "valencia",
		MeasureHour: hour,
		AvgNO2:      f(no2),
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("failed to seed metric: %v", err)
	}
}

func TestLatestHourlyMetrics(t *testing.T) {
	db := setupTestDB(t)
	old := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	recent := old.Add(time.Hour)

	seedMetric(t, db, 4, old, 20)
	seedMetric(t, db, 4, recent, 30)
	seedMetric(t, db, 5, old, 10)

	metrics, err := LatestHourlyMetrics(db)
	if err != nil {
		t.Fatalf("LatestHourlyMetrics failed: %v", err)
	}
	if len(metrics) != 2 {
		t.Fatalf("metrics = %d rows, want 2", len(metrics))
	}
	if metrics[0].StationID != 4 || *metrics[0].AvgNO2 != 30 {
		t.Errorf("station 4 = %.1f, want the newer row (30.0)", *metrics[0].AvgNO2)
	}
}

func TestLatestHourlyMetricForStation_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := LatestHourlyMetricForStation(db, 99)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestActiveClients_ExcludesRevoked(t *testing.T) {
	db := setupTestDB(t)

	if _, err := CreateClient(db, "ingestion-valencia", "key-a"); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if _, err := CreateClient(db, "notifier", "key-b"); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if err := DeactivateClient(db, "notifier"); err != nil {
		t.Fatalf("DeactivateClient failed: %v", err)
	}

	clients, err := ActiveClients(db)
	if err != nil {
		t.Fatalf("ActiveClients failed: %v", err)
	}
	if len(clients) != 1 || clients[0].ServiceName != "ingestion-valencia" {
		t.Errorf("active = %+v, want only ingestion-valencia", clients)
	}
}
