package handlers

import (
	"net/http"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/airvigil/airvigil/internal/alerts"
	"github.com/airvigil/airvigil/internal/api"
	"github.com/airvigil/airvigil/internal/services"
	"github.com/airvigil/airvigil/internal/testhelpers"
)

func newStatsHandler(t *testing.T) (*StatsHandler, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	return NewStatsHandler(
		services.NewAlertService(db, alerts.FixedLimits{}),
		services.NewStationService(db),
	), db
}

func TestRanking_CleanestFirstAndExceedersExcluded(t *testing.T) {
	handler, db := newStatsHandler(t)
	hour := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	seedMetric(t, db, testhelpers.NewMetricBuilder().
		WithStationID(1).WithMeasureHour(hour).WithNO2(20).WithPM25(10).WithPM10(40).Build())
	seedMetric(t, db, testhelpers.NewMetricBuilder().
		WithStationID(2).WithMeasureHour(hour).WithNO2(15).WithPM25(5).WithPM10(20).Build())
	// In alert state: excluded from the ranking entirely.
	seedMetric(t, db, testhelpers.NewMetricBuilder().
		WithStationID(3).WithMeasureHour(hour).WithNO2(31).Build())

	var response api.RankingResponse
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/stations/ranking", nil).
		ExecuteFunc(handler.handleRanking).
		AssertStatus(http.StatusOK).
		DecodeJSON(&response)

	if len(response.Stations) != 2 {
		t.Fatalf("ranked = %d stations, want 2", len(response.Stations))
	}
	if response.Stations[0].StationID != 2 || response.Stations[0].Rank != 1 {
		t.Errorf("first = station %d rank %d, want station 2 rank 1", response.Stations[0].StationID, response.Stations[0].Rank)
	}
	if response.Stations[0].PollutionIndex != 40 {
		t.Errorf("first index = %.1f, want 40.0", response.Stations[0].PollutionIndex)
	}
	if response.Stations[1].StationID != 1 || response.Stations[1].PollutionIndex != 70 {
		t.Errorf("second = station %d index %.1f, want station 1 index 70.0", response.Stations[1].StationID, response.Stations[1].PollutionIndex)
	}
}

func TestHourlyMetrics_LimitValidation(t *testing.T) {
	handler, _ := newStatsHandler(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"default limit", "", http.StatusOK},
		{"explicit limit", "?limit=5", http.StatusOK},
		{"zero limit", "?limit=0", http.StatusBadRequest},
		{"negative limit", "?limit=-3", http.StatusBadRequest},
		{"non-numeric limit", "?limit=ten", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/v1/hourly-metrics"+tt.query, nil).
				ExecuteFunc(handler.handleHourlyMetrics).
				AssertStatus(tt.wantStatus)
		})
	}
}

func TestHourlyMetrics_NewestFirst(t *testing.T) {
	handler, db := newStatsHandler(t)
	base := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedMetric(t, db, testhelpers.NewMetricBuilder().
			WithStationID(4).WithMeasureHour(base.Add(time.Duration(i)*time.Hour)).WithNO2(10).Build())
	}

	var response api.HourlyMetricsResponse
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/v1/hourly-metrics?limit=2", nil).
		ExecuteFunc(handler.handleHourlyMetrics).
		AssertStatus(http.StatusOK).
		DecodeJSON(&response)

	if len(response.Metrics) != 2 {
		t.Fatalf("metrics = %d, want 2", len(response.Metrics))
	}
	if !response.Metrics[0].MeasureHour.After(response.Metrics[1].MeasureHour) {
		t.Errorf("metrics not newest first: %v then %v", response.Metrics[0].MeasureHour, response.Metrics[1].MeasureHour)
	}
}
