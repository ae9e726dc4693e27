package alerts

import (
	"testing"
	"time"

	"github.com/airvigil/airvigil/internal/database"
)

func floatPtr(v float64) *float64 {
	return &v
}

func metricWith(stationID int, values map[Pollutant]float64) database.HourlyMetric {
	m := database.HourlyMetric{
		StationID:   stationID,
		StationName: "Test Station",
		City:        "valencia",
		MeasureHour: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	for p, v := range values {
		switch p {
		case SO2:
			m.AvgSO2 = floatPtr(v)
		case NO2:
			m.AvgNO2 = floatPtr(v)
		case O3:
			m.AvgO3 = floatPtr(v)
		case CO:
			m.AvgCO = floatPtr(v)
		case PM10:
			m.AvgPM10 = floatPtr(v)
		case PM25:
			m.AvgPM25 = floatPtr(v)
		}
	}
	return m
}

func TestEvaluateStation_NoExceedance(t *testing.T) {
	m := metricWith(1, map[Pollutant]float64{NO2: 20, PM25: 10, O3: 80})

	if c := EvaluateStation(&m, FixedLimits{}); c != nil {
		t.Errorf("expected no candidate, got severity %d", c.SeverityLevel)
	}
}

func TestEvaluateStation_ValueAtLimitIsNotExceedance(t *testing.T) {
	m := metricWith(1, map[Pollutant]float64{NO2: 25, PM25: 15, PM10: 45})

	if c := EvaluateStation(&m, FixedLimits{}); c != nil {
		t.Errorf("values equal to the limit must not alert, got severity %d", c.SeverityLevel)
	}
}

func TestEvaluateStation_SeverityLevels(t *testing.T) {
	tests := []struct {
		name          string
		values        map[Pollutant]float64
		wantLevel     int
		wantPrimary   Pollutant
		wantExceeding int
	}{
		{
			name:          "single exceedance is level 1",
			values:        map[Pollutant]float64{NO2: 30, PM25: 10},
			wantLevel:     1,
			wantPrimary:   NO2,
			wantExceeding: 1,
		},
		{
			name:          "two exceedances are level 2",
			values:        map[Pollutant]float64{NO2: 30, PM25: 20},
			wantLevel:     2,
			wantPrimary:   NO2,
			wantExceeding: 2,
		},
		{
			name:          "three exceedances are level 3",
			values:        map[Pollutant]float64{NO2: 30, PM25: 20, PM10: 50},
			wantLevel:     3,
			wantPrimary:   NO2,
			wantExceeding: 3,
		},
		{
			name:          "four exceedances stay level 3",
			values:        map[Pollutant]float64{NO2: 30, PM25: 20, PM10: 50, O3: 120},
			wantLevel:     3,
			wantPrimary:   NO2,
			wantExceeding: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metricWith(1, tt.values)
			c := EvaluateStation(&m, FixedLimits{})
			if c == nil {
				t.Fatal("expected a candidate")
			}
			if c.SeverityLevel != tt.wantLevel {
				t.Errorf("severity = %d, want %d", c.SeverityLevel, tt.wantLevel)
			}
			if c.Primary != tt.wantPrimary {
				t.Errorf("primary = %s, want %s", c.Primary, tt.wantPrimary)
			}
			if len(c.Exceedances) != tt.wantExceeding {
				t.Errorf("exceedances = %d, want %d", len(c.Exceedances), tt.wantExceeding)
			}
		})
	}
}

func TestEvaluateStation_MissingAverageIsSkipped(t *testing.T) {
	// NO2 missing entirely, PM2.5 over its limit: the missing pollutant
	// must neither alert nor mask the one that does.
	m := metricWith(1, map[Pollutant]float64{PM25: 60})

	c := EvaluateStation(&m, FixedLimits{})
	if c == nil {
		t.Fatal("expected a candidate")
	}
	if c.SeverityLevel != 1 {
		t.Errorf("severity = %d, want 1", c.SeverityLevel)
	}
	if c.Primary != PM25 {
		t.Errorf("primary = %s, want %s", c.Primary, PM25)
	}
	if c.Exceeds(NO2) {
		t.Error("missing NO2 average must not count as an exceedance")
	}
}

func TestEvaluateStation_PrimaryFollowsPriorityOrder(t *testing.T) {
	// O3 exceeds by a much larger margin than PM10, but PM10 sits earlier
	// in the priority order so it stays primary.
	m := metricWith(1, map[Pollutant]float64{PM10: 46, O3: 400})

	c := EvaluateStation(&m, FixedLimits{})
	if c == nil {
		t.Fatal("expected a candidate")
	}
	if c.Primary != PM10 {
		t.Errorf("primary = %s, want %s", c.Primary, PM10)
	}
}

func TestEvaluateStation_COHasNoFixedLimit(t *testing.T) {
	m := metricWith(1, map[Pollutant]float64{CO: 9999})

	if c := EvaluateStation(&m, FixedLimits{}); c != nil {
		t.Errorf("CO must not alert against fixed limits, got severity %d", c.SeverityLevel)
	}
}

func TestEvaluate_OneCandidatePerStation(t *testing.T) {
	metrics := []database.HourlyMetric{
		metricWith(1, map[Pollutant]float64{NO2: 30}),
		metricWith(2, map[Pollutant]float64{NO2: 10}),
		metricWith(3, map[Pollutant]float64{NO2: 30, PM25: 20}),
	}

	candidates := Evaluate(metrics, FixedLimits{})
	if len(candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(candidates))
	}
	if candidates[0].StationID != 1 || candidates[1].StationID != 3 {
		t.Errorf("unexpected candidate stations: %d, %d", candidates[0].StationID, candidates[1].StationID)
	}
}

func TestDeliveryRecords_OnePerExceededPollutant(t *testing.T) {
	m := metricWith(7, map[Pollutant]float64{NO2: 30, PM25: 20})
	c := EvaluateStation(&m, FixedLimits{})
	if c == nil {
		t.Fatal("expected a candidate")
	}

	records := DeliveryRecords([]Candidate{*c})
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	for _, r := range records {
		if r.StationID != 7 {
			t.Errorf("station = %d, want 7", r.StationID)
		}
		if !r.AlertTimestamp.Equal(m.MeasureHour) {
			t.Errorf("timestamp = %v, want %v", r.AlertTimestamp, m.MeasureHour)
		}
	}
	if records[0].Pollutant != "no2" || records[1].Pollutant != "pm25" {
		t.Errorf("pollutants = %s, %s", records[0].Pollutant, records[1].Pollutant)
	}
	if records[0].Value != 30 || records[0].LimitValue != 25 {
		t.Errorf("no2 record = %.1f over %.1f, want 30.0 over 25.0", records[0].Value, records[0].LimitValue)
	}
}
