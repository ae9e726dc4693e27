package api

import (
	"testing"

	"github.com/airvigil/airvigil/internal/database"
)

func TestValidate_InboundReading(t *testing.T) {
	valid := InboundReading{
		StationID:        4,
		FiwareID:         "A04_PISTASILLA_24H",
		Name:             "Pista de Silla",
		Address:          "Carrer X",
		ZoneType:         "Urbana",
		EmissionType:     "Tráfico",
		CaptureTimestamp: "2026-03-10T08:00:00Z",
		GeoShape:         database.JSONB{"type": "Point"},
		GeoPoint:         database.JSONB{"lat": 39.4},
	}

	if errs := Validate(valid); errs != nil {
		t.Fatalf("valid reading rejected: %v", errs)
	}

	missing := valid
	missing.FiwareID = ""
	missing.GeoShape = nil

	errs := Validate(missing)
	if errs == nil {
		t.Fatal("expected validation errors")
	}
	if _, ok := errs["fiware_id"]; !ok {
		t.Errorf("expected error keyed by wire name fiware_id, got %v", errs)
	}
	if _, ok := errs["geo_shape"]; !ok {
		t.Errorf("expected error for geo_shape, got %v", errs)
	}
}

func TestValidate_DeliveryRecordPollutant(t *testing.T) {
	tests := []struct {
		pollutant string
		wantValid bool
	}{
		{"no2", true},
		{"pm25", true},
		{"co", true},
		{"lead", false},
		{"NO2", false},
		{"", false},
	}

	for _, tt := range tests {
		record := DeliveryRecord{
			StationID:      4,
			AlertTimestamp: mustTime(t, "2026-03-10T08:00:00Z"),
			Pollutant:      tt.pollutant,
		}
		errs := Validate(record)
		if tt.wantValid && errs != nil {
			t.Errorf("%q: unexpected errors %v", tt.pollutant, errs)
		}
		if !tt.wantValid {
			if _, ok := errs["pollutant"]; !ok {
				t.Errorf("%q: expected a pollutant error, got %v", tt.pollutant, errs)
			}
		}
	}
}
