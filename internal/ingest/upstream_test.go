package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fp(v float64) *float64 {
	return &v
}

func sp(s string) *string {
	return &s
}

func TestNormalize(t *testing.T) {
	params := "NO2, PM2.5"
	records := []StationRecord{
		{
			ObjectID:   4,
			Nombre:     "Pista de Silla",
			Direccion:  "Carrer de Sant Vicent Màrtir",
			TipoZona:   "Urbana",
			TipoEmisio: "Tráfico",
			FechaCarg:  "2026-03-10T08:00:00+01:00",
			CalidadAm:  "Buena",
			FiwareID:   "A04_PISTASILLA_24H",
			Parametros: sp(params),
			NO2:        fp(31.0),
			PM25:       fp(8.5),
			GeoShape:   map[string]interface{}{"type": "Point"},
			GeoPoint:   map[string]interface{}{"lat": 39.458, "lon": -0.376},
		},
		{ObjectID: 0, FechaCarg: "2026-03-10T08:00:00+01:00"}, // no station id
		{ObjectID: 7},                                         // no capture timestamp
	}

	readings := Normalize(records)
	if len(readings) != 1 {
		t.Fatalf("readings = %d, want 1: incomplete records must be dropped", len(readings))
	}

	got := readings[0]
	if got.StationID != 4 || got.Name != "Pista de Silla" {
		t.Errorf("identity = %d %q", got.StationID, got.Name)
	}
	if got.CaptureTimestamp != "2026-03-10T08:00:00+01:00" {
		t.Errorf("capture timestamp = %q, passed through unmodified expected", got.CaptureTimestamp)
	}
	if got.Parameters != params {
		t.Errorf("parameters = %q, want %q", got.Parameters, params)
	}
	if got.NO2 == nil || *got.NO2 != 31.0 {
		t.Errorf("no2 = %v, want 31.0", got.NO2)
	}
	if got.SO2 != nil {
		t.Errorf("so2 = %v, want nil for unmeasured pollutant", got.SO2)
	}
	if got.GeoShape["type"] != "Point" {
		t.Errorf("geo_shape = %v", got.GeoShape)
	}
}

func TestFetchStations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"objectid":4,"nombre":"Pista de Silla","fecha_carg":"2026-03-10T08:00:00+01:00","no2":31.0}]}`))
	}))
	defer server.Close()

	client := NewUpstreamClient(5 * time.Second)
	records, err := client.FetchStations(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchStations failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].ObjectID != 4 || *records[0].NO2 != 31.0 {
		t.Errorf("record = %+v", records[0])
	}
}

func TestFetchStations_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewUpstreamClient(5 * time.Second)
	if _, err := client.FetchStations(context.Background(), server.URL); err == nil {
		t.Error("expected an error for non-200 upstream response")
	}
}
