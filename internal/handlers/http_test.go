package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/airvigil/airvigil/internal/alerts"
	"github.com/airvigil/airvigil/internal/middleware"
	"github.com/airvigil/airvigil/internal/services"
	"github.com/airvigil/airvigil/internal/testhelpers"
)

func newRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	db := testhelpers.SetupTestDB(t)

	alertService := services.NewAlertService(db, alerts.FixedLimits{})
	stationService := services.NewStationService(db)
	jwtAuth := middleware.NewJWTAuthMiddleware(&middleware.JWTAuthConfig{
		AdminUsername: "admin", AdminPasswordHash: "x", JWTSecret: "s", JWTExpiryHours: 1,
	})
	apiKeyAuth := middleware.NewAPIKeyMiddleware(&middleware.APIKeyConfig{})

	handler := NewHTTPHandler(
		NewIngestHandler(stationService),
		NewAlertHandler(alertService),
		NewStatsHandler(alertService, stationService),
		NewAdminHandler(db, apiKeyAuth),
		NewAuthHandler(jwtAuth),
		NewLiveHandler(stationService, time.Minute),
	)

	mux := http.NewServeMux()
	handler.SetupRoutes(mux)
	return mux
}

func TestHealth(t *testing.T) {
	mux := newRouter(t)

	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/health", nil).
		Execute(mux).
		AssertStatus(http.StatusOK).
		AssertBodyContains(`"status":"ok"`)
}

func TestRouting_RankingBeatsStationPrefix(t *testing.T) {
	mux := newRouter(t)

	// The exact ranking path must not be swallowed by the /api/stations/
	// prefix route that serves per-station alerts.
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/stations/ranking", nil).
		Execute(mux).
		AssertStatus(http.StatusOK).
		AssertBodyContains(`"stations"`)

	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/stations/99/alert", nil).
		Execute(mux).
		AssertStatus(http.StatusNotFound).
		AssertBodyContains("station_not_found")
}
