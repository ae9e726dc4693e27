package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/airvigil/airvigil/internal/database"
)

func newTestAPIKeyMiddleware(skipPaths ...string) *APIKeyMiddleware {
	m := NewAPIKeyMiddleware(&APIKeyConfig{SkipPaths: skipPaths})
	m.SetClients([]database.APIClient{
		{ServiceName: "ingestion-valencia", APIKey: "key-ingestion", IsActive: true},
		{ServiceName: "notifier", APIKey: "key-notifier", IsActive: true},
	})
	return m
}

func echoService() (http.Handler, *string) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetServiceFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return handler, &seen
}

func TestAPIKeyMiddleware_ValidKey(t *testing.T) {
	m := newTestAPIKeyMiddleware()
	handler, seen := echoService()

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/pending", nil)
	req.Header.Set("X-API-Key", "key-notifier")
	rec := httptest.NewRecorder()
	m.Wrap(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *seen != "notifier" {
		t.Errorf("service = %q, want notifier", *seen)
	}
}

func TestAPIKeyMiddleware_BearerFallback(t *testing.T) {
	m := newTestAPIKeyMiddleware()
	handler, seen := echoService()

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/pending", nil)
	req.Header.Set("Authorization", "Bearer key-ingestion")
	rec := httptest.NewRecorder()
	m.Wrap(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *seen != "ingestion-valencia" {
		t.Errorf("service = %q, want ingestion-valencia", *seen)
	}
}

func TestAPIKeyMiddleware_Rejections(t *testing.T) {
	m := newTestAPIKeyMiddleware()
	handler, _ := echoService()

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing key", func(r *http.Request) {}},
		{"wrong key", func(r *http.Request) { r.Header.Set("X-API-Key", "nope") }},
		{"empty bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/alerts/pending", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			m.Wrap(handler).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAPIKeyMiddleware_RevokedKeyAfterReload(t *testing.T) {
	m := newTestAPIKeyMiddleware()
	handler, _ := echoService()

	// Revocation reaches the middleware as a smaller credential set.
	m.SetClients([]database.APIClient{
		{ServiceName: "ingestion-valencia", APIKey: "key-ingestion", IsActive: true},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/pending", nil)
	req.Header.Set("X-API-Key", "key-notifier")
	rec := httptest.NewRecorder()
	m.Wrap(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 after revocation", rec.Code)
	}
}

func TestAPIKeyMiddleware_SkipPaths(t *testing.T) {
	m := newTestAPIKeyMiddleware("/health", "/auth/*")
	handler, _ := echoService()

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/health", http.StatusOK},
		{"/auth/login", http.StatusOK},
		{"/auth/verify", http.StatusOK},
		{"/api/alerts/pending", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := httptest.NewRecorder()
		m.Wrap(handler).ServeHTTP(rec, req)

		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, tt.wantStatus)
		}
	}
}
