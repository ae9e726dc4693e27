package middleware

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/airvigil/airvigil/internal/database"
)

// serviceContextKey is the context key for the authenticated service name.
type serviceContextKey struct{}

// APIKeyConfig holds API key authentication configuration
type APIKeyConfig struct {
	// SkipPaths are paths that don't require authentication.
	// A trailing * matches by prefix.
	SkipPaths []string
}

// APIKeyMiddleware authenticates machine-to-machine callers against the
// active api_clients credentials and resolves the calling service identity.
type APIKeyMiddleware struct {
	mu      sync.RWMutex
	clients []database.APIClient
	skipMap map[string]bool
}

// NewAPIKeyMiddleware creates a new API key middleware
func NewAPIKeyMiddleware(config *APIKeyConfig) *APIKeyMiddleware {
	m := &APIKeyMiddleware{
		skipMap: make(map[string]bool),
	}

	// Build skip paths map for O(1) lookup
	for _, path := range config.SkipPaths {
		m.skipMap[path] = true
	}

	return m
}

// LoadClientsFromDB loads active credentials from the database.
// This allows hot-reloading of credentials without restart.
func (m *APIKeyMiddleware) LoadClientsFromDB() error {
	clients, err := database.ActiveClients(database.GetDB())
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.clients = clients
	m.mu.Unlock()

	log.Printf("APIKeyMiddleware: Loaded %d active service credentials", len(clients))
	return nil
}

// SetClients replaces the credential set directly (used in tests and by the
// hot-reload path).
func (m *APIKeyMiddleware) SetClients(clients []database.APIClient) {
	m.mu.Lock()
	m.clients = clients
	m.mu.Unlock()
}

// Wrap wraps an http.Handler with authentication
func (m *APIKeyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.shouldSkipAuth(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := m.extractAPIKey(r)
		if apiKey == "" {
			m.unauthorized(w, "Missing API key")
			return
		}

		service, ok := m.resolveService(apiKey)
		if !ok {
			log.Printf("APIKeyMiddleware: Invalid API key attempt from %s", r.RemoteAddr)
			m.unauthorized(w, "Invalid API key")
			return
		}

		ctx := context.WithValue(r.Context(), serviceContextKey{}, service)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WrapFunc wraps an http.HandlerFunc with authentication
func (m *APIKeyMiddleware) WrapFunc(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.Wrap(http.HandlerFunc(next)).ServeHTTP(w, r)
	}
}

// GetServiceFromContext returns the authenticated service name, or "".
func GetServiceFromContext(ctx context.Context) string {
	if service, ok := ctx.Value(serviceContextKey{}).(string); ok {
		return service
	}
	return ""
}

// shouldSkipAuth checks if the path should skip authentication
func (m *APIKeyMiddleware) shouldSkipAuth(path string) bool {
	if m.skipMap[path] {
		return true
	}

	for skipPath := range m.skipMap {
		if strings.HasSuffix(skipPath, "*") {
			prefix := strings.TrimSuffix(skipPath, "*")
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}

	return false
}

// extractAPIKey extracts the API key from the request.
// Supports the X-API-Key header and Authorization: Bearer.
func (m *APIKeyMiddleware) extractAPIKey(r *http.Request) string {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		return apiKey
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// resolveService validates an API key and returns the owning service name.
// Every credential is compared in constant time to prevent timing attacks.
func (m *APIKeyMiddleware) resolveService(provided string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	service := ""
	found := false
	for i := range m.clients {
		if subtle.ConstantTimeCompare([]byte(provided), []byte(m.clients[i].APIKey)) == 1 {
			service = m.clients[i].ServiceName
			found = true
		}
	}
	return service, found
}

// unauthorized sends an unauthorized response
func (m *APIKeyMiddleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if _, err := w.Write([]byte(`{"error":"` + message + `"}`)); err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}
