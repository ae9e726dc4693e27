package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/airvigil/airvigil/internal/api"
)

// BarrierClient talks to the protected barrier API on behalf of the
// notification dispatcher.
type BarrierClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewBarrierClient creates an authenticated barrier API client.
func NewBarrierClient(baseURL, apiKey string, timeout time.Duration) *BarrierClient {
	return &BarrierClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// PendingAlerts fetches the alert triples not yet recorded as delivered.
func (c *BarrierClient) PendingAlerts(ctx context.Context) ([]api.PendingAlert, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/alerts/pending", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build pending-alerts request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pending-alerts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pending-alerts returned status %d", resp.StatusCode)
	}

	var envelope api.PendingAlertsResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode pending-alerts response: %w", err)
	}
	return envelope.Alerts, nil
}

// RegisterDeliveries records successfully sent alerts as one batch. The
// registration endpoint is idempotent, so re-registering after a partial
// failure is harmless.
func (c *BarrierClient) RegisterDeliveries(ctx context.Context, records []api.DeliveryRecord) error {
	if len(records) == 0 {
		return nil
	}

	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery records: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/alerts/register-delivery", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build register-delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("register-delivery request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("register-delivery returned status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
