package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/airvigil/airvigil/internal/api"
	"github.com/airvigil/airvigil/internal/database"
)

// StationRecord is one station entry of the opendatasoft records response.
// Field names follow the upstream feed.
type StationRecord struct {
	ObjectID   int     `json:"objectid"`
	Nombre     string  `json:"nombre"`
	Direccion  string  `json:"direccion"`
	TipoZona   string  `json:"tipozona"`
	Parametros *string `json:"parametros"`
	Mediciones *string `json:"mediciones"`

	SO2  *float64 `json:"so2"`
	NO2  *float64 `json:"no2"`
	O3   *float64 `json:"o3"`
	CO   *float64 `json:"co"`
	PM10 *float64 `json:"pm10"`
	PM25 *float64 `json:"pm25"`

	TipoEmisio string `json:"tipoemisio"`
	FechaCarg  string `json:"fecha_carg"`
	CalidadAm  string `json:"calidad_am"`
	FiwareID   string `json:"fiwareid"`

	GeoShape map[string]interface{} `json:"geo_shape"`
	GeoPoint map[string]interface{} `json:"geo_point_2d"`
}

// recordsResponse is the opendatasoft envelope.
type recordsResponse struct {
	Results []StationRecord `json:"results"`
}

// UpstreamClient fetches station readings from a municipal open-data feed.
type UpstreamClient struct {
	httpClient *http.Client
}

// NewUpstreamClient creates an upstream client with a request timeout.
func NewUpstreamClient(timeout time.Duration) *UpstreamClient {
	return &UpstreamClient{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchStations retrieves the current station readings from the feed.
func (c *UpstreamClient) FetchStations(ctx context.Context, apiURL string) ([]StationRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var envelope recordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", err)
	}

	return envelope.Results, nil
}

// Normalize reshapes upstream records into the gateway's inbound schema.
// Records without a station id or capture timestamp are dropped: they cannot
// satisfy the raw layer's uniqueness key.
func Normalize(records []StationRecord) []api.InboundReading {
	readings := make([]api.InboundReading, 0, len(records))
	for _, r := range records {
		if r.ObjectID == 0 || r.FechaCarg == "" {
			continue
		}

		reading := api.InboundReading{
			StationID:        r.ObjectID,
			FiwareID:         r.FiwareID,
			Name:             r.Nombre,
			Address:          r.Direccion,
			ZoneType:         r.TipoZona,
			EmissionType:     r.TipoEmisio,
			AirQualityLabel:  r.CalidadAm,
			CaptureTimestamp: r.FechaCarg,
			SO2:              r.SO2,
			NO2:              r.NO2,
			O3:               r.O3,
			CO:               r.CO,
			PM10:             r.PM10,
			PM25:             r.PM25,
			GeoShape:         database.JSONB(r.GeoShape),
			GeoPoint:         database.JSONB(r.GeoPoint),
		}
		if r.Parametros != nil {
			reading.Parameters = *r.Parametros
		}
		if r.Mediciones != nil {
			reading.Measurements = *r.Mediciones
		}
		readings = append(readings, reading)
	}
	return readings
}
