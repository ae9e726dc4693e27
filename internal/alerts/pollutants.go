package alerts

import "github.com/airvigil/airvigil/internal/database"

// Pollutant is a measured pollutant code, matching the column suffixes used
// by the raw layer and the metrics store.
type Pollutant string

const (
	SO2  Pollutant = "so2"
	NO2  Pollutant = "no2"
	O3   Pollutant = "o3"
	CO   Pollutant = "co"
	PM10 Pollutant = "pm10"
	PM25 Pollutant = "pm25"
)

// PriorityOrder is the fixed scan order for picking the primary pollutant of
// an alert: first exceeded wins, not the worst value.
var PriorityOrder = []Pollutant{NO2, PM25, PM10, SO2, O3, CO}

// DisplayName returns the human-readable pollutant name used in messages.
func (p Pollutant) DisplayName() string {
	switch p {
	case SO2:
		return "SO₂"
	case NO2:
		return "NO₂"
	case O3:
		return "O₃"
	case CO:
		return "CO"
	case PM10:
		return "PM10"
	case PM25:
		return "PM2.5"
	}
	return string(p)
}

// Unit returns the measurement unit for the pollutant.
func (p Pollutant) Unit() string {
	if p == CO {
		return "mg/m³"
	}
	return "µg/m³"
}

// averageFor extracts the rollup average for one pollutant. A nil return
// means the station did not report that pollutant for the hour.
func averageFor(m *database.HourlyMetric, p Pollutant) *float64 {
	switch p {
	case SO2:
		return m.AvgSO2
	case NO2:
		return m.AvgNO2
	case O3:
		return m.AvgO3
	case CO:
		return m.AvgCO
	case PM10:
		return m.AvgPM10
	case PM25:
		return m.AvgPM25
	}
	return nil
}

// percentileFor extracts the dynamic threshold for one pollutant.
func percentileFor(t *database.StationThreshold, p Pollutant) *float64 {
	switch p {
	case SO2:
		return t.P75SO2
	case NO2:
		return t.P75NO2
	case O3:
		return t.P75O3
	case CO:
		return t.P75CO
	case PM10:
		return t.P75PM10
	case PM25:
		return t.P75PM25
	}
	return nil
}
