package alerts

import "github.com/airvigil/airvigil/internal/database"

// LimitSource resolves the effective limit for a pollutant at a station.
// The second return is false when no limit is defined, in which case the
// pollutant can never count as exceeded.
type LimitSource interface {
	Limit(stationID int, p Pollutant) (float64, bool)
}

// Fixed WHO-derived reference limits in µg/m³. CO deliberately has no fixed
// reference limit and only alerts against a dynamic threshold.
var fixedReferenceLimits = map[Pollutant]float64{
	NO2:  25,
	PM25: 15,
	PM10: 45,
	O3:   100,
	SO2:  40,
}

// FixedLimits applies the reference limits to every station.
type FixedLimits struct{}

// Limit implements LimitSource.
func (FixedLimits) Limit(_ int, p Pollutant) (float64, bool) {
	limit, ok := fixedReferenceLimits[p]
	return limit, ok
}

// ReferenceLimit returns the fixed reference limit for a pollutant.
func ReferenceLimit(p Pollutant) (float64, bool) {
	limit, ok := fixedReferenceLimits[p]
	return limit, ok
}

// StoreThresholds serves the metrics store's per-station percentile
// thresholds. Stations or pollutants without a threshold row have no limit.
type StoreThresholds struct {
	byStation map[int]database.StationThreshold
}

// NewStoreThresholds wraps threshold rows keyed by station.
func NewStoreThresholds(byStation map[int]database.StationThreshold) *StoreThresholds {
	return &StoreThresholds{byStation: byStation}
}

// Limit implements LimitSource.
func (s *StoreThresholds) Limit(stationID int, p Pollutant) (float64, bool) {
	row, ok := s.byStation[stationID]
	if !ok {
		return 0, false
	}
	value := percentileFor(&row, p)
	if value == nil {
		return 0, false
	}
	return *value, true
}
