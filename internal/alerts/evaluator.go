package alerts

import (
	"time"

	"github.com/airvigil/airvigil/internal/database"
)

// Exceedance is one pollutant over its effective limit for a station hour.
type Exceedance struct {
	Pollutant Pollutant `json:"pollutant"`
	Value     float64   `json:"value"`
	Limit     float64   `json:"limit"`
}

// Candidate is a station hour in alert state. Candidates are computed on
// demand from the rollups and never persisted; only their delivery is.
type Candidate struct {
	StationID      int          `json:"station_id"`
	AlertTimestamp time.Time    `json:"alert_timestamp"`
	StationName    string       `json:"station_name"`
	City           string       `json:"city"`
	SeverityLevel  int          `json:"severity_level"`
	Primary        Pollutant    `json:"primary_pollutant"`
	Description    string       `json:"description"`
	Recommendation string       `json:"recommendation"`
	Exceedances    []Exceedance `json:"exceedances"`
}

// Exceeds reports whether the candidate has an exceedance for the pollutant.
func (c *Candidate) Exceeds(p Pollutant) bool {
	for _, e := range c.Exceedances {
		if e.Pollutant == p {
			return true
		}
	}
	return false
}

// severityRule maps a simultaneous-exceedance count to an alert level with
// its citizen-facing texts. The table is scanned top-down, first match wins,
// which keeps the policy auditable in one place.
type severityRule struct {
	MinCount       int
	Level          int
	Description    string
	Recommendation string
}

var severityRules = []severityRule{
	{
		MinCount:       3,
		Level:          3,
		Description:    "Heavy pollution: three or more pollutants above their limits",
		Recommendation: "Avoid outdoor activity and keep windows closed",
	},
	{
		MinCount:       2,
		Level:          2,
		Description:    "Elevated pollution: two pollutants above their limits",
		Recommendation: "Sensitive groups should stay indoors; limit outdoor exercise",
	},
	{
		MinCount:       1,
		Level:          1,
		Description:    "One pollutant above its limit",
		Recommendation: "Sensitive groups should limit prolonged outdoor exertion",
	},
}

// classify resolves the severity rule for an exceedance count. Returns nil
// when the count does not qualify as an alert.
func classify(count int) *severityRule {
	for i := range severityRules {
		if count >= severityRules[i].MinCount {
			return &severityRules[i]
		}
	}
	return nil
}

// EvaluateStation computes the alert candidate for one rollup row, or nil
// when no pollutant exceeds its limit. A missing average never counts as an
// exceedance.
func EvaluateStation(metric *database.HourlyMetric, limits LimitSource) *Candidate {
	var exceedances []Exceedance
	for _, p := range PriorityOrder {
		value := averageFor(metric, p)
		if value == nil {
			continue
		}
		limit, ok := limits.Limit(metric.StationID, p)
		if !ok || *value <= limit {
			continue
		}
		exceedances = append(exceedances, Exceedance{
			Pollutant: p,
			Value:     *value,
			Limit:     limit,
		})
	}

	rule := classify(len(exceedances))
	if rule == nil {
		return nil
	}

	return &Candidate{
		StationID:      metric.StationID,
		AlertTimestamp: metric.MeasureHour,
		StationName:    metric.StationName,
		City:           metric.City,
		SeverityLevel:  rule.Level,
		Primary:        exceedances[0].Pollutant,
		Description:    rule.Description,
		Recommendation: rule.Recommendation,
		Exceedances:    exceedances,
	}
}

// Evaluate computes at most one candidate per station from the latest
// rollups. Stations without a rollup row are absent from the input and
// therefore from the output.
func Evaluate(metrics []database.HourlyMetric, limits LimitSource) []Candidate {
	var candidates []Candidate
	for i := range metrics {
		if c := EvaluateStation(&metrics[i], limits); c != nil {
			candidates = append(candidates, *c)
		}
	}
	return candidates
}

// DeliveryRecords expands candidates into one delivery-log record per
// exceeded pollutant, the granularity the delivery log deduplicates on.
func DeliveryRecords(candidates []Candidate) []database.DeliveredAlert {
	var records []database.DeliveredAlert
	for _, c := range candidates {
		for _, e := range c.Exceedances {
			records = append(records, database.DeliveredAlert{
				StationID:      c.StationID,
				AlertTimestamp: c.AlertTimestamp,
				Pollutant:      string(e.Pollutant),
				Value:          e.Value,
				LimitValue:     e.Limit,
				StationName:    c.StationName,
				City:           c.City,
			})
		}
	}
	return records
}
