package alerts

import (
	"sort"

	"github.com/airvigil/airvigil/internal/database"
)

// RankedStation is one entry of the cleanest-station ranking.
type RankedStation struct {
	Rank           int     `json:"rank"`
	StationID      int     `json:"station_id"`
	StationName    string  `json:"station_name"`
	City           string  `json:"city"`
	PollutionIndex float64 `json:"pollution_index"`
}

// RankStations orders stations by aggregate pollution index, cleanest first.
// The index is the sum of the non-nil pollutant averages of the latest
// rollup. Any station exceeding a fixed reference limit is excluded from the
// ranking outright, regardless of its index.
func RankStations(metrics []database.HourlyMetric) []RankedStation {
	var ranked []RankedStation
	for i := range metrics {
		m := &metrics[i]
		if exceedsAnyReferenceLimit(m) {
			continue
		}

		index := 0.0
		for _, p := range PriorityOrder {
			if value := averageFor(m, p); value != nil {
				index += *value
			}
		}

		ranked = append(ranked, RankedStation{
			StationID:      m.StationID,
			StationName:    m.StationName,
			City:           m.City,
			PollutionIndex: index,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PollutionIndex != ranked[j].PollutionIndex {
			return ranked[i].PollutionIndex < ranked[j].PollutionIndex
		}
		return ranked[i].StationID < ranked[j].StationID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func exceedsAnyReferenceLimit(m *database.HourlyMetric) bool {
	for _, p := range PriorityOrder {
		value := averageFor(m, p)
		if value == nil {
			continue
		}
		if limit, ok := ReferenceLimit(p); ok && *value > limit {
			return true
		}
	}
	return false
}
