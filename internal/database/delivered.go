package database

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlertKey identifies one (station, hour, pollutant) alert triple.
type AlertKey struct {
	StationID      int
	AlertTimestamp time.Time
	Pollutant      string
}

// Key returns the triple key for a delivered alert row.
func (d *DeliveredAlert) Key() AlertKey {
	return AlertKey{
		StationID:      d.StationID,
		AlertTimestamp: d.AlertTimestamp.UTC(),
		Pollutant:      d.Pollutant,
	}
}

// RecordDeliveries appends delivery records in one bulk statement. Repeats
// of an already-present (station_id, alert_timestamp, pollutant) triple are
// silently ignored, never duplicated and never an error. Returns the number
// of rows newly recorded.
func RecordDeliveries(db *gorm.DB, deliveries []DeliveredAlert) (int64, error) {
	if len(deliveries) == 0 {
		return 0, nil
	}

	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "station_id"},
			{Name: "alert_timestamp"},
			{Name: "pollutant"},
		},
		DoNothing: true,
	}).Create(&deliveries)

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FilterUndelivered returns the candidates whose triple is absent from the
// delivery log. The log is consulted with a single query over the candidate
// stations and the difference is taken as a set, so concurrent pollers never
// interleave per-row existence checks with their writes.
func FilterUndelivered(db *gorm.DB, candidates []DeliveredAlert) ([]DeliveredAlert, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	stationIDs := make([]int, 0, len(candidates))
	seen := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		if !seen[c.StationID] {
			seen[c.StationID] = true
			stationIDs = append(stationIDs, c.StationID)
		}
	}

	var delivered []DeliveredAlert
	err := db.Where("station_id IN ?", stationIDs).Find(&delivered).Error
	if err != nil {
		return nil, err
	}

	deliveredKeys := make(map[AlertKey]bool, len(delivered))
	for i := range delivered {
		deliveredKeys[delivered[i].Key()] = true
	}

	var pending []DeliveredAlert
	for _, c := range candidates {
		if !deliveredKeys[c.Key()] {
			pending = append(pending, c)
		}
	}
	return pending, nil
}
