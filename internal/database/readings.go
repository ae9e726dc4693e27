package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsertReadings writes a batch of raw readings in one bulk statement.
// A uniqueness conflict on (station_id, capture_timestamp) is silently
// skipped: the storage constraint, not the application, decides what is
// already present, so concurrent pollers and retried batches cannot
// duplicate rows. Returns the number of rows actually written.
func InsertReadings(db *gorm.DB, readings []RawReading) (int64, error) {
	if len(readings) == 0 {
		return 0, nil
	}

	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "station_id"},
			{Name: "capture_timestamp"},
		},
		DoNothing: true,
	}).Create(&readings)

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// LatestReadings returns the most recent raw reading per station.
func LatestReadings(db *gorm.DB) ([]RawReading, error) {
	var readings []RawReading
	err := db.
		Where("capture_timestamp = (SELECT MAX(r2.capture_timestamp) FROM raw_readings r2 WHERE r2.station_id = raw_readings.station_id)").
		Order("station_id asc").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}
