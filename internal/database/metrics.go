package database

import "gorm.io/gorm"

// LatestHourlyMetrics returns the most recent rollup row per station from
// the metrics store view. Stations with no rollup at all are simply absent.
func LatestHourlyMetrics(db *gorm.DB) ([]HourlyMetric, error) {
	var metrics []HourlyMetric
	err := db.
		Where("measure_hour = (SELECT MAX(m2.measure_hour) FROM hourly_metrics m2 WHERE m2.station_id = hourly_metrics.station_id)").
		Order("station_id asc").
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

// LatestHourlyMetricForStation returns the most recent rollup row for one
// station, or gorm.ErrRecordNotFound if the station has no rollup.
func LatestHourlyMetricForStation(db *gorm.DB, stationID int) (*HourlyMetric, error) {
	var metric HourlyMetric
	err := db.
		Where("station_id = ?", stationID).
		Order("measure_hour desc").
		First(&metric).Error
	if err != nil {
		return nil, err
	}
	return &metric, nil
}

// RecentHourlyMetrics returns up to limit rollup rows, newest first. This is
// the dashboard feed.
func RecentHourlyMetrics(db *gorm.DB, limit int) ([]HourlyMetric, error) {
	var metrics []HourlyMetric
	err := db.
		Order("measure_hour desc").
		Limit(limit).
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

// ThresholdsByStation returns the dynamic threshold rows keyed by station.
func ThresholdsByStation(db *gorm.DB) (map[int]StationThreshold, error) {
	var rows []StationThreshold
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}

	byStation := make(map[int]StationThreshold, len(rows))
	for _, row := range rows {
		byStation[row.StationID] = row
	}
	return byStation, nil
}
