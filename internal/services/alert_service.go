package services

import (
	"errors"

	"github.com/airvigil/airvigil/internal/alerts"
	"github.com/airvigil/airvigil/internal/database"
	"gorm.io/gorm"
)

// ErrNoActiveAlert is returned when a station exists in the rollups but no
// pollutant currently exceeds its limit.
var ErrNoActiveAlert = errors.New("no active alert for station")

// ErrStationUnknown is returned when a station has no rollup row at all.
var ErrStationUnknown = errors.New("station has no hourly metrics")

// AlertService evaluates rollups into alert candidates and gates them
// through the delivery log.
type AlertService struct {
	db     *gorm.DB
	limits alerts.LimitSource
}

// NewAlertService creates a new AlertService. The limit source decides
// whether fixed reference limits or the metrics store's dynamic thresholds
// drive the evaluation.
func NewAlertService(db *gorm.DB, limits alerts.LimitSource) *AlertService {
	return &AlertService{db: db, limits: limits}
}

// CurrentCandidates evaluates the latest rollup per station and returns the
// stations currently in alert state.
func (s *AlertService) CurrentCandidates() ([]alerts.Candidate, error) {
	metrics, err := database.LatestHourlyMetrics(s.db)
	if err != nil {
		return nil, err
	}
	return alerts.Evaluate(metrics, s.limits), nil
}

// LatestAlertForStation returns the current alert candidate for one station.
// ErrStationUnknown means the station has no rollup; ErrNoActiveAlert means
// the station is clean right now. Both are expected outcomes, not failures.
func (s *AlertService) LatestAlertForStation(stationID int) (*alerts.Candidate, error) {
	metric, err := database.LatestHourlyMetricForStation(s.db, stationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationUnknown
		}
		return nil, err
	}

	candidate := alerts.EvaluateStation(metric, s.limits)
	if candidate == nil {
		return nil, ErrNoActiveAlert
	}
	return candidate, nil
}

// PendingAlerts returns the (station, hour, pollutant) records currently in
// alert state and absent from the delivery log.
func (s *AlertService) PendingAlerts() ([]database.DeliveredAlert, error) {
	candidates, err := s.CurrentCandidates()
	if err != nil {
		return nil, err
	}
	return database.FilterUndelivered(s.db, alerts.DeliveryRecords(candidates))
}

// RegisterDeliveries durably records delivered alert triples. Repeats are
// absorbed by the storage constraint. Returns the count newly recorded.
func (s *AlertService) RegisterDeliveries(records []database.DeliveredAlert) (int64, error) {
	return database.RecordDeliveries(s.db, records)
}

// Ranking returns the cleanest-station ranking over the latest rollups.
func (s *AlertService) Ranking() ([]alerts.RankedStation, error) {
	metrics, err := database.LatestHourlyMetrics(s.db)
	if err != nil {
		return nil, err
	}
	return alerts.RankStations(metrics), nil
}
