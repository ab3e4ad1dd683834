package service

import (
	"context"
	"time"

	"coilcalc/internal/models"
	"coilcalc/internal/psychro"
	"coilcalc/internal/repository"
)

// Baseline scenario used before any computation has been stored: a mild
// heating day with a typical hot-water loop.
var baselineInput = models.CoilInput{
	OutsideTempC:       10,
	OutsideHumidityPct: 60,
	VolumeFlowM3h:      2000,
	TargetTempC:        22,
	SupplyTempC:        60,
	ReturnTempC:        40,
}

type MonitoringService struct {
	snapshotRepo repository.SnapshotRepo
}

func NewMonitoringService(snapshotRepo repository.SnapshotRepo) *MonitoringService {
	return &MonitoringService{snapshotRepo: snapshotRepo}
}

// GetSnapshot returns the latest persisted snapshot. If nothing was computed
// yet, it derives (but does not store) a snapshot for the baseline scenario.
func (s *MonitoringService) GetSnapshot(ctx context.Context) (models.CoilSnapshot, error) {
	snap, err := s.snapshotRepo.Load(ctx)
	if err != nil {
		return models.CoilSnapshot{}, err
	}
	if snap.ID == 0 {
		return s.baselineSnapshot()
	}
	snap.UpdatedAt = toUTC(snap.UpdatedAt)
	return snap, nil
}

// baselineSnapshot computes the default scenario on the fly. The baseline
// inputs are well inside the engine's domain, so a fault here is a bug.
func (s *MonitoringService) baselineSnapshot() (models.CoilSnapshot, error) {
	res, err := psychro.Compute(baselineInput.ToEngine())
	if err != nil {
		return models.CoilSnapshot{}, err
	}
	return models.CoilSnapshot{
		ID:        1, // DB schema enforces single-row snapshot with id=1
		Input:     baselineInput,
		Result:    models.ResultFromEngine(res),
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
