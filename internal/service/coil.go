package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coilcalc/internal/models"
	"coilcalc/internal/psychro"
	"coilcalc/internal/repository"

	"github.com/google/uuid"
)

// History entry kinds.
const (
	KindCompute = "COMPUTE"
	KindFault   = "FAULT"
)

// ErrComputationFault wraps psychro.ErrComputation at the service boundary so
// handlers can map it to a client-visible status without importing the engine.
var ErrComputationFault = errors.New("coil computation fault")

type CoilService struct {
	snapshotRepo repository.SnapshotRepo
	historyRepo  repository.HistoryRepo
}

func NewCoilService(snapshotRepo repository.SnapshotRepo, historyRepo repository.HistoryRepo) *CoilService {
	return &CoilService{snapshotRepo: snapshotRepo, historyRepo: historyRepo}
}

// Compute runs the engine on the given inputs, stores the resulting snapshot
// as the current one, and appends a history entry. On an engine fault it
// appends a FAULT entry and returns ErrComputationFault; nothing is stored.
func (s *CoilService) Compute(ctx context.Context, in models.CoilInput) (models.CoilSnapshot, error) {
	now := time.Now().UTC()

	res, err := psychro.Compute(in.ToEngine())
	if err != nil {
		// Best-effort fault record; the fault itself is what the caller needs.
		_ = s.historyRepo.Append(ctx, models.CalcEvent{
			EventID:     uuid.NewString(),
			OccurredAt:  now,
			Kind:        KindFault,
			Description: "Computation failed",
			Payload:     map[string]any{"input": in},
		})
		return models.CoilSnapshot{}, fmt.Errorf("%w: %v", ErrComputationFault, err)
	}

	snap := models.CoilSnapshot{
		ID:        1,
		Input:     in,
		Result:    models.ResultFromEngine(res),
		UpdatedAt: now,
	}
	if err := s.snapshotRepo.Save(ctx, snap); err != nil {
		return models.CoilSnapshot{}, err
	}

	if err := s.historyRepo.Append(ctx, models.CalcEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Kind:        KindCompute,
		Description: describeResult(snap.Result),
		Payload: map[string]any{
			"total_power_kw":     snap.Result.TotalPowerKW,
			"is_heating":         snap.Result.IsHeating,
			"final_humidity_pct": snap.Result.FinalHumidityPct,
			"efficiency":         snap.Result.Efficiency,
		},
	}); err != nil {
		return models.CoilSnapshot{}, err
	}

	return snap, nil
}

func describeResult(r models.CoilResult) string {
	mode := "cooling"
	if r.IsHeating {
		mode = "heating"
	}
	return fmt.Sprintf("Computed %s scenario, total power %.2f kW", mode, r.TotalPowerKW)
}
