package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"coilcalc/internal/models"
)

type fakeSnapshotRepo struct {
	loadResp   models.CoilSnapshot
	loadErr    error
	saveErr    error
	savedCalls []models.CoilSnapshot
}

func (f *fakeSnapshotRepo) Load(ctx context.Context) (models.CoilSnapshot, error) {
	return f.loadResp, f.loadErr
}
func (f *fakeSnapshotRepo) Save(ctx context.Context, s models.CoilSnapshot) error {
	f.savedCalls = append(f.savedCalls, s)
	return f.saveErr
}

type fakeHistoryRepo struct {
	appendErr error
	events    []models.CalcEvent
	listErr   error
}

func (f *fakeHistoryRepo) Append(ctx context.Context, e models.CalcEvent) error {
	f.events = append(f.events, e)
	return f.appendErr
}
func (f *fakeHistoryRepo) List(ctx context.Context, from time.Time, to time.Time, kind string) ([]models.CalcEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.CalcEvent
	for _, e := range f.events {
		if !e.OccurredAt.Before(from) && !e.OccurredAt.After(to) {
			if kind == "" || e.Kind == kind {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func assertWithinTimeWindow(t *testing.T, ts time.Time, start time.Time, end time.Time) {
	t.Helper()
	if ts.Before(start) || ts.After(end) {
		t.Fatalf("time %v not within window [%v, %v]", ts, start, end)
	}
}

func lastSavedSnapshot(t *testing.T, f *fakeSnapshotRepo) models.CoilSnapshot {
	t.Helper()
	if len(f.savedCalls) == 0 {
		t.Fatalf("expected at least one Save call")
	}
	return f.savedCalls[len(f.savedCalls)-1]
}

var heatingInput = models.CoilInput{
	OutsideTempC:       10,
	OutsideHumidityPct: 60,
	VolumeFlowM3h:      2000,
	TargetTempC:        22,
	SupplyTempC:        60,
	ReturnTempC:        40,
}

func TestCoilService_Compute_SavesSnapshotAndAppendsEvent(t *testing.T) {
	srepo := &fakeSnapshotRepo{}
	hrepo := &fakeHistoryRepo{}
	cs := NewCoilService(srepo, hrepo)

	t0 := time.Now().UTC()
	snap, err := cs.Compute(context.Background(), heatingInput)
	t1 := time.Now().UTC()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.ID != 1 {
		t.Fatalf("expected ID=1, got %d", snap.ID)
	}
	if !snap.Result.IsHeating {
		t.Fatalf("expected heating mode for %+v", heatingInput)
	}
	if snap.Result.SensiblePowerKW <= 0 {
		t.Fatalf("expected positive sensible power, got %f", snap.Result.SensiblePowerKW)
	}
	assertWithinTimeWindow(t, snap.UpdatedAt, t0, t1)

	saved := lastSavedSnapshot(t, srepo)
	if saved.Input != heatingInput {
		t.Fatalf("saved snapshot has wrong input: %+v", saved.Input)
	}

	if len(hrepo.events) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(hrepo.events))
	}
	ev := hrepo.events[0]
	if ev.Kind != KindCompute {
		t.Fatalf("expected %s entry, got %s", KindCompute, ev.Kind)
	}
	if ev.EventID == "" {
		t.Fatalf("expected non-empty EventID")
	}
	assertWithinTimeWindow(t, ev.OccurredAt, t0, t1)
}

func TestCoilService_Compute_FaultAppendsFaultEventAndSavesNothing(t *testing.T) {
	srepo := &fakeSnapshotRepo{}
	hrepo := &fakeHistoryRepo{}
	cs := NewCoilService(srepo, hrepo)

	in := heatingInput
	in.OutsideHumidityPct = 0 // vapor pressure 0 triggers the engine fault

	_, err := cs.Compute(context.Background(), in)
	if !errors.Is(err, ErrComputationFault) {
		t.Fatalf("expected ErrComputationFault, got %v", err)
	}
	if len(srepo.savedCalls) != 0 {
		t.Fatalf("expected no Save on fault, got %d", len(srepo.savedCalls))
	}
	if len(hrepo.events) != 1 || hrepo.events[0].Kind != KindFault {
		t.Fatalf("expected a single FAULT entry, got %+v", hrepo.events)
	}
}

func TestCoilService_Compute_SaveErrorIsPropagated(t *testing.T) {
	srepo := &fakeSnapshotRepo{saveErr: errors.New("db down")}
	hrepo := &fakeHistoryRepo{}
	cs := NewCoilService(srepo, hrepo)

	if _, err := cs.Compute(context.Background(), heatingInput); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if len(hrepo.events) != 0 {
		t.Fatalf("expected no history entry when save fails, got %d", len(hrepo.events))
	}
}

func TestCoilService_Compute_DegenerateWaterLoopStoresSentinel(t *testing.T) {
	srepo := &fakeSnapshotRepo{}
	hrepo := &fakeHistoryRepo{}
	cs := NewCoilService(srepo, hrepo)

	in := heatingInput
	in.SupplyTempC = 50
	in.ReturnTempC = 50

	snap, err := cs.Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsInf(float64(snap.Result.WaterVolumeFlowM3h), 1) {
		t.Fatalf("expected +Inf water flow sentinel, got %v", snap.Result.WaterVolumeFlowM3h)
	}
	if !math.IsInf(float64(snap.Result.PipeDiameterMM), 1) {
		t.Fatalf("expected +Inf pipe diameter sentinel, got %v", snap.Result.PipeDiameterMM)
	}
}

func TestMonitoringService_GetSnapshot_BaselineWhenEmpty(t *testing.T) {
	srepo := &fakeSnapshotRepo{}
	ms := NewMonitoringService(srepo)

	snap, err := ms.GetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.ID != 1 {
		t.Fatalf("expected baseline ID=1, got %d", snap.ID)
	}
	if snap.Input != baselineInput {
		t.Fatalf("expected baseline input, got %+v", snap.Input)
	}
	if !snap.Result.IsHeating {
		t.Fatalf("baseline scenario should be heating")
	}
}

func TestMonitoringService_GetSnapshot_ReturnsStoredUTC(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Tokyo")
	stored := models.CoilSnapshot{
		ID:        1,
		Input:     heatingInput,
		UpdatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, loc),
	}
	ms := NewMonitoringService(&fakeSnapshotRepo{loadResp: stored})

	snap, err := ms.GetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.UpdatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", snap.UpdatedAt.Location())
	}
	if snap.Input != stored.Input {
		t.Fatalf("unexpected snapshot input: %+v", snap.Input)
	}
}

func TestMonitoringService_GetSnapshot_LoadErrorIsPropagated(t *testing.T) {
	ms := NewMonitoringService(&fakeSnapshotRepo{loadErr: errors.New("db down")})
	if _, err := ms.GetSnapshot(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
