package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coilcalc/internal/models"
)

func TestHistoryService_List_RejectsInvertedRange(t *testing.T) {
	hs := NewHistoryService(&fakeHistoryRepo{})

	now := time.Now().UTC()
	_, err := hs.List(context.Background(), HistoryFilter{
		From: now,
		To:   now.Add(-time.Hour),
	})
	if !errors.Is(err, errInvalidTimeRange) {
		t.Fatalf("expected errInvalidTimeRange, got %v", err)
	}
}

func TestHistoryService_List_NormalizesKindAndFilters(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeHistoryRepo{
		events: []models.CalcEvent{
			{EventID: "a", OccurredAt: base, Kind: KindCompute},
			{EventID: "b", OccurredAt: base.Add(time.Hour), Kind: KindFault},
			{EventID: "c", OccurredAt: base.Add(2 * time.Hour), Kind: KindCompute},
		},
	}
	hs := NewHistoryService(repo)

	out, err := hs.List(context.Background(), HistoryFilter{
		From: base,
		To:   base.Add(3 * time.Hour),
		Kind: "  fault ", // should be trimmed and uppercased
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].EventID != "b" {
		t.Fatalf("expected only the FAULT entry, got %+v", out)
	}
}

func TestHistoryService_List_RepoErrorIsPropagated(t *testing.T) {
	hs := NewHistoryService(&fakeHistoryRepo{listErr: errors.New("db down")})
	if _, err := hs.List(context.Background(), HistoryFilter{}); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
