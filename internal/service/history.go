package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"coilcalc/internal/models"
	"coilcalc/internal/repository"
)

type HistoryService struct {
	historyRepo repository.HistoryRepo
}

func NewHistoryService(historyRepo repository.HistoryRepo) *HistoryService {
	return &HistoryService{historyRepo: historyRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeKind trims spaces and uppercases the entry kind filter.
func normalizeKind(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f HistoryFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	kind := normalizeKind(f.Kind)
	return from, to, kind, nil
}

func (s *HistoryService) List(ctx context.Context, f HistoryFilter) ([]models.CalcEvent, error) {
	from, to, kind, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.historyRepo.List(ctx, from, to, kind)
}
