package service

import (
	"context"
	"time"

	"coilcalc/internal/models"
	"coilcalc/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Coil runs the psychrometric engine on a scenario and persists the outcome.
type Coil interface {
	Compute(ctx context.Context, in models.CoilInput) (models.CoilSnapshot, error)
}

// Monitoring exposes read-only access to the latest snapshot.
type Monitoring interface {
	GetSnapshot(ctx context.Context) (models.CoilSnapshot, error)
}

// History exposes the append-only calculation log with filtering access.
type History interface {
	List(ctx context.Context, f HistoryFilter) ([]models.CalcEvent, error)
}

// HistoryFilter supports history filtering by time range and entry kind.
type HistoryFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Kind string    // "", "COMPUTE", "FAULT"
}

// Service aggregates all sub-services.
type Service struct {
	Coil
	Monitoring
	History
	Authorization
}

// NewService wires the repository layer into concrete services. The JWT
// signing key comes from configuration via main.
func NewService(repos *repository.Repository, signingKey string) *Service {
	return &Service{
		Coil:          NewCoilService(repos.SnapshotRepo, repos.HistoryRepo),
		Monitoring:    NewMonitoringService(repos.SnapshotRepo),
		History:       NewHistoryService(repos.HistoryRepo),
		Authorization: NewAuthService(repos.Auth, signingKey),
	}
}
