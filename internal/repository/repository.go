package repository

import (
	"coilcalc/internal/models"
	"coilcalc/internal/repository/db"
	"context"
	"database/sql"
	"time"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// SnapshotRepo persists the single most recent coil scenario.
type SnapshotRepo interface {
	Save(ctx context.Context, s models.CoilSnapshot) error
	Load(ctx context.Context) (models.CoilSnapshot, error)
}

// HistoryRepo is the append-only calculation log with filtered access.
type HistoryRepo interface {
	Append(ctx context.Context, e models.CalcEvent) error
	List(ctx context.Context, from, to time.Time, kind string) ([]models.CalcEvent, error)
}

type Repository struct {
	SnapshotRepo SnapshotRepo
	HistoryRepo  HistoryRepo
	Auth         Authorization
}

func NewRepository(database *sql.DB) *Repository {
	return &Repository{
		SnapshotRepo: NewSnapshotSQLite(database),
		HistoryRepo:  NewHistorySQLite(database),
		Auth:         NewUserRepository(database),
	}
}

// InitDB opens the SQLite file and applies the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
