package repository

import (
	"coilcalc/internal/models"
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

type HistorySQLite struct {
	db *sql.DB
}

func NewHistorySQLite(db *sql.DB) *HistorySQLite { return &HistorySQLite{db: db} }

// Append inserts a new history entry. If EventID or OccurredAt are empty,
// they're set.
func (r *HistorySQLite) Append(ctx context.Context, e models.CalcEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	// marshal payload if present
	var payloadPtr *string
	if e.Payload != nil {
		if b, err := json.Marshal(e.Payload); err == nil {
			s := string(b)
			payloadPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calc_events (id, occurred_at, kind, message, payload)
		VALUES (?, ?, ?, ?, ?)
	`,
		e.EventID,
		e.OccurredAt.Format("2006-01-02 15:04:05"), // SQLite TIMESTAMP format
		strings.ToUpper(strings.TrimSpace(e.Kind)),
		e.Description,
		payloadPtr,
	)

	return err
}

// List returns entries filtered by [from, to] (inclusive) and/or kind, ordered ASC.
func (r *HistorySQLite) List(ctx context.Context, from, to time.Time, kind string) ([]models.CalcEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if kind = strings.ToUpper(strings.TrimSpace(kind)); kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, kind)
	}

	q := `SELECT id, occurred_at, kind, message, payload FROM calc_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.CalcEvent, 0, 64)
	for rows.Next() {
		var ev models.CalcEvent
		var payloadStr sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Kind, &ev.Description, &payloadStr); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if payloadStr.Valid && payloadStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(payloadStr.String), &v); err == nil {
				ev.Payload = v
			} else {
				ev.Payload = payloadStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
