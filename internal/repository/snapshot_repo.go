package repository

import (
	"coilcalc/internal/models"
	"context"
	"database/sql"
	"errors"
	"math"
	"time"
)

type SnapshotSQLite struct {
	db *sql.DB
}

func NewSnapshotSQLite(db *sql.DB) *SnapshotSQLite {
	return &SnapshotSQLite{db: db}
}

// constants and helpers for clarity and reuse
const (
	coilSnapshotRowID = 1

	insertOrUpdateSnapshotSQL = `
		INSERT INTO coil_snapshot (
			id,
			outside_temp_c, outside_humidity_pct, volume_flow_m3h,
			target_temp_c, supply_temp_c, return_temp_c,
			sensible_power_kw, latent_power_kw, total_power_kw,
			water_volume_flow_m3h, final_humidity_pct, is_heating,
			dew_point_c, initial_abs_humidity_gkg, final_abs_humidity_gkg,
			efficiency, pipe_diameter_mm, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			outside_temp_c=excluded.outside_temp_c,
			outside_humidity_pct=excluded.outside_humidity_pct,
			volume_flow_m3h=excluded.volume_flow_m3h,
			target_temp_c=excluded.target_temp_c,
			supply_temp_c=excluded.supply_temp_c,
			return_temp_c=excluded.return_temp_c,
			sensible_power_kw=excluded.sensible_power_kw,
			latent_power_kw=excluded.latent_power_kw,
			total_power_kw=excluded.total_power_kw,
			water_volume_flow_m3h=excluded.water_volume_flow_m3h,
			final_humidity_pct=excluded.final_humidity_pct,
			is_heating=excluded.is_heating,
			dew_point_c=excluded.dew_point_c,
			initial_abs_humidity_gkg=excluded.initial_abs_humidity_gkg,
			final_abs_humidity_gkg=excluded.final_abs_humidity_gkg,
			efficiency=excluded.efficiency,
			pipe_diameter_mm=excluded.pipe_diameter_mm,
			updated_at=excluded.updated_at
	`

	selectSnapshotSQL = `
		SELECT id,
			outside_temp_c, outside_humidity_pct, volume_flow_m3h,
			target_temp_c, supply_temp_c, return_temp_c,
			sensible_power_kw, latent_power_kw, total_power_kw,
			water_volume_flow_m3h, final_humidity_pct, is_heating,
			dew_point_c, initial_abs_humidity_gkg, final_abs_humidity_gkg,
			efficiency, pipe_diameter_mm, updated_at
		FROM coil_snapshot WHERE id=?
	`
)

// metricToNull maps the +Inf sentinel (and any other non-finite value) to
// NULL for storage; finite values pass through.
func metricToNull(m models.Metric) sql.NullFloat64 {
	f := float64(m)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// nullToMetric restores the +Inf sentinel from a NULL column.
func nullToMetric(n sql.NullFloat64) models.Metric {
	if !n.Valid {
		return models.Metric(math.Inf(1))
	}
	return models.Metric(n.Float64)
}

// Save updates or inserts the coil_snapshot row (id always 1).
func (r *SnapshotSQLite) Save(ctx context.Context, snap models.CoilSnapshot) error {
	// ensure UpdatedAt is always persisted as UTC; set if zero
	tsUTC := snap.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertOrUpdateSnapshotSQL,
		coilSnapshotRowID,
		snap.Input.OutsideTempC,
		snap.Input.OutsideHumidityPct,
		snap.Input.VolumeFlowM3h,
		snap.Input.TargetTempC,
		snap.Input.SupplyTempC,
		snap.Input.ReturnTempC,
		snap.Result.SensiblePowerKW,
		snap.Result.LatentPowerKW,
		snap.Result.TotalPowerKW,
		metricToNull(snap.Result.WaterVolumeFlowM3h),
		snap.Result.FinalHumidityPct,
		snap.Result.IsHeating,
		snap.Result.DewPointC,
		snap.Result.InitialAbsHumidityGkg,
		snap.Result.FinalAbsHumidityGkg,
		snap.Result.Efficiency,
		metricToNull(snap.Result.PipeDiameterMM),
		tsUTC,
	)
	return err
}

// Load fetches the single coil_snapshot row (id=1).
func (r *SnapshotSQLite) Load(ctx context.Context) (models.CoilSnapshot, error) {
	row := r.db.QueryRowContext(ctx, selectSnapshotSQL, coilSnapshotRowID)

	var (
		s         models.CoilSnapshot
		waterFlow sql.NullFloat64
		pipeDiam  sql.NullFloat64
	)
	if err := row.Scan(
		&s.ID,
		&s.Input.OutsideTempC,
		&s.Input.OutsideHumidityPct,
		&s.Input.VolumeFlowM3h,
		&s.Input.TargetTempC,
		&s.Input.SupplyTempC,
		&s.Input.ReturnTempC,
		&s.Result.SensiblePowerKW,
		&s.Result.LatentPowerKW,
		&s.Result.TotalPowerKW,
		&waterFlow,
		&s.Result.FinalHumidityPct,
		&s.Result.IsHeating,
		&s.Result.DewPointC,
		&s.Result.InitialAbsHumidityGkg,
		&s.Result.FinalAbsHumidityGkg,
		&s.Result.Efficiency,
		&pipeDiam,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CoilSnapshot{}, nil // no snapshot yet
		}
		return models.CoilSnapshot{}, err
	}

	s.Result.WaterVolumeFlowM3h = nullToMetric(waterFlow)
	s.Result.PipeDiameterMM = nullToMetric(pipeDiam)
	s.UpdatedAt = s.UpdatedAt.UTC()

	return s, nil
}
