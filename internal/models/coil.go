package models

import (
	"encoding/json"
	"math"
	"time"

	"coilcalc/internal/psychro"
)

// Metric is a float64 result field that marshals non-finite values as null,
// since encoding/json rejects IEEE infinities. Null in a stored or transmitted
// snapshot always stands for the +Inf "not applicable" sentinel.
type Metric float64

func (m Metric) MarshalJSON() ([]byte, error) {
	f := float64(m)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Metric(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*m = Metric(f)
	return nil
}

// CoilInput mirrors psychro.Input with JSON tags for the HTTP surface.
type CoilInput struct {
	OutsideTempC       float64 `json:"outside_temp_c"`
	OutsideHumidityPct float64 `json:"outside_humidity_pct"`
	VolumeFlowM3h      float64 `json:"volume_flow_m3h"`
	TargetTempC        float64 `json:"target_temp_c"`
	SupplyTempC        float64 `json:"supply_temp_c"`
	ReturnTempC        float64 `json:"return_temp_c"`
}

// ToEngine converts the DTO to the engine's input record.
func (in CoilInput) ToEngine() psychro.Input {
	return psychro.Input{
		OutsideTempC:       in.OutsideTempC,
		OutsideHumidityPct: in.OutsideHumidityPct,
		VolumeFlowM3h:      in.VolumeFlowM3h,
		TargetTempC:        in.TargetTempC,
		SupplyTempC:        in.SupplyTempC,
		ReturnTempC:        in.ReturnTempC,
	}
}

// CoilResult is the derived performance snapshot as exposed over HTTP and
// persisted. WaterVolumeFlowM3h and PipeDiameterMM use Metric because they
// may carry the +Inf sentinel.
type CoilResult struct {
	SensiblePowerKW       float64 `json:"sensible_power_kw"`
	LatentPowerKW         float64 `json:"latent_power_kw"`
	TotalPowerKW          float64 `json:"total_power_kw"`
	WaterVolumeFlowM3h    Metric  `json:"water_volume_flow_m3h"`
	FinalHumidityPct      float64 `json:"final_humidity_pct"`
	IsHeating             bool    `json:"is_heating"`
	DewPointC             float64 `json:"dew_point_c"`
	InitialAbsHumidityGkg float64 `json:"initial_abs_humidity_gkg"`
	FinalAbsHumidityGkg   float64 `json:"final_abs_humidity_gkg"`
	Efficiency            float64 `json:"efficiency"`
	PipeDiameterMM        Metric  `json:"pipe_diameter_mm"`
}

// ResultFromEngine converts the engine's output record to the DTO.
func ResultFromEngine(r psychro.Result) CoilResult {
	return CoilResult{
		SensiblePowerKW:       r.SensiblePowerKW,
		LatentPowerKW:         r.LatentPowerKW,
		TotalPowerKW:          r.TotalPowerKW,
		WaterVolumeFlowM3h:    Metric(r.WaterVolumeFlowM3h),
		FinalHumidityPct:      r.FinalHumidityPct,
		IsHeating:             r.IsHeating,
		DewPointC:             r.DewPointC,
		InitialAbsHumidityGkg: r.InitialAbsHumidityGkg,
		FinalAbsHumidityGkg:   r.FinalAbsHumidityGkg,
		Efficiency:            r.Efficiency,
		PipeDiameterMM:        Metric(r.PipeDiameterMM),
	}
}

// CoilSnapshot is the most recent scenario: the inputs it was computed from,
// the derived result, and when it was produced.
type CoilSnapshot struct {
	ID        int        `json:"id"`
	Input     CoilInput  `json:"input"`
	Result    CoilResult `json:"result"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CalcEvent is a single history entry.
type CalcEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Kind        string    `json:"kind"`        // COMPUTE | FAULT
	Description string    `json:"description"` // human-readable
	Payload     any       `json:"payload,omitempty"`
}
