// Package psychro implements the psychrometric performance calculation for an
// air-handling heating/cooling coil. Everything here is pure: one Input in,
// one Result out, no state between calls.
//
// Units: temperatures °C, relative humidity %, air flow m³/h, power kW,
// absolute humidity g/kg dry air, pipe diameter mm, vapor pressure hPa.
package psychro

import (
	"errors"
	"math"
)

// Physical constants.
const (
	AirDensity               = 1.204   // kg/m³ at ~20 °C
	SpecificHeatAir          = 1.005   // kJ/(kg·K)
	SpecificHeatWater        = 4.186   // kJ/(kg·K)
	WaterDensity             = 1000.0  // kg/m³
	LatentHeatVaporization   = 2260.0  // kJ/kg
	RecommendedWaterVelocity = 1.5     // m/s, fixed sizing target
	AtmosphericPressure      = 1013.25 // hPa
)

// Magnus approximation coefficients for saturation vapor pressure over water.
const (
	magnusBase  = 6.112
	magnusCoefA = 17.67
	magnusCoefB = 243.5
)

// efficiencyEpsilon guards the efficiency division against a near-zero
// supply-minus-outside temperature difference.
const efficiencyEpsilon = 1e-6

// ErrComputation reports an internal arithmetic fault (e.g. a logarithm of a
// non-positive value). The intentional +Inf water-side sentinels are not
// faults; see Result.
var ErrComputation = errors.New("psychro: computation fault")

// Input is one steady-state snapshot of the coil's operating conditions.
// Values are taken as-is: physically implausible inputs are computed through,
// plausibility checks belong to the caller.
type Input struct {
	OutsideTempC       float64
	OutsideHumidityPct float64
	VolumeFlowM3h      float64
	TargetTempC        float64
	SupplyTempC        float64
	ReturnTempC        float64
}

// Result is the derived performance snapshot. WaterVolumeFlowM3h and
// PipeDiameterMM are +Inf when supply and return temperature are equal
// (undefined flow requirement); every other field is always finite.
type Result struct {
	SensiblePowerKW       float64
	LatentPowerKW         float64
	TotalPowerKW          float64
	WaterVolumeFlowM3h    float64
	FinalHumidityPct      float64
	IsHeating             bool
	DewPointC             float64
	InitialAbsHumidityGkg float64
	FinalAbsHumidityGkg   float64
	Efficiency            float64
	PipeDiameterMM        float64
}

// SaturationVaporPressure returns the saturation vapor pressure in hPa for a
// temperature in °C using the Magnus approximation.
func SaturationVaporPressure(tempC float64) float64 {
	return magnusBase * math.Exp(magnusCoefA*tempC/(tempC+magnusCoefB))
}

// DewPoint inverts the Magnus formula for a partial vapor pressure in hPa.
// A non-positive pressure has no dew point and yields ErrComputation.
func DewPoint(vaporPressureHPa float64) (float64, error) {
	if vaporPressureHPa <= 0 {
		return 0, ErrComputation
	}
	ln := math.Log(vaporPressureHPa / magnusBase)
	return magnusCoefB * ln / (magnusCoefA - ln), nil
}

// AbsoluteHumidity converts a partial vapor pressure in hPa to the moisture
// content of the air in g water vapor per kg dry air.
func AbsoluteHumidity(vaporPressureHPa float64) float64 {
	return 622 * vaporPressureHPa / (AtmosphericPressure - vaporPressureHPa)
}

// Compute derives the coil performance snapshot for one set of operating
// conditions. It fails only on arithmetic faults, never on out-of-range
// inputs.
func Compute(in Input) (Result, error) {
	airMassFlow := in.VolumeFlowM3h * AirDensity / 3600 // kg/s

	deltaTAir := in.TargetTempC - in.OutsideTempC
	isHeating := deltaTAir > 0
	sensiblePower := airMassFlow * SpecificHeatAir * deltaTAir // kW

	initialVaporPressure := in.OutsideHumidityPct / 100 * SaturationVaporPressure(in.OutsideTempC)
	dewPoint, err := DewPoint(initialVaporPressure)
	if err != nil {
		return Result{}, err
	}
	initialAbsHumidity := AbsoluteHumidity(initialVaporPressure)

	var finalHumidity, finalAbsHumidity, latentPower float64
	if isHeating || in.TargetTempC >= dewPoint {
		// Moisture content unchanged, relative humidity shifts with temperature.
		finalAbsHumidity = initialAbsHumidity
		finalHumidity = initialVaporPressure / SaturationVaporPressure(in.TargetTempC) * 100
	} else {
		// Cooling below the dew point: air leaves saturated, condensate carries
		// latent heat out of the air stream.
		finalHumidity = 100
		finalAbsHumidity = AbsoluteHumidity(SaturationVaporPressure(in.TargetTempC))
		condensateRate := airMassFlow * (initialAbsHumidity - finalAbsHumidity) / 1000 // kg/s
		latentPower = -math.Abs(condensateRate * LatentHeatVaporization)
	}
	finalHumidity = clamp(finalHumidity, 0, 100)

	totalPower := sensiblePower + latentPower

	// Water side. Equal supply and return temperature means the required flow
	// is undefined; both sizing outputs become the +Inf "not applicable"
	// sentinel rather than an error.
	waterVolumeFlow := math.Inf(1)
	pipeDiameter := math.Inf(1)
	if deltaTWater := math.Abs(in.SupplyTempC - in.ReturnTempC); deltaTWater > 0 {
		waterMassFlow := math.Abs(totalPower) / (SpecificHeatWater * deltaTWater) // kg/s
		waterVolumeFlow = waterMassFlow * 3600 / WaterDensity                     // m³/h
		area := waterVolumeFlow / 3600 / RecommendedWaterVelocity                 // m²
		pipeDiameter = 1000 * math.Sqrt(4*area/math.Pi)                           // mm
	}

	// Efficiency only makes sense when the water supply temperature lies on
	// the same side of the outside temperature as the operating mode;
	// everything else reads as 0.
	efficiency := 0.0
	potentialDeltaT := in.SupplyTempC - in.OutsideTempC
	validScenario := (isHeating && potentialDeltaT > 0) || (!isHeating && potentialDeltaT < 0)
	if validScenario && math.Abs(potentialDeltaT) > efficiencyEpsilon {
		efficiency = deltaTAir / potentialDeltaT
	}
	efficiency = clamp(efficiency, 0, 1)

	res := Result{
		SensiblePowerKW:       sensiblePower,
		LatentPowerKW:         latentPower,
		TotalPowerKW:          totalPower,
		WaterVolumeFlowM3h:    waterVolumeFlow,
		FinalHumidityPct:      finalHumidity,
		IsHeating:             isHeating,
		DewPointC:             dewPoint,
		InitialAbsHumidityGkg: initialAbsHumidity,
		FinalAbsHumidityGkg:   finalAbsHumidity,
		Efficiency:            efficiency,
		PipeDiameterMM:        pipeDiameter,
	}
	if faulted(res) {
		return Result{}, ErrComputation
	}
	return res, nil
}

// faulted reports whether any field that must be finite came out NaN or
// infinite. The two water-side sentinels are allowed to be +Inf but not NaN.
func faulted(r Result) bool {
	for _, v := range []float64{
		r.SensiblePowerKW,
		r.LatentPowerKW,
		r.TotalPowerKW,
		r.FinalHumidityPct,
		r.DewPointC,
		r.InitialAbsHumidityGkg,
		r.FinalAbsHumidityGkg,
		r.Efficiency,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return math.IsNaN(r.WaterVolumeFlowM3h) || math.IsNaN(r.PipeDiameterMM) ||
		math.IsInf(r.WaterVolumeFlowM3h, -1) || math.IsInf(r.PipeDiameterMM, -1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
