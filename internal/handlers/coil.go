package handlers

import (
	"errors"
	"net/http"

	"coilcalc/internal/models"
	"coilcalc/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK       = "ok"
	statusComputed = "computed"

	errComputeCoil    = "computation failed"
	errGetSnapshot    = "failed to load snapshot"
	errInvalidBodyPre = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// ComputeRequest is an exported model for Swagger docs of the compute payload.
// All six fields are plain numbers in the documented units; out-of-range
// values are computed through, range clamping is a client concern.
type ComputeRequest struct {
	// Outside air temperature in °C
	OutsideTempC float64 `json:"outside_temp_c" example:"10"`
	// Outside relative humidity in %
	OutsideHumidityPct float64 `json:"outside_humidity_pct" example:"60"`
	// Air volume flow in m³/h
	VolumeFlowM3h float64 `json:"volume_flow_m3h" example:"2000"`
	// Target air temperature after the coil in °C
	TargetTempC float64 `json:"target_temp_c" example:"22"`
	// Water supply temperature in °C
	SupplyTempC float64 `json:"supply_temp_c" example:"60"`
	// Water return temperature in °C
	ReturnTempC float64 `json:"return_temp_c" example:"40"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Compute coil performance
// @Description  Runs the psychrometric engine on the six inputs and stores the snapshot. Non-finite water-side outputs are serialized as null ("not applicable").
// @Tags         coil
// @Accept       json
// @Produce      json
// @Param        body  body   ComputeRequest  true  "Scenario inputs"
// @Success      200   {object}  map[string]interface{}  "status, snapshot"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string  "computation fault"
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/coil/compute [post]
// @Security     BearerAuth
func (h *Handler) computeCoil(c *gin.Context) {
	var in models.CoilInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPre + err.Error()})
		return
	}
	ctx := c.Request.Context()
	snap, err := h.services.Coil.Compute(ctx, in)
	if err != nil {
		if errors.Is(err, service.ErrComputationFault) {
			// Uniform "no result" body; clients render a placeholder.
			h.logAndJSONError(c, http.StatusUnprocessableEntity, errComputeCoil, "coil_compute_fault", err)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errComputeCoil, "coil_compute_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   statusComputed,
		"snapshot": snap,
	})
}

// @Summary      Get latest snapshot
// @Tags         coil
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/coil/snapshot [get]
// @Security     BearerAuth
func (h *Handler) getSnapshot(c *gin.Context) {
	ctx := c.Request.Context()
	snap, err := h.services.Monitoring.GetSnapshot(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetSnapshot, "coil_get_snapshot_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
