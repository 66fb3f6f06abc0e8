package handlers

import (
	"errors"
	"net/http"
	"strings"

	"garden_panel/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK         = "ok"
	statusSimulating = "simulating"
	statusStopped    = "stopped"

	errGetState        = "failed to load state"
	errTriggerSolenoid = "solenoid backend unavailable"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	st, err := h.services.Monitoring.GetState(ctx)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// SolenoidRequest selects the solenoid to open. The id may also be passed as ?id=.
type SolenoidRequest struct {
	// Solenoid identifier, S0 to S3
	ID string `json:"id" example:"S0"`
}

// SolenoidResponse is the backend's verdict on a trigger.
type SolenoidResponse struct {
	Queued bool   `json:"queued" example:"true"`
	Result string `json:"result" example:"Result: Successfully queued"`
}

// SimulateRequest sets the synthetic flow rate. "0" stops the simulation.
type SimulateRequest struct {
	// Pulses per second, 0 to 120
	Hz string `json:"hz" example:"10"`
}

// bindOptionalJSON binds a JSON body when one was sent.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
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

// @Summary      Get panel state
// @Description  Latest camera URL, solenoid status, job result, flow batch and watermark.
// @Tags         panel
// @Produce      json
// @Success      200  {object}  models.PanelState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/panel/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "panel_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Trigger solenoid
// @Description  Queues a watering job. queued=false means another job is already running.
// @Tags         panel
// @Accept       json
// @Produce      json
// @Param        body  body   SolenoidRequest  false  "Solenoid selection"
// @Param        id    query  string           false  "Solenoid id when no body is sent"  Enums(S0,S1,S2,S3)
// @Success      200   {object}  SolenoidResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/panel/solenoid [post]
// @Security     BearerAuth
func (h *Handler) triggerSolenoid(c *gin.Context) {
	var req SolenoidRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = c.Query("id")
	}

	res, err := h.services.Solenoid.Trigger(c.Request.Context(), id)
	switch {
	case errors.Is(err, service.ErrNoSolenoidSelected):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusBadGateway, errTriggerSolenoid, "solenoid_trigger_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, SolenoidResponse{Queued: res.Queued, Result: res.Message()})
}

// @Summary      Start flow simulation
// @Description  Restarts synthetic flow pulses at hz. Any running simulation is stopped first, also when hz is rejected. hz=0 only stops.
// @Tags         panel
// @Accept       json
// @Produce      json
// @Param        body  body   SimulateRequest  false  "Rate payload"
// @Param        hz    query  string           false  "Rate when no body is sent"
// @Success      200   {object}  map[string]interface{}  "status, simulation, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/panel/simulate [post]
// @Security     BearerAuth
func (h *Handler) startSimulation(c *gin.Context) {
	var req SimulateRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	hz := req.Hz
	if strings.TrimSpace(hz) == "" {
		hz = c.Query("hz")
	}

	err := h.services.Simulator.Start(c.Request.Context(), hz)
	switch {
	case errors.Is(err, service.ErrMockPanelDisabled):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		if h.log != nil {
			h.log.Infow("simulation_rejected", "err", err, "hz", hz)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sim := h.services.Simulator.State()
	status := statusStopped
	if sim.Running {
		status = statusSimulating
	}
	h.respondWithStatusAndState(c, status, gin.H{"simulation": sim})
}

// @Summary      Stop flow simulation
// @Tags         panel
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, simulation, state"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/panel/simulate/stop [post]
// @Security     BearerAuth
func (h *Handler) stopSimulation(c *gin.Context) {
	h.services.Simulator.Stop(c.Request.Context())
	h.respondWithStatusAndState(c, statusStopped, gin.H{"simulation": h.services.Simulator.State()})
}
