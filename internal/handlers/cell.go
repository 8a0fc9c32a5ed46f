package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Cell view
// @Description  Latest snapshot published by the poller: sensors, classification, robot and verdict.
// @Tags         cell
// @Produce      json
// @Success      200  {object}  models.CellView
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/cell/view [get]
// @Security     BearerAuth
func (h *Handler) getView(c *gin.Context) {
	v, err := h.services.Monitoring.GetView(c.Request.Context())
	if err != nil {
		h.respondError(c, "cell_view_failed", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// @Summary      Read sensors
// @Tags         sensors
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "di3, di7, classification"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/sensors [get]
// @Security     BearerAuth
func (h *Handler) getSensors(c *gin.Context) {
	p := h.services.Sensors.Read()
	c.JSON(http.StatusOK, gin.H{
		"di3":            p.DI3,
		"di7":            p.DI7,
		"classification": p.Classify(),
	})
}

// @Summary      Simulate sensors
// @Description  Steps the simulated inputs through the demo sequence.
// @Tags         sensors
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "di3, di7, classification"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string  "source cannot be simulated"
// @Router       /api/v1/sensors/simulate [post]
// @Security     BearerAuth
func (h *Handler) simulateSensors(c *gin.Context) {
	p, err := h.services.Sensors.Simulate(c.Request.Context())
	if err != nil {
		h.respondError(c, "sensor_simulate_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"di3":            p.DI3,
		"di7":            p.DI7,
		"classification": p.Classify(),
	})
}
