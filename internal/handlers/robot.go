package handlers

import (
	"errors"
	"io"
	"net/http"

	"packaging_cell/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK           = "ok"
	statusConnected    = "connected"
	statusStarted      = "started"
	statusStopped      = "stopped"
	statusDisconnected = "disconnected"
)

// ConnectRequest selects the controller endpoint. Omitted fields use the configured defaults.
type ConnectRequest struct {
	Host        string `json:"host,omitempty" example:"192.168.0.10"`
	ControlPort int    `json:"control_port,omitempty" binding:"omitempty,min=1,max=65535" example:"29999"`
	ProgramPort int    `json:"program_port,omitempty" binding:"omitempty,min=1,max=65535" example:"30002"`
}

// respondWithRobotStatus includes the freshly sampled robot status.
func (h *Handler) respondWithRobotStatus(c *gin.Context, status string) {
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"robot":  h.services.Robot.Status(c.Request.Context()),
	})
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

// @Summary      Connect robot
// @Description  Opens a new controller session (closing any previous one), powers on and releases the brakes.
// @Tags         robot
// @Accept       json
// @Produce      json
// @Param        payload  body      ConnectRequest  false  "Controller endpoint"
// @Success      200      {object}  map[string]interface{}  "status, robot"
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      502      {object}  map[string]string
// @Router       /api/v1/robot/connect [post]
// @Security     BearerAuth
func (h *Handler) connectRobot(c *gin.Context) {
	var req ConnectRequest
	// empty body means "use defaults"
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.services.Robot.Connect(c.Request.Context(), service.ConnectParams{
		Host:        req.Host,
		ControlPort: req.ControlPort,
		ProgramPort: req.ProgramPort,
	})
	if err != nil {
		h.respondError(c, "robot_connect_failed", err, "host", req.Host)
		return
	}
	h.respondWithRobotStatus(c, statusConnected)
}

// @Summary      Start program
// @Description  Sends the configured program to the controller.
// @Tags         robot
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, robot"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string  "program not found"
// @Failure      409  {object}  map[string]string  "not connected"
// @Router       /api/v1/robot/start [post]
// @Security     BearerAuth
func (h *Handler) startRobot(c *gin.Context) {
	if err := h.services.Robot.Start(c.Request.Context()); err != nil {
		h.respondError(c, "robot_start_failed", err)
		return
	}
	h.respondWithRobotStatus(c, statusStarted)
}

// @Summary      Stop robot
// @Tags         robot
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, robot"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string  "not connected"
// @Router       /api/v1/robot/stop [post]
// @Security     BearerAuth
func (h *Handler) stopRobot(c *gin.Context) {
	if err := h.services.Robot.Stop(c.Request.Context()); err != nil {
		h.respondError(c, "robot_stop_failed", err)
		return
	}
	h.respondWithRobotStatus(c, statusStopped)
}

// @Summary      Disconnect robot
// @Tags         robot
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, robot"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/robot/disconnect [post]
// @Security     BearerAuth
func (h *Handler) disconnectRobot(c *gin.Context) {
	if err := h.services.Robot.Disconnect(c.Request.Context()); err != nil {
		h.respondError(c, "robot_disconnect_failed", err)
		return
	}
	h.respondWithRobotStatus(c, statusDisconnected)
}

// @Summary      Robot status
// @Tags         robot
// @Produce      json
// @Success      200  {object}  service.RobotStatus
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/robot/status [get]
// @Security     BearerAuth
func (h *Handler) robotStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Robot.Status(c.Request.Context()))
}

// @Summary      List programs
// @Tags         robot
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "programs"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/robot/programs [get]
// @Security     BearerAuth
func (h *Handler) listPrograms(c *gin.Context) {
	names, err := h.services.Robot.Programs(c.Request.Context())
	if err != nil {
		h.respondError(c, "robot_programs_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"programs": names})
}
