package handlers

import (
	"errors"
	"net/http"

	"packaging_cell/internal/robot"
	"packaging_cell/internal/service"

	"github.com/gin-gonic/gin"
)

const errInternal = "internal error"

// statusFor maps a service or robot error to an HTTP status.
func statusFor(err error) int {
	var (
		resErr   *robot.ResolutionError
		connErr  *robot.ConnectError
		paramErr *queryParamError
	)
	switch {
	case errors.Is(err, robot.ErrNotConnected),
		errors.Is(err, robot.ErrSessionActive),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrSimulationUnavailable):
		return http.StatusConflict
	case errors.As(err, &resErr),
		errors.As(err, &connErr),
		errors.Is(err, service.ErrRobotCommand):
		return http.StatusBadGateway
	case errors.Is(err, robot.ErrSourceNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.As(err, &paramErr),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrUnknownEventType),
		errors.Is(err, service.ErrOrderIDMissing),
		errors.Is(err, service.ErrInvalidBagCount),
		errors.Is(err, service.ErrHostMissing),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the mapped status. Server-side failures are logged
// under logKey and hidden behind a generic message.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := statusFor(err)
	if h.log != nil {
		fields := append([]interface{}{"err", err, "status", code}, kv...)
		if code >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = errInternal
	}
	c.JSON(code, gin.H{"error": msg})
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
