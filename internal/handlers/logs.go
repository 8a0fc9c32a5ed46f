package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"packaging_cell/internal/models"
	"packaging_cell/internal/service"

	"github.com/gin-gonic/gin"
)

const layoutDate = "2006-01-02"

// Accepted layouts for time query parameters, tried in order.
var queryTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", layoutDate}

// logQuery is the query string of GET /api/v1/logs.
type logQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
	Type string `form:"type"`
}

// queryParamError is a malformed query parameter; statusFor maps it to 400.
type queryParamError struct {
	Param string
	Value string
}

func (e *queryParamError) Error() string {
	return fmt.Sprintf("invalid %q value %q; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", e.Param, e.Value)
}

// parseQueryTime parses a time parameter as UTC. A date-only value is the
// start of that day, or its last nanosecond when endOfDay is set.
func parseQueryTime(param, value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range queryTimeLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if endOfDay && layout == layoutDate {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t.UTC(), nil
	}
	return time.Time{}, &queryParamError{Param: param, Value: value}
}

// filter converts the raw query into a service filter. Type validation is left
// to the event log service so both layers agree on the known types.
func (q logQuery) filter() (service.LogFilter, error) {
	from, err := parseQueryTime("from", strings.TrimSpace(q.From), false)
	if err != nil {
		return service.LogFilter{}, err
	}
	to, err := parseQueryTime("to", strings.TrimSpace(q.To), true)
	if err != nil {
		return service.LogFilter{}, err
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return service.LogFilter{}, service.ErrInvalidTimeRange
	}
	return service.LogFilter{From: from, To: to, Type: q.Type}, nil
}

// @Summary      List logs
// @Description  Cell event log, oldest first. Date-only 'to' includes the whole day.
// @Tags         logs
// @Produce      json
// @Param        from  query     string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to    query     string  false  "End of range, inclusive"  example(2025-08-31)
// @Param        type  query     string  false  "Event type (case-insensitive)"  Enums(CONNECT,DISCONNECT,POWER_ON,BRAKE_RELEASE,START,STOP,ORDER_FETCH,SENSOR_SIMULATE,ERROR)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string  "bad time, inverted range or unknown type"
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	var q logQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondError(c, "logs_bad_query", &queryParamError{Param: "query", Value: c.Request.URL.RawQuery})
		return
	}
	f, err := q.filter()
	if err != nil {
		h.respondError(c, "logs_bad_query", err)
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, "logs_list_failed", err, "from", f.From, "to", f.To, "type", f.Type)
		return
	}
	if events == nil {
		events = []models.CellEvent{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// @Summary      List event types
// @Tags         logs
// @Produce      json
// @Success      200  {object}  map[string][]string  "types"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/logs/types [get]
// @Security     BearerAuth
func (h *Handler) getLogTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": models.EventTypes})
}
