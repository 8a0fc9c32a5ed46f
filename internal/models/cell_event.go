package models

import "time"

// Cell event types.
const (
	EventConnect        = "CONNECT"
	EventDisconnect     = "DISCONNECT"
	EventPowerOn        = "POWER_ON"
	EventBrakeRelease   = "BRAKE_RELEASE"
	EventStart          = "START"
	EventStop           = "STOP"
	EventOrderFetch     = "ORDER_FETCH"
	EventSensorSimulate = "SENSOR_SIMULATE"
	EventError          = "ERROR"
)

// EventTypes lists every type the cell records, in display order.
var EventTypes = []string{
	EventConnect, EventDisconnect, EventPowerOn, EventBrakeRelease,
	EventStart, EventStop, EventOrderFetch, EventSensorSimulate, EventError,
}

// IsEventType reports whether t is one of EventTypes. Matching is exact.
func IsEventType(t string) bool {
	for _, et := range EventTypes {
		if et == t {
			return true
		}
	}
	return false
}

// CellEvent is a single operator log entry.
type CellEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // CONNECT | START | STOP | ORDER_FETCH | ERROR | ...
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
