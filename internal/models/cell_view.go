package models

import (
	"time"

	"packaging_cell/internal/cell"
)

// CellView is the snapshot the poller publishes on every tick.
type CellView struct {
	DI3            bool                `json:"di3"`
	DI7            bool                `json:"di7"`
	Classification cell.Classification `json:"classification"` // LARGE | SMALL | PENDING
	Step           string              `json:"step"`

	RobotConnected bool   `json:"robot_connected"`
	RobotState     string `json:"robot_state"` // IDLE | CONNECTING | CONNECTED | DISCONNECTED
	RobotMode      string `json:"robot_mode"`
	ProgramRunning bool   `json:"program_running"`

	OrderID                string              `json:"order_id,omitempty"`
	BagCount               *int                `json:"bag_count,omitempty"`
	ExpectedClassification cell.Classification `json:"expected_classification,omitempty"`
	Verdict                cell.Verdict        `json:"verdict"` // UNKNOWN | MATCH | MISMATCH

	UpdatedAt time.Time `json:"updated_at"`
}
