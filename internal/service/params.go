package service

import "time"

// ConnectParams selects the controller endpoint. Zero ports fall back to config.
type ConnectParams struct {
	Host        string
	ControlPort int
	ProgramPort int
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "CONNECT", "START", "STOP", "ORDER_FETCH", "ERROR", ...
}

// RobotStatus is what the poller samples from the robot session.
type RobotStatus struct {
	SessionID      string `json:"session_id,omitempty"`
	Host           string `json:"host,omitempty"`
	Connected      bool   `json:"connected"`
	State          string `json:"state"`
	Mode           string `json:"mode"`
	ProgramRunning bool   `json:"program_running"`
}

// OrderSnapshot is the order selected by the last fetch. BagCount is nil
// when nothing was fetched or the order does not exist.
type OrderSnapshot struct {
	OrderID  string `json:"order_id"`
	BagCount *int   `json:"bag_count"`
}

// Identity is the authenticated caller carried by a token.
type Identity struct {
	Username string
	IsAdmin  bool
}
