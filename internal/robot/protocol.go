// Package robot is the client for the arm controller: a line-oriented dashboard
// (control) port plus a one-way program port, composed into one session.
package robot

import "time"

// Typical controller ports.
const (
	DefaultControlPort = 29999
	DefaultProgramPort = 30002
)

// Dashboard commands. Each produces exactly one reply line.
const (
	CmdPowerOn      = "power on"
	CmdBrakeRelease = "brake release"
	CmdStop         = "stop"
	CmdRunning      = "running"
	CmdRobotMode    = "robotmode"
)

const (
	// ModeDisconnected is reported by Mode when the control channel is not open.
	ModeDisconnected = "DISCONNECTED"

	programRunningReply = "Program running: true"
	lineTerminator      = "\n"
)

// SettleDelay is how long PowerOn and BrakeRelease wait after the controller
// replies. The controller has no "ready" signal for either operation, so this is
// an approximation: a controller slower than this will still be warming up when
// the next command arrives.
const SettleDelay = 800 * time.Millisecond
