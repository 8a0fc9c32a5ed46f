package robot

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for controller sessions.
var (
	// ErrNotConnected is returned when a channel operation runs before Open or after Close.
	ErrNotConnected = errors.New("robot: channel not connected")

	// ErrSourceNotFound matches any *SourceNotFoundError via errors.Is.
	ErrSourceNotFound = errors.New("robot: program source not found")
)

// ResolutionError reports that a host has no address of the preferred family.
type ResolutionError struct {
	Host       string
	Candidates []string
	Err        error // lookup failure, if any
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("robot: could not resolve an IPv4 address for %q; addresses: [%s]",
		e.Host, strings.Join(e.Candidates, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ConnectError wraps a transport failure while opening a channel.
type ConnectError struct {
	Channel string // "control" | "program"
	Addr    string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("robot: connect %s channel %s: %v", e.Channel, e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// SourceNotFoundError is returned when a program payload does not exist.
type SourceNotFoundError struct {
	Source string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("robot: program source not found: %s", e.Source)
}

// Is lets errors.Is(err, ErrSourceNotFound) match.
func (e *SourceNotFoundError) Is(target error) bool {
	return target == ErrSourceNotFound
}
