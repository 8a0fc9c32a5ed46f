package robot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// dialer is satisfied by *net.Dialer.
type dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// ControlChannel is the request/response session on the dashboard port.
// Calls must be serialized by the caller; Close may run concurrently and
// unblocks a pending ReadLine.
type ControlChannel struct {
	dialer dialer

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	live   atomic.Bool
}

// NewControlChannel returns an unopened channel that dials through d.
func NewControlChannel(d dialer) *ControlChannel {
	if d == nil {
		d = &net.Dialer{}
	}
	return &ControlChannel{dialer: d}
}

// Open connects to addr:port and discards the banner line the controller sends
// on connect.
func (c *ControlChannel) Open(ctx context.Context, addr net.IP, port int) error {
	target := net.JoinHostPort(addr.String(), strconv.Itoa(port))
	conn, err := c.dialer.DialContext(ctx, "tcp4", target)
	if err != nil {
		return &ConnectError{Channel: "control", Addr: target, Err: err}
	}

	c.mu.Lock()
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	c.mu.Unlock()
	c.live.Store(true)

	if _, err := c.ReadLine(); err != nil {
		c.Close()
		return &ConnectError{Channel: "control", Addr: target, Err: fmt.Errorf("read banner: %w", err)}
	}
	if !c.Live() {
		c.Close()
		return &ConnectError{Channel: "control", Addr: target, Err: io.ErrUnexpectedEOF}
	}
	return nil
}

// Send writes command verbatim. Callers include the trailing newline.
func (c *ControlChannel) Send(command string) error {
	conn, _ := c.current()
	if conn == nil {
		return ErrNotConnected
	}
	if _, err := io.WriteString(conn, command); err != nil {
		c.markDead(conn)
		return fmt.Errorf("robot: send %q: %w", strings.TrimSpace(command), err)
	}
	return nil
}

// ReadLine blocks for one newline-terminated line and returns it without the
// terminator. Orderly closure by the controller yields "" and a nil error,
// dropping any unterminated partial line; the channel is then no longer live.
func (c *ControlChannel) ReadLine() (string, error) {
	conn, r := c.current()
	if r == nil {
		return "", ErrNotConnected
	}
	line, err := r.ReadString('\n')
	if err != nil {
		c.markDead(conn)
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", fmt.Errorf("robot: read control reply: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Command sends cmd with a line terminator and returns its single reply line.
func (c *ControlChannel) Command(cmd string) (string, error) {
	if err := c.Send(cmd + lineTerminator); err != nil {
		return "", err
	}
	return c.ReadLine()
}

// IsProgramRunning asks the controller whether a program is executing.
// A closed channel reports false without sending anything.
func (c *ControlChannel) IsProgramRunning() (bool, error) {
	if !c.Live() {
		return false, nil
	}
	reply, err := c.Command(CmdRunning)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(reply), programRunningReply), nil
}

// Mode returns the controller's robot mode, or ModeDisconnected when the
// channel is not open.
func (c *ControlChannel) Mode() (string, error) {
	if !c.Live() {
		return ModeDisconnected, nil
	}
	reply, err := c.Command(CmdRobotMode)
	if err != nil {
		return ModeDisconnected, err
	}
	if !c.Live() {
		return ModeDisconnected, nil
	}
	return strings.TrimSpace(reply), nil
}

// Live reports the last observed transport state.
func (c *ControlChannel) Live() bool { return c.live.Load() }

// Close releases the connection. Safe to call repeatedly or before Open.
func (c *ControlChannel) Close() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.reader = nil
	c.live.Store(false)
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func (c *ControlChannel) current() (net.Conn, *bufio.Reader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn, c.reader
}

// markDead clears liveness only if conn is still the active connection, so a
// late failure on a replaced connection cannot poison a new session.
func (c *ControlChannel) markDead(conn net.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.live.Store(false)
	}
	c.mu.Unlock()
}
