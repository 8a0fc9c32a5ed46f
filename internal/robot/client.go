package robot

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the session lifecycle.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// ErrSessionActive is returned by Connect on a session that is connecting or connected.
var ErrSessionActive = errors.New("robot: session already active; disconnect first")

// Endpoint is the resolved controller address of a session.
type Endpoint struct {
	Addr        net.IP
	ControlPort int
	ProgramPort int
}

// Options tune a Client. Zero values select defaults.
type Options struct {
	Resolver    *Resolver
	Dialer      *net.Dialer
	SettleDelay time.Duration
}

// Client is one controller session: a control channel and a program channel
// that are connected and torn down together. It never retries; every
// transport failure is returned to the caller.
type Client struct {
	id       string
	resolver *Resolver
	control  *ControlChannel
	program  *ProgramChannel
	settle   time.Duration

	mu       sync.Mutex
	state    State
	endpoint Endpoint
}

// NewClient builds an idle session.
func NewClient(opts Options) *Client {
	resolver := opts.Resolver
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	settle := opts.SettleDelay
	if settle <= 0 {
		settle = SettleDelay
	}
	var d dialer = &net.Dialer{}
	if opts.Dialer != nil {
		d = opts.Dialer
	}
	return &Client{
		id:       uuid.NewString(),
		resolver: resolver,
		control:  NewControlChannel(d),
		program:  NewProgramChannel(d),
		settle:   settle,
		state:    StateIdle,
	}
}

// ID identifies the session in logs and events.
func (c *Client) ID() string { return c.id }

// Connect resolves host once, then opens the control channel and, only if
// that succeeded, the program channel. On any failure both channels are
// closed and the session is back to Idle.
func (c *Client) Connect(ctx context.Context, host string, controlPort, programPort int) error {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateConnected {
		c.mu.Unlock()
		return ErrSessionActive
	}
	c.state = StateConnecting
	c.mu.Unlock()

	ep, err := c.open(ctx, host, controlPort, programPort)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.program.Close()
		c.control.Close()
		c.state = StateIdle
		c.endpoint = Endpoint{}
		return err
	}
	c.state = StateConnected
	c.endpoint = ep
	return nil
}

func (c *Client) open(ctx context.Context, host string, controlPort, programPort int) (Endpoint, error) {
	addr, err := c.resolver.Resolve(ctx, host)
	if err != nil {
		return Endpoint{}, err
	}
	if err := c.control.Open(ctx, addr, controlPort); err != nil {
		return Endpoint{}, err
	}
	if err := c.program.Open(ctx, addr, programPort); err != nil {
		return Endpoint{}, err
	}
	return Endpoint{Addr: addr, ControlPort: controlPort, ProgramPort: programPort}, nil
}

// PowerOn sends "power on", reads the reply and waits SettleDelay.
func (c *Client) PowerOn(ctx context.Context) (string, error) {
	return c.commandAndSettle(ctx, CmdPowerOn)
}

// BrakeRelease sends "brake release", reads the reply and waits SettleDelay.
func (c *Client) BrakeRelease(ctx context.Context) (string, error) {
	return c.commandAndSettle(ctx, CmdBrakeRelease)
}

func (c *Client) commandAndSettle(ctx context.Context, cmd string) (string, error) {
	reply, err := c.control.Command(cmd)
	if err != nil {
		return "", err
	}
	t := time.NewTimer(c.settle)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return reply, ctx.Err()
	case <-t.C:
		return reply, nil
	}
}

// Stop sends "stop" and returns the reply. The controller decelerates on its own.
func (c *Client) Stop() (string, error) {
	return c.control.Command(CmdStop)
}

// Mode returns the controller mode, ModeDisconnected when not open.
func (c *Client) Mode() (string, error) { return c.control.Mode() }

// IsProgramRunning reports whether the controller is executing a program.
func (c *Client) IsProgramRunning() (bool, error) { return c.control.IsProgramRunning() }

// SendProgram pushes program text on the program channel.
func (c *Client) SendProgram(text string) error { return c.program.SendProgram(text) }

// SendProgramFromSource loads id from src and pushes it.
func (c *Client) SendProgramFromSource(ctx context.Context, src ProgramSource, id string) error {
	return c.program.SendProgramFromSource(ctx, src, id)
}

// Connected samples both channels; it is true only while both are live.
func (c *Client) Connected() bool {
	return c.control.Live() && c.program.Live()
}

// State returns the lifecycle state. A connected session whose channel has
// dropped reports StateDisconnected.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateConnected && !c.Connected() {
		return StateDisconnected
	}
	return c.state
}

// Endpoint returns the resolved endpoint of the current session.
func (c *Client) Endpoint() Endpoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endpoint
}

// Disconnect closes the program channel then the control channel. Idempotent.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.program.Close()
	c.control.Close()
	if c.state != StateIdle {
		c.state = StateDisconnected
	}
}
