package robot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
)

// ProgramSource supplies program text by identifier. Implementations return a
// *SourceNotFoundError when the identifier does not exist.
type ProgramSource interface {
	Load(ctx context.Context, id string) (string, error)
}

// ProgramChannel pushes motion programs to the controller's program port.
type ProgramChannel struct {
	dialer dialer

	mu   sync.Mutex
	conn net.Conn
	live atomic.Bool
}

// NewProgramChannel returns an unopened channel that dials through d.
func NewProgramChannel(d dialer) *ProgramChannel {
	if d == nil {
		d = &net.Dialer{}
	}
	return &ProgramChannel{dialer: d}
}

// Open connects to addr:port.
func (p *ProgramChannel) Open(ctx context.Context, addr net.IP, port int) error {
	target := net.JoinHostPort(addr.String(), strconv.Itoa(port))
	conn, err := p.dialer.DialContext(ctx, "tcp4", target)
	if err != nil {
		return &ConnectError{Channel: "program", Addr: target, Err: err}
	}

	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()
	p.live.Store(true)

	go p.drain(conn)
	return nil
}

// drain discards whatever the controller streams back on this port and marks
// the channel dead once the connection ends.
func (p *ProgramChannel) drain(conn net.Conn) {
	_, _ = io.Copy(io.Discard, conn)
	p.markDead(conn)
}

// SendProgram writes text followed by exactly one line terminator and flushes.
func (p *ProgramChannel) SendProgram(text string) error {
	conn := p.current()
	if conn == nil {
		return ErrNotConnected
	}
	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(text + lineTerminator); err != nil {
		p.markDead(conn)
		return fmt.Errorf("robot: write program: %w", err)
	}
	if err := w.Flush(); err != nil {
		p.markDead(conn)
		return fmt.Errorf("robot: flush program: %w", err)
	}
	return nil
}

// SendProgramFromSource loads the program id from src and sends it.
func (p *ProgramChannel) SendProgramFromSource(ctx context.Context, src ProgramSource, id string) error {
	text, err := src.Load(ctx, id)
	if err != nil {
		return err
	}
	return p.SendProgram(text)
}

// Live reports the last observed transport state.
func (p *ProgramChannel) Live() bool { return p.live.Load() }

// Close releases the connection. Safe to call repeatedly or before Open.
func (p *ProgramChannel) Close() {
	p.mu.Lock()
	conn := p.conn
	p.conn = nil
	p.live.Store(false)
	p.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func (p *ProgramChannel) current() net.Conn {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn
}

func (p *ProgramChannel) markDead(conn net.Conn) {
	p.mu.Lock()
	if p.conn == conn {
		p.live.Store(false)
	}
	p.mu.Unlock()
}
