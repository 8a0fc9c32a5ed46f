package robot

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

const testBanner = "Connected: Universal Robots Dashboard Server"

// fakeController serves a dashboard port and a program port on 127.0.0.1.
type fakeController struct {
	t       *testing.T
	control net.Listener
	program net.Listener

	mu           sync.Mutex
	replies      map[string]string
	commands     []string
	programBuf   strings.Builder
	controlConns []net.Conn
	programConns []net.Conn
	controlEOF   chan struct{}
}

func newFakeController(t *testing.T) *fakeController {
	t.Helper()
	cl, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen control: %v", err)
	}
	pl, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		_ = cl.Close()
		t.Fatalf("listen program: %v", err)
	}
	f := &fakeController{
		t:       t,
		control: cl,
		program: pl,
		replies: map[string]string{
			CmdPowerOn:      "Powering on",
			CmdBrakeRelease: "Brake releasing",
			CmdStop:         "Stopped",
			CmdRunning:      "Program running: false",
			CmdRobotMode:    "Robotmode: IDLE",
		},
		controlEOF: make(chan struct{}, 4),
	}
	go f.serveControl()
	go f.serveProgram()
	t.Cleanup(f.close)
	return f
}

func (f *fakeController) controlPort() int { return f.control.Addr().(*net.TCPAddr).Port }
func (f *fakeController) programPort() int { return f.program.Addr().(*net.TCPAddr).Port }

func (f *fakeController) setReply(cmd, reply string) {
	f.mu.Lock()
	f.replies[cmd] = reply
	f.mu.Unlock()
}

func (f *fakeController) serveControl() {
	for {
		conn, err := f.control.Accept()
		if err != nil {
			return
		}
		f.mu.Lock()
		f.controlConns = append(f.controlConns, conn)
		f.mu.Unlock()
		go f.handleControl(conn)
	}
}

func (f *fakeController) handleControl(conn net.Conn) {
	defer func() { f.controlEOF <- struct{}{} }()
	if _, err := conn.Write([]byte(testBanner + "\n")); err != nil {
		return
	}
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		cmd := sc.Text()
		f.mu.Lock()
		f.commands = append(f.commands, cmd)
		reply, ok := f.replies[cmd]
		f.mu.Unlock()
		if !ok {
			reply = "could not understand: '" + cmd + "'"
		}
		if _, err := conn.Write([]byte(reply + "\n")); err != nil {
			return
		}
	}
}

func (f *fakeController) serveProgram() {
	for {
		conn, err := f.program.Accept()
		if err != nil {
			return
		}
		f.mu.Lock()
		f.programConns = append(f.programConns, conn)
		f.mu.Unlock()
		go func(c net.Conn) {
			buf := make([]byte, 1024)
			for {
				n, err := c.Read(buf)
				if n > 0 {
					f.mu.Lock()
					f.programBuf.Write(buf[:n])
					f.mu.Unlock()
				}
				if err != nil {
					return
				}
			}
		}(conn)
	}
}

func (f *fakeController) sentCommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

func (f *fakeController) programAccepts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.programConns)
}

// dropControl closes every accepted control connection from the server side.
func (f *fakeController) dropControl() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.controlConns {
		_ = c.Close()
	}
}

// dropProgram closes every accepted program connection from the server side.
func (f *fakeController) dropProgram() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.programConns {
		_ = c.Close()
	}
}

func (f *fakeController) waitProgram(want string) {
	f.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		got := f.programBuf.String()
		f.mu.Unlock()
		if got == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t.Fatalf("program payload: got %q, want %q", f.programBuf.String(), want)
}

func (f *fakeController) close() {
	_ = f.control.Close()
	_ = f.program.Close()
	f.dropControl()
	f.dropProgram()
}

// closedPort returns a loopback port with nothing listening on it.
func closedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()
	return port
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
