package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"packaging_cell/internal/config"
	"packaging_cell/internal/logger"
	"packaging_cell/internal/models"
	"packaging_cell/internal/repository"
	"packaging_cell/internal/robot"
)

var (
	ErrHostMissing  = errors.New("robot host is required")
	ErrRobotCommand = errors.New("robot command failed")
)

// robotSession is the part of *robot.Client the service drives.
type robotSession interface {
	ID() string
	Connect(ctx context.Context, host string, controlPort, programPort int) error
	PowerOn(ctx context.Context) (string, error)
	BrakeRelease(ctx context.Context) (string, error)
	Stop() (string, error)
	Mode() (string, error)
	IsProgramRunning() (bool, error)
	SendProgramFromSource(ctx context.Context, src robot.ProgramSource, id string) error
	Connected() bool
	State() robot.State
	Disconnect()
}

type sessionFactory func() robotSession

// RobotService owns at most one controller session. opMu serializes every
// use of the session's channels; sessMu only guards the session pointer, so
// Disconnect can close a session while a query on it is blocked.
type RobotService struct {
	opMu sync.Mutex

	sessMu  sync.RWMutex
	session robotSession
	host    string

	statusMu   sync.Mutex
	lastStatus RobotStatus

	newSession sessionFactory
	programs   repository.ProgramStore
	cfg        config.RobotConfig
	events     recorder
	log        *logger.Logger
}

func NewRobotService(programs repository.ProgramStore, events repository.EventRepo, cfg config.RobotConfig, log *logger.Logger) *RobotService {
	return newRobotService(programs, events, cfg, log, func() robotSession {
		return robot.NewClient(robot.Options{
			Dialer:      &net.Dialer{Timeout: cfg.DialTimeout},
			SettleDelay: cfg.SettleDelay,
		})
	})
}

func newRobotService(programs repository.ProgramStore, events repository.EventRepo, cfg config.RobotConfig, log *logger.Logger, factory sessionFactory) *RobotService {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.ControlPort == 0 {
		cfg.ControlPort = robot.DefaultControlPort
	}
	if cfg.ProgramPort == 0 {
		cfg.ProgramPort = robot.DefaultProgramPort
	}
	return &RobotService{
		newSession: factory,
		programs:   programs,
		cfg:        cfg,
		events:     recorder{events: events, log: log},
		log:        log,
		lastStatus: idleStatus(),
	}
}

func idleStatus() RobotStatus {
	return RobotStatus{State: robot.StateIdle.String(), Mode: robot.ModeDisconnected}
}

func (s *RobotService) current() (robotSession, string) {
	s.sessMu.RLock()
	defer s.sessMu.RUnlock()
	return s.session, s.host
}

func (s *RobotService) setCurrent(sess robotSession, host string) robotSession {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	prev := s.session
	s.session, s.host = sess, host
	return prev
}

// Connect replaces any existing session with a new one, then powers the arm
// on and releases the brakes, in that order. A failed power on or brake
// release tears the new session down so no program can be sent to an arm
// that was not armed.
func (s *RobotService) Connect(ctx context.Context, p ConnectParams) error {
	p.Host = strings.TrimSpace(p.Host)
	if p.Host == "" {
		p.Host = strings.TrimSpace(s.cfg.Host)
	}
	if p.Host == "" {
		return ErrHostMissing
	}
	if p.ControlPort == 0 {
		p.ControlPort = s.cfg.ControlPort
	}
	if p.ProgramPort == 0 {
		p.ProgramPort = s.cfg.ProgramPort
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if prev := s.setCurrent(nil, ""); prev != nil {
		wasConnected := prev.Connected()
		prev.Disconnect()
		if wasConnected {
			s.events.record(ctx, models.EventDisconnect, "previous session closed before reconnect",
				map[string]any{"session_id": prev.ID()})
		}
	}

	meta := map[string]any{"host": p.Host, "control_port": p.ControlPort, "program_port": p.ProgramPort}
	sess := s.newSession()
	if err := sess.Connect(ctx, p.Host, p.ControlPort, p.ProgramPort); err != nil {
		s.events.recordError(ctx, "robot_connect", err, meta)
		return err
	}
	s.setCurrent(sess, p.Host)
	meta["session_id"] = sess.ID()
	s.log.Infow("robot_connected", "host", p.Host, "session_id", sess.ID())
	s.events.record(ctx, models.EventConnect, "robot connected", meta)

	reply, err := sess.PowerOn(ctx)
	if err != nil {
		return s.abortArming(ctx, sess, robot.CmdPowerOn, err)
	}
	s.events.record(ctx, models.EventPowerOn, "power on", map[string]any{"reply": reply})

	reply, err = sess.BrakeRelease(ctx)
	if err != nil {
		return s.abortArming(ctx, sess, robot.CmdBrakeRelease, err)
	}

	// No ready signal exists for brake release; the mode read afterwards is
	// recorded so the operator can see whether the arm reached RUNNING.
	mode, modeErr := sess.Mode()
	if modeErr != nil {
		s.log.Warnw("robot_mode_after_brake_release_failed", "err", modeErr)
		mode = robot.ModeDisconnected
	}
	s.log.Infow("robot_armed", "session_id", sess.ID(), "mode", mode)
	s.events.record(ctx, models.EventBrakeRelease, "brake release", map[string]any{"reply": reply, "mode": mode})
	return nil
}

func (s *RobotService) abortArming(ctx context.Context, sess robotSession, cmd string, err error) error {
	sess.Disconnect()
	s.events.recordError(ctx, "robot_"+strings.ReplaceAll(cmd, " ", "_"), err, map[string]any{"session_id": sess.ID()})
	return fmt.Errorf("%w %q: %w", ErrRobotCommand, cmd, err)
}

// Start pushes the configured program to the controller.
func (s *RobotService) Start(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	sess, _ := s.current()
	if sess == nil || !sess.Connected() {
		return robot.ErrNotConnected
	}
	if err := sess.SendProgramFromSource(ctx, s.programs, s.cfg.Program); err != nil {
		s.events.recordError(ctx, "robot_start", err, map[string]any{"program": s.cfg.Program})
		return err
	}
	s.events.record(ctx, models.EventStart, "program sent", map[string]any{"program": s.cfg.Program, "session_id": sess.ID()})
	return nil
}

// Stop sends the dashboard stop command.
func (s *RobotService) Stop(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	sess, _ := s.current()
	if sess == nil {
		return robot.ErrNotConnected
	}
	reply, err := sess.Stop()
	if err != nil {
		if !errors.Is(err, robot.ErrNotConnected) {
			s.events.recordError(ctx, "robot_stop", err, nil)
		}
		return err
	}
	s.events.record(ctx, models.EventStop, "stop", map[string]any{"reply": reply})
	return nil
}

// Disconnect closes the current session. It does not wait for opMu: closing
// the channels is what unblocks a query still waiting for a reply.
func (s *RobotService) Disconnect(ctx context.Context) error {
	sess, host := s.current()
	if sess == nil {
		return nil
	}
	st := sess.State()
	sess.Disconnect()
	if st == robot.StateConnected || st == robot.StateConnecting {
		s.log.Infow("robot_disconnected", "host", host, "session_id", sess.ID())
		s.events.record(ctx, models.EventDisconnect, "robot disconnected", map[string]any{"session_id": sess.ID()})
	}
	return nil
}

// Status samples the session. It never waits behind an operator action:
// while one holds the channels the previous sample is returned with a
// refreshed lifecycle state. Query failures degrade to DISCONNECTED/false.
func (s *RobotService) Status(ctx context.Context) RobotStatus {
	sess, host := s.current()
	if sess == nil {
		st := idleStatus()
		s.remember(st)
		return st
	}

	if !s.opMu.TryLock() {
		s.statusMu.Lock()
		st := s.lastStatus
		s.statusMu.Unlock()
		st.State = sess.State().String()
		st.Connected = sess.Connected()
		return st
	}
	defer s.opMu.Unlock()

	st := RobotStatus{
		SessionID: sess.ID(),
		Host:      host,
		Connected: sess.Connected(),
		State:     sess.State().String(),
		Mode:      robot.ModeDisconnected,
	}
	if st.Connected {
		if mode, err := sess.Mode(); err == nil {
			st.Mode = mode
		} else {
			s.log.Debugw("robot_mode_query_failed", "err", err)
		}
		if running, err := sess.IsProgramRunning(); err == nil {
			st.ProgramRunning = running
		} else {
			s.log.Debugw("robot_running_query_failed", "err", err)
		}
		// a query can observe the peer hanging up
		st.Connected = sess.Connected()
		st.State = sess.State().String()
	}
	s.remember(st)
	return st
}

func (s *RobotService) remember(st RobotStatus) {
	s.statusMu.Lock()
	s.lastStatus = st
	s.statusMu.Unlock()
}

// Programs lists the program names available to Start.
func (s *RobotService) Programs(ctx context.Context) ([]string, error) {
	return s.programs.List(ctx)
}
