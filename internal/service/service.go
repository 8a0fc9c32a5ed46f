package service

import (
	"context"
	"time"

	"packaging_cell/internal/cell"
	"packaging_cell/internal/config"
	"packaging_cell/internal/logger"
	"packaging_cell/internal/models"
	"packaging_cell/internal/repository"
)

type Authorization interface {
	Register(ctx context.Context, username, password string, isAdmin bool) error
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (Identity, error)
	EnsureAdminSeed(ctx context.Context) error
}

// Robot owns the single controller session and serializes operator actions on it.
type Robot interface {
	Connect(ctx context.Context, p ConnectParams) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Status(ctx context.Context) RobotStatus
	Programs(ctx context.Context) ([]string, error)
}

// Orders holds the expected bag count of the selected order.
type Orders interface {
	Fetch(ctx context.Context, orderID string) (OrderSnapshot, error)
	Current() OrderSnapshot
	Upsert(ctx context.Context, orderID string, bagCount int) error
	Seed(ctx context.Context, force bool) (bool, error)
	Reset(ctx context.Context) error
}

type Sensors interface {
	Read() cell.SensorPair
	Simulate(ctx context.Context) (cell.SensorPair, error)
}

// Monitoring exposes the latest published cell view.
type Monitoring interface {
	GetView(ctx context.Context) (models.CellView, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.CellEvent, error)
}

// Poller runs the periodic sample-classify-verify loop.
// Stop via context cancellation in main() for graceful shutdown.
type Poller interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Authorization Authorization
	Robot         Robot
	Orders        Orders
	Sensors       Sensors
	Monitoring    Monitoring
	EventLog      EventLog
	Poller        Poller
}

// NewService wires repositories into the concrete services. The sensors are
// simulated; a hardware source can be swapped in through NewSensorService.
func NewService(repos *repository.Repository, cfg config.Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	robotSvc := NewRobotService(repos.Programs, repos.Events, cfg.Robot, log)
	orders := NewOrderService(repos.Orders, repos.Events, log)
	sensors := NewSensorService(cell.NewSimulatedSensors(), repos.Events, log)
	monitoring := NewMonitoringService()

	return &Service{
		Authorization: NewAuthService(repos.Auth, cfg.Auth.SigningKey, cfg.Auth.TokenTTL),
		Robot:         robotSvc,
		Orders:        orders,
		Sensors:       sensors,
		Monitoring:    monitoring,
		EventLog:      NewEventLogService(repos.Events),
		Poller:        NewPollerService(sensors, robotSvc, orders, monitoring, log),
	}
}
