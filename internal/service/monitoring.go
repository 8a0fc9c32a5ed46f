package service

import (
	"context"
	"sync"
	"time"

	"packaging_cell/internal/cell"
	"packaging_cell/internal/models"
	"packaging_cell/internal/robot"
)

// MonitoringService keeps the most recent view published by the poller.
type MonitoringService struct {
	mu   sync.RWMutex
	view models.CellView
	set  bool
}

func NewMonitoringService() *MonitoringService {
	return &MonitoringService{}
}

// Publish replaces the current view.
func (s *MonitoringService) Publish(v models.CellView) {
	s.mu.Lock()
	s.view = v
	s.set = true
	s.mu.Unlock()
}

// GetView returns the latest view, or a baseline view before the first tick.
func (s *MonitoringService) GetView(ctx context.Context) (models.CellView, error) {
	if err := ctx.Err(); err != nil {
		return models.CellView{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return baselineView(), nil
	}
	v := s.view
	if v.BagCount != nil {
		n := *v.BagCount
		v.BagCount = &n
	}
	return v, nil
}

func baselineView() models.CellView {
	return models.CellView{
		Classification: cell.Pending,
		Step:           cell.PickStep(cell.Pending),
		RobotState:     robot.StateIdle.String(),
		RobotMode:      robot.ModeDisconnected,
		Verdict:        cell.Unknown,
		UpdatedAt:      time.Now().UTC(),
	}
}
