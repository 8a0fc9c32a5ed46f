package service

import (
	"context"
	"errors"

	"packaging_cell/internal/cell"
	"packaging_cell/internal/logger"
	"packaging_cell/internal/models"
	"packaging_cell/internal/repository"
)

var ErrSimulationUnavailable = errors.New("sensor source cannot be simulated")

// toggler is implemented by sensor sources that can step the demo sequence.
type toggler interface {
	Toggle() cell.SensorPair
}

type SensorService struct {
	src    cell.SensorSource
	events recorder
}

func NewSensorService(src cell.SensorSource, events repository.EventRepo, log *logger.Logger) *SensorService {
	if log == nil {
		log = logger.Nop()
	}
	return &SensorService{src: src, events: recorder{events: events, log: log}}
}

func (s *SensorService) Read() cell.SensorPair {
	return s.src.Read()
}

// Simulate advances a simulated source one step and returns the new pair.
func (s *SensorService) Simulate(ctx context.Context) (cell.SensorPair, error) {
	t, ok := s.src.(toggler)
	if !ok {
		return cell.SensorPair{}, ErrSimulationUnavailable
	}
	p := t.Toggle()
	s.events.record(ctx, models.EventSensorSimulate, "sensors toggled", map[string]any{
		"di3":            p.DI3,
		"di7":            p.DI7,
		"classification": string(p.Classify()),
	})
	return p, nil
}
