package service

import (
	"context"
	"errors"
	"testing"

	"packaging_cell/internal/cell"
	"packaging_cell/internal/logger"
	"packaging_cell/internal/models"
)

type fixedSensors cell.SensorPair

func (f fixedSensors) Read() cell.SensorPair { return cell.SensorPair(f) }

func TestSensorService_SimulateTogglesAndRecords(t *testing.T) {
	events := &fakeEventRepo{}
	svc := NewSensorService(cell.NewSimulatedSensors(), events, logger.Nop())

	p, err := svc.Simulate(context.Background())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if !p.DI3 || !p.DI7 || svc.Read() != p {
		t.Fatalf("first toggle should give both inputs on, got %+v", p)
	}
	if len(events.appended) != 1 || events.appended[0].Type != models.EventSensorSimulate {
		t.Fatalf("expected SENSOR_SIMULATE event, got %+v", events.appended)
	}
	meta := events.appended[0].Metadata.(map[string]any)
	if meta["classification"] != "LARGE" {
		t.Fatalf("unexpected metadata %v", meta)
	}
}

func TestSensorService_SimulateUnsupportedSource(t *testing.T) {
	svc := NewSensorService(fixedSensors{DI7: true}, nil, nil)

	if _, err := svc.Simulate(context.Background()); !errors.Is(err, ErrSimulationUnavailable) {
		t.Fatalf("expected ErrSimulationUnavailable, got %v", err)
	}
	if got := svc.Read(); got.Classify() != cell.Small {
		t.Fatalf("unexpected read %+v", got)
	}
}
