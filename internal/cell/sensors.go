package cell

import "sync"

// SensorSource provides the current sensor sample. The core only reads it.
type SensorSource interface {
	Read() SensorPair
}

// SimulatedSensors stands in for the digital I/O when no hardware is attached.
type SimulatedSensors struct {
	mu   sync.RWMutex
	pair SensorPair
}

// NewSimulatedSensors starts with both inputs low.
func NewSimulatedSensors() *SimulatedSensors {
	return &SimulatedSensors{}
}

// Read returns the current pair.
func (s *SimulatedSensors) Read() SensorPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair
}

// Toggle steps through the demo sequence: DI7 flips on every call, and DI3
// flips whenever DI7 turns on. Starting from low/low this cycles
// Large, Pending, Small, Pending.
func (s *SimulatedSensors) Toggle() SensorPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair.DI7 = !s.pair.DI7
	if s.pair.DI7 {
		s.pair.DI3 = !s.pair.DI3
	}
	return s.pair
}

// Set forces both inputs.
func (s *SimulatedSensors) Set(p SensorPair) {
	s.mu.Lock()
	s.pair = p
	s.mu.Unlock()
}
