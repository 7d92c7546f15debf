package engine

import (
	"sync"
	"time"

	"github.com/routelab/fwdsim/internal/resolver"
)

// Metrics represents per-run decision counters
type Metrics struct {
	Processed   int
	Direct      int
	Forwarded   int
	Unreachable int
	Skipped     int
	LastUpdate  time.Time
	mutex       sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdate: time.Now(),
	}
}

// RecordDecision records one forwarding decision
func (m *Metrics) RecordDecision(kind resolver.Kind) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.Processed++
	switch kind {
	case resolver.DirectDelivery:
		m.Direct++
	case resolver.Forwarded:
		m.Forwarded++
	case resolver.Unreachable:
		m.Unreachable++
	}
	m.LastUpdate = time.Now()
}

// RecordSkipped records one destination line that failed to parse
func (m *Metrics) RecordSkipped() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.Skipped++
	m.LastUpdate = time.Now()
}

// Snapshot returns the current counter values
func (m *Metrics) Snapshot() (processed, direct, forwarded, unreachable, skipped int) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.Processed, m.Direct, m.Forwarded, m.Unreachable, m.Skipped
}
