package cache

import (
	"reflect"
	"sync"

	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/sensors"
)

// Manager keeps the previous snapshot and answers the question: "has any
// reading changed since the last time I asked?". It gates the telemetry
// exporter so unchanged readings are not re-published every tick.
//
// Behaviour:
//   - First call to Changed() always returns true and stores the snapshot.
//   - The Taken timestamp is ignored when comparing.
//   - The stored snapshot is replaced only when a difference is detected.
type Manager struct {
	mu   sync.Mutex
	prev *sensors.Snapshot
}

// NewManager returns a ready-to-use change detector.
func NewManager() *Manager { return &Manager{} }

// Changed compares the supplied snapshot against the previously stored one,
// ignoring the Taken timestamp. If a change is detected it stores the
// snapshot and returns true.
func (m *Manager) Changed(cur *sensors.Snapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.prev == nil || !equalReadings(m.prev, cur) {
		m.prev = cur
		return true
	}
	return false
}

func equalReadings(a, b *sensors.Snapshot) bool {
	return reflect.DeepEqual(a.Readings, b.Readings)
}
