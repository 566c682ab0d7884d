package bus

import (
	"sync"

	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/sensors"
)

// Bus provides fan-out pub/sub semantics for *sensors.Snapshot* messages.
// Each Subscribe call gets its own channel that receives every future
// publication. Past snapshots are not replayed. The implementation is safe
// for concurrent publishers and subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan *sensors.Snapshot
}

// New creates a ready-to-use Bus.
func New() *Bus { return &Bus{} }

// Subscribe returns a read-only channel that will receive all future
// snapshots.
func (b *Bus) Subscribe() <-chan *sensors.Snapshot {
	ch := make(chan *sensors.Snapshot, 1) // small buffer avoids blocking
	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers the snapshot to all subscribers in a best-effort,
// non-blocking way. A subscriber whose buffer is full skips this snapshot
// and picks up the next one; the producer never stalls on a slow consumer.
func (b *Bus) Publish(s *sensors.Snapshot) {
	b.mu.RLock()
	subs := make([]chan *sensors.Snapshot, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- s:
		default:
			continue
		}
	}
}

// Close closes all subscriber channels. Publish must not be called after
// Close.
func (b *Bus) Close() {
	b.mu.Lock()
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
	b.mu.Unlock()
}
