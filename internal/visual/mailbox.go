package visual

import (
	"sync"

	"github.com/Faultbox/fridgeview/internal/engine/model"
)

// loadResult is a finished model load waiting to be applied on the frame loop.
type loadResult struct {
	handle   *Handle
	template *model.Node
	err      error
}

// Mailbox hands finished loads from loader goroutines to the frame loop.
type Mailbox struct {
	mu      sync.Mutex
	pending []loadResult
	notify  chan struct{}
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{notify: make(chan struct{}, 1)}
}

// Post queues a result. Safe for concurrent use.
func (m *Mailbox) Post(r loadResult) {
	m.mu.Lock()
	m.pending = append(m.pending, r)
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Drain removes and returns every queued result in posting order.
func (m *Mailbox) Drain() []loadResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.pending
	m.pending = nil
	return out
}

// Len returns the number of queued results.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Notify is signalled after a Post. Hosts that sleep between frames can use
// it to wake early.
func (m *Mailbox) Notify() <-chan struct{} {
	return m.notify
}
