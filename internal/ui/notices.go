package ui

import (
	"sync"
	"time"
)

type Notice struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notices queues user-visible messages until the client picks them up.
// At most limit notices are kept; the oldest are dropped first.
type Notices struct {
	mu      sync.Mutex
	limit   int
	now     func() time.Time
	pending []Notice
}

func NewNotices(limit int) *Notices {
	if limit <= 0 {
		limit = 50
	}
	return &Notices{limit: limit, now: time.Now}
}

func (n *Notices) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, Notice{Message: msg, At: n.now()})
	if over := len(n.pending) - n.limit; over > 0 {
		n.pending = append([]Notice(nil), n.pending[over:]...)
	}
}

// Drain returns and forgets every queued notice.
func (n *Notices) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
