package payment

import (
	"sync"
	"time"
)

// attemptLimiter caps confirmation attempts per order inside a rolling
// window, so a misbehaving client cannot hammer the confirmation path.
// Windows are pruned lazily on access.
type attemptLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	seen   map[int64]*attemptWindow
}

type attemptWindow struct {
	count   int
	started time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	return &attemptLimiter{
		max:    max,
		window: window,
		seen:   make(map[int64]*attemptWindow),
	}
}

func (l *attemptLimiter) allow(orderID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.seen[orderID]
	if !ok || now.Sub(w.started) > l.window {
		l.seen[orderID] = &attemptWindow{count: 1, started: now}
		l.prune(now)
		return true
	}
	if w.count >= l.max {
		return false
	}
	w.count++
	return true
}

func (l *attemptLimiter) prune(now time.Time) {
	for id, w := range l.seen {
		if now.Sub(w.started) > l.window {
			delete(l.seen, id)
		}
	}
}
