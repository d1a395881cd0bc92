// Package ratelimit caps knowledge-search escalations per user per calendar
// day.
package ratelimit

import (
	"sync"
	"time"
)

// DefaultDailyLimit is the number of escalations a user gets per day.
const DefaultDailyLimit = 3

const dayLayout = "2006-01-02"

type key struct {
	user string
	day  string
}

// Ledger counts escalations per (user, day). Keys are never evicted; a new
// day simply starts a new key at zero. A Ledger is safe for concurrent use.
type Ledger struct {
	limit int

	mu     sync.Mutex
	counts map[key]int
}

// NewLedger creates a Ledger with the given daily cap. A non-positive cap
// uses DefaultDailyLimit.
func NewLedger(limit int) *Ledger {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Ledger{limit: limit, counts: make(map[key]int)}
}

// Limit returns the daily cap.
func (l *Ledger) Limit() int { return l.limit }

// TryConsume takes one permit for user on day. It returns false without
// changing the count when the cap is already reached.
func (l *Ledger) TryConsume(user string, day time.Time) bool {
	k := key{user: user, day: day.Format(dayLayout)}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.counts[k] >= l.limit {
		return false
	}
	l.counts[k]++
	return true
}

// Refund returns one permit taken by TryConsume for user on day. It never
// raises the remaining count above the cap.
func (l *Ledger) Refund(user string, day time.Time) {
	k := key{user: user, day: day.Format(dayLayout)}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.counts[k] > 0 {
		l.counts[k]--
	}
}

// Remaining returns how many permits user has left on day.
func (l *Ledger) Remaining(user string, day time.Time) int {
	k := key{user: user, day: day.Format(dayLayout)}

	l.mu.Lock()
	defer l.mu.Unlock()

	return max(l.limit-l.counts[k], 0)
}
