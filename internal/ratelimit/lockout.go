package ratelimit

import (
	"sync"
	"time"
)

// Lockout blocks a key after limit consecutive failures for the lock
// duration. The policy can be changed at runtime.
type Lockout struct {
	mu     sync.Mutex
	limit  int
	lock   time.Duration
	failed map[string]*failures

	now func() time.Time
}

type failures struct {
	count int
	until time.Time
	last  time.Time
}

func NewLockout(limit int, lock time.Duration) *Lockout {
	return &Lockout{
		limit:  limit,
		lock:   lock,
		failed: make(map[string]*failures),
		now:    time.Now,
	}
}

func (l *Lockout) SetPolicy(limit int, lock time.Duration) {
	l.mu.Lock()
	l.limit, l.lock = limit, lock
	l.mu.Unlock()
}

// Locked reports whether key is locked and until when.
func (l *Lockout) Locked(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, ok := l.failed[key]
	if !ok || f.until.IsZero() {
		return false, time.Time{}
	}
	if !l.now().Before(f.until) {
		delete(l.failed, key)
		return false, time.Time{}
	}
	return true, f.until
}

// Fail records a failed attempt and reports whether it tripped the lock.
// A limit of zero or less disables locking.
func (l *Lockout) Fail(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.limit <= 0 {
		return false
	}
	f, ok := l.failed[key]
	if !ok {
		f = &failures{}
		l.failed[key] = f
	}
	f.count++
	f.last = l.now()
	if f.count >= l.limit {
		f.until = l.now().Add(l.lock)
		f.count = 0
		return true
	}
	return false
}

func (l *Lockout) Reset(key string) {
	l.mu.Lock()
	delete(l.failed, key)
	l.mu.Unlock()
}

// Prune drops expired locks and failure counts older than idle, and returns
// how many keys went.
func (l *Lockout) Prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-idle)
	n := 0
	for k, f := range l.failed {
		expired := !f.until.IsZero() && !now.Before(f.until)
		stale := f.until.IsZero() && f.last.Before(cutoff)
		if expired || stale {
			delete(l.failed, k)
			n++
		}
	}
	return n
}

func (l *Lockout) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.failed)
}
