package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyLimiter rate-limits per key (client IP for the login endpoints).
type KeyLimiter struct {
	mu sync.Mutex
	m  map[string]*entry
	r  rate.Limit
	b  int

	now func() time.Time
}

type entry struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewKeyLimiter(reqPerSec float64, burst int) *KeyLimiter {
	return &KeyLimiter{
		m:   make(map[string]*entry),
		r:   rate.Limit(reqPerSec),
		b:   burst,
		now: time.Now,
	}
}

func (kl *KeyLimiter) limiterFor(key string) *rate.Limiter {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if e, ok := kl.m[key]; ok {
		e.seen = kl.now()
		return e.lim
	}
	e := &entry{lim: rate.NewLimiter(kl.r, kl.b), seen: kl.now()}
	kl.m[key] = e
	return e.lim
}

func (kl *KeyLimiter) Allow(key string) bool {
	if key == "" {
		key = "_"
	}
	return kl.limiterFor(key).AllowN(kl.now(), 1)
}

// Prune forgets keys idle for longer than idle and returns how many went.
func (kl *KeyLimiter) Prune(idle time.Duration) int {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	cutoff := kl.now().Add(-idle)
	n := 0
	for k, e := range kl.m {
		if e.seen.Before(cutoff) {
			delete(kl.m, k)
			n++
		}
	}
	return n
}

func (kl *KeyLimiter) Len() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.m)
}
