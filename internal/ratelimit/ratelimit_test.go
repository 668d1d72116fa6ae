package ratelimit

import (
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestKeyLimiterIsPerKey(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	kl := NewKeyLimiter(1, 2)
	kl.now = c.now

	if !kl.Allow("1.1.1.1") || !kl.Allow("1.1.1.1") {
		t.Fatal("burst should pass")
	}
	if kl.Allow("1.1.1.1") {
		t.Fatal("third request within a second should be limited")
	}
	if !kl.Allow("2.2.2.2") {
		t.Fatal("other key must have its own bucket")
	}

	c.t = c.t.Add(time.Second)
	if !kl.Allow("1.1.1.1") {
		t.Fatal("token should refill after a second")
	}
}

func TestKeyLimiterPrune(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	kl := NewKeyLimiter(1, 1)
	kl.now = c.now

	kl.Allow("a")
	c.t = c.t.Add(time.Hour)
	kl.Allow("b")

	if n := kl.Prune(10 * time.Minute); n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
	if kl.Len() != 1 {
		t.Fatalf("len = %d", kl.Len())
	}
}

func TestLockout(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	l := NewLockout(3, 10*time.Minute)
	l.now = c.now

	for i := 0; i < 2; i++ {
		if l.Fail("a@b.c") {
			t.Fatalf("locked after %d failures", i+1)
		}
	}
	if locked, _ := l.Locked("a@b.c"); locked {
		t.Fatal("locked too early")
	}
	if !l.Fail("a@b.c") {
		t.Fatal("third failure should lock")
	}
	locked, until := l.Locked("a@b.c")
	if !locked || !until.Equal(c.t.Add(10*time.Minute)) {
		t.Fatalf("locked=%v until=%v", locked, until)
	}

	c.t = c.t.Add(10 * time.Minute)
	if locked, _ := l.Locked("a@b.c"); locked {
		t.Fatal("lock should expire")
	}
}

func TestLockoutResetAndDisabled(t *testing.T) {
	l := NewLockout(2, time.Minute)
	l.Fail("k")
	l.Reset("k")
	if l.Fail("k") {
		t.Fatal("reset should clear the count")
	}

	l.SetPolicy(0, time.Minute)
	for i := 0; i < 5; i++ {
		if l.Fail("k") {
			t.Fatal("limit 0 must never lock")
		}
	}
}

func TestLockoutPrune(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	l := NewLockout(2, 10*time.Minute)
	l.now = c.now

	l.Fail("old@x")
	l.Fail("locked@x")
	l.Fail("locked@x")

	c.t = c.t.Add(5 * time.Minute)
	l.Fail("fresh@x")

	if n := l.Prune(3 * time.Minute); n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
	if locked, _ := l.Locked("locked@x"); !locked {
		t.Fatal("active lock must survive a prune")
	}

	c.t = c.t.Add(10 * time.Minute)
	if n := l.Prune(time.Hour); n != 1 {
		t.Fatalf("pruned %d, want the expired lock only", n)
	}
	if l.Len() != 1 {
		t.Fatalf("len = %d, want fresh@x left", l.Len())
	}
}
