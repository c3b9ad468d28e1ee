// Package ratelimit throttles API clients with token buckets. Every
// client/endpoint pair gets its own bucket whose tokens refill continuously
// at limit/window, so short bursts are absorbed without letting sustained
// traffic exceed the configured rate.
package ratelimit

import (
	"sync"
	"time"
)

// idleTimeout is how long a bucket may go unused before the janitor drops it.
const idleTimeout = time.Hour

// Info reports the limiter state for one decision. It feeds the
// X-RateLimit-* response headers.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket holds fractional tokens so refill accrues smoothly between
// requests. Access is guarded by the owning Limiter's mutex.
type bucket struct {
	capacity float64
	rate     float64 // tokens per second
	tokens   float64
	updated  time.Time
	lastSeen time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{
		capacity: float64(capacity),
		rate:     rate,
		tokens:   float64(capacity),
		updated:  now,
		lastSeen: now,
	}
}

// take refills for the elapsed time, then consumes one token when available.
// It reports whether the request may proceed, the whole tokens left, and
// when the bucket will be full again.
func (b *bucket) take(now time.Time) (ok bool, remaining int, reset time.Time) {
	elapsed := now.Sub(b.updated).Seconds()
	b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
	b.updated = now
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		ok = true
	}

	remaining = int(b.tokens)
	reset = now
	if b.tokens < b.capacity {
		deficit := b.capacity - b.tokens
		reset = now.Add(time.Duration(deficit / b.rate * float64(time.Second)))
	}
	return ok, remaining, reset
}

// Limiter throttles requests per client and endpoint.
type Limiter struct {
	cfg *Config
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	janitorTicker *time.Ticker
	janitorStop   chan struct{}
}

// NewLimiter builds a limiter from cfg. A nil cfg gets permissive defaults.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		cfg:     cfg,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}

	if cfg.Enabled && cfg.CleanupInterval > 0 {
		l.janitorTicker = time.NewTicker(cfg.CleanupInterval)
		l.janitorStop = make(chan struct{})
		go l.janitor()
	}

	return l
}

// Allow decides whether a request from clientID against method+path may
// proceed. The returned Info is populated either way so callers can set
// response headers.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.cfg.Enabled || l.cfg.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.cfg.Blacklist[clientID] {
		return false, Info{}
	}

	rule := l.cfg.match(path, method)
	if rule.Limit <= 0 {
		// Unlimited endpoint, e.g. health checks.
		return true, Info{Allowed: true}
	}

	burst := rule.Burst
	if burst <= 0 {
		burst = rule.Limit
	}

	now := l.now()
	key := clientID + " " + method + " " + path

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(burst, float64(rule.Limit)/rule.Window.Seconds(), now)
		l.buckets[key] = b
	}
	allowed, remaining, reset := b.take(now)
	l.mu.Unlock()

	info := Info{
		Allowed:   allowed,
		Limit:     rule.Limit,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !allowed {
		if wait := reset.Sub(now); wait > 0 {
			info.RetryAfter = wait
		}
	}
	return allowed, info
}

// janitor drops idle buckets on every tick so one-off clients don't
// accumulate forever.
func (l *Limiter) janitor() {
	for {
		select {
		case <-l.janitorTicker.C:
			l.dropIdle(l.now().Add(-idleTimeout))
		case <-l.janitorStop:
			return
		}
	}
}

func (l *Limiter) dropIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop halts the janitor goroutine.
func (l *Limiter) Stop() {
	if l.janitorTicker != nil {
		l.janitorTicker.Stop()
	}
	if l.janitorStop != nil {
		close(l.janitorStop)
	}
}
