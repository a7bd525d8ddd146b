// Package ratelimit enforces a minimum interval between accesses to the same
// domain and keeps a FIFO queue of URLs deferred because of it.
package ratelimit

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultDelay is the spacing used when none is configured.
const DefaultDelay = 3 * time.Second

// Limiter tracks the last access time per domain and a queue of deferred
// URLs. Access times change only through RecordAccess.
type Limiter struct {
	delay time.Duration
	clock Clock

	mu         sync.Mutex
	lastAccess map[string]time.Time
	deferred   []string
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces the wall clock, typically with a fake in tests.
func WithClock(c Clock) Option {
	return func(l *Limiter) {
		l.clock = c
	}
}

// New creates a Limiter enforcing delay between accesses to one domain.
func New(delay time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		delay:      delay,
		clock:      SystemClock{},
		lastAccess: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Delay returns the configured spacing.
func (l *Limiter) Delay() time.Duration { return l.delay }

// Domain returns the rate-limit key for rawURL: its host, lowercased, port
// included. Unparseable URLs share the empty key.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// TimeUntilAllowed returns how long to wait before rawURL may be accessed.
// It is zero for a domain that has never been recorded.
func (l *Limiter) TimeUntilAllowed(rawURL string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remainingLocked(Domain(rawURL))
}

func (l *Limiter) remainingLocked(domain string) time.Duration {
	last, ok := l.lastAccess[domain]
	if !ok {
		return 0
	}
	return max(0, l.delay-l.clock.Now().Sub(last))
}

// IsAllowed reports whether rawURL may be accessed now.
func (l *Limiter) IsAllowed(rawURL string) bool {
	return l.TimeUntilAllowed(rawURL) <= 0
}

// RecordAccess stamps the domain of rawURL with the current time.
func (l *Limiter) RecordAccess(rawURL string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastAccess[Domain(rawURL)] = l.clock.Now()
}

// WaitIfNeeded blocks until rawURL is allowed and returns the time waited.
func (l *Limiter) WaitIfNeeded(ctx context.Context, rawURL string) (time.Duration, error) {
	wait := l.TimeUntilAllowed(rawURL)
	if wait <= 0 {
		return 0, nil
	}
	if err := l.clock.Sleep(ctx, wait); err != nil {
		return 0, err
	}
	return wait, nil
}

// Defer appends rawURL to the deferred queue.
func (l *Limiter) Defer(rawURL string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deferred = append(l.deferred, rawURL)
}

// GetReadyDeferred removes and returns every deferred URL that is allowed
// now. URLs still cooling down stay queued in their original order.
func (l *Limiter) GetReadyDeferred() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var ready []string
	waiting := make([]string, 0, len(l.deferred))
	for _, u := range l.deferred {
		if l.remainingLocked(Domain(u)) <= 0 {
			ready = append(ready, u)
		} else {
			waiting = append(waiting, u)
		}
	}
	l.deferred = waiting

	return ready
}

// HasDeferred reports whether any URL is queued.
func (l *Limiter) HasDeferred() bool {
	return l.DeferredCount() > 0
}

// DeferredCount returns the queue length.
func (l *Limiter) DeferredCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.deferred)
}

// Deferred returns a copy of the queue in order.
func (l *Limiter) Deferred() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.deferred))
	copy(out, l.deferred)
	return out
}

// PopDeferredWithWait removes the head of the queue and blocks until its
// domain is allowed. It returns false when the queue is empty. If ctx ends
// during the wait the URL is put back at the head and ctx's error returned.
func (l *Limiter) PopDeferredWithWait(ctx context.Context) (string, bool, error) {
	l.mu.Lock()
	if len(l.deferred) == 0 {
		l.mu.Unlock()
		return "", false, nil
	}
	head := l.deferred[0]
	l.deferred = l.deferred[1:]
	l.mu.Unlock()

	if _, err := l.WaitIfNeeded(ctx, head); err != nil {
		l.mu.Lock()
		l.deferred = append([]string{head}, l.deferred...)
		l.mu.Unlock()
		return "", false, err
	}

	return head, true, nil
}
