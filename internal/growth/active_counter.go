package growth

import (
	"context"
	"sync"
	"time"
)

// ActiveCounter is the mutex-protected convergence barrier a Parallel
// region or loop fan-out shares with its children: {is, expected,
// success, message}. Each child signals completion via Increment; the
// parent blocks on Wait until every child has reported.
type ActiveCounter struct {
	mu           sync.Mutex
	is           int
	expected     int
	success      bool
	message      string
	pollInterval time.Duration
}

// NewActiveCounter creates a counter awaiting expected completions,
// polling at pollInterval while Wait blocks. success starts true: the
// first failing child flips it and records the message.
func NewActiveCounter(expected int, pollInterval time.Duration) *ActiveCounter {
	return &ActiveCounter{expected: expected, success: true, pollInterval: pollInterval}
}

// Increment records one child's completion. A failing child only ever
// overwrites the aggregate message once — the first failure wins.
func (ac *ActiveCounter) Increment(success bool, message string) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.is++
	if !success && ac.success {
		ac.success = false
		ac.message = message
	}
}

// Wait blocks until every expected child has incremented the counter,
// polling at pollInterval, or until ctx is cancelled.
func (ac *ActiveCounter) Wait(ctx context.Context) (bool, string, error) {
	for {
		ac.mu.Lock()
		done := ac.is >= ac.expected
		success := ac.success
		message := ac.message
		ac.mu.Unlock()

		if done {
			return success, message, nil
		}

		select {
		case <-ctx.Done():
			return false, "", ctx.Err()
		case <-time.After(ac.pollInterval):
		}
	}
}

// Snapshot returns the counter's current state without blocking, for
// diagnostics.
func (ac *ActiveCounter) Snapshot() (is, expected int, success bool, message string) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.is, ac.expected, ac.success, ac.message
}
