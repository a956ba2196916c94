// Package breaker implements a per-service circuit breaker used to stop
// hammering fallback services (browser render, unblock API, archive) that
// are currently failing for every URL in a batch.
package breaker

import (
	"sync"
	"time"
)

// State of one service's circuit.
type State string

const (
	StateClosed   State = "closed"    // normal operation
	StateOpen     State = "open"      // failing, requests rejected
	StateHalfOpen State = "half-open" // probing for recovery
)

// Breaker tracks failures per named service. A service whose circuit is
// open rejects requests until the reset timeout elapses, then admits a
// single probe.
type Breaker struct {
	threshold int
	reset     time.Duration
	now       func() time.Time // injectable for tests

	mu          sync.Mutex
	failures    map[string]int
	lastFailure map[string]time.Time
	state       map[string]State
}

// New creates a breaker that opens after threshold consecutive failures and
// probes again after reset.
func New(threshold int, reset time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 3
	}
	if reset <= 0 {
		reset = time.Minute
	}
	return &Breaker{
		threshold:   threshold,
		reset:       reset,
		now:         time.Now,
		failures:    make(map[string]int),
		lastFailure: make(map[string]time.Time),
		state:       make(map[string]State),
	}
}

// Allow reports whether a request to the service should proceed. An open
// circuit past its reset timeout transitions to half-open and admits the
// caller as the probe.
func (b *Breaker) Allow(service string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState(service) {
	case StateOpen:
		return false
	case StateHalfOpen:
		// One probe at a time: re-open until the probe reports back.
		b.state[service] = StateOpen
		b.lastFailure[service] = b.now()
		return true
	default:
		return true
	}
}

// RecordSuccess closes the circuit for the service.
func (b *Breaker) RecordSuccess(service string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[service] = 0
	b.state[service] = StateClosed
}

// RecordFailure counts a failure and opens the circuit at the threshold.
func (b *Breaker) RecordFailure(service string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures[service]++
	b.lastFailure[service] = b.now()
	if b.failures[service] >= b.threshold {
		b.state[service] = StateOpen
	}
}

// CurrentState returns the service's circuit state.
func (b *Breaker) CurrentState(service string) State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState(service)
}

// currentState must be called with the lock held.
func (b *Breaker) currentState(service string) State {
	state, ok := b.state[service]
	if !ok {
		return StateClosed
	}
	if state == StateOpen && b.now().Sub(b.lastFailure[service]) >= b.reset {
		b.state[service] = StateHalfOpen
		return StateHalfOpen
	}
	return state
}
