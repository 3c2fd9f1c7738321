// Package turnctrl provides the discrete turn clock and the optional
// wall-clock pacing loop that drives a simulation forward.
package turnctrl

import (
	"context"
	"sync"
	"time"
)

// Clock is the read side of the turn counter. Components that only need
// "what turn is it" depend on this rather than on the full TurnClock.
type Clock interface {
	// Turn returns the current turn.
	Turn() int64
}

// TurnClock tracks the current simulation turn. It is safe for concurrent
// use.
type TurnClock struct {
	mu   sync.RWMutex
	turn int64
}

// NewTurnClock returns a clock positioned at turn 0.
func NewTurnClock() *TurnClock {
	return &TurnClock{}
}

// Turn returns the current turn.
func (c *TurnClock) Turn() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.turn
}

// Advance moves the clock forward by one turn and returns the new turn.
func (c *TurnClock) Advance() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turn++
	return c.turn
}

// Seek repositions the clock. Negative turns clamp to 0, matching the
// engine's treatment of negative turn queries.
func (c *TurnClock) Seek(turn int64) {
	if turn < 0 {
		turn = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turn = turn
}

// TurnController paces a listener against wall-clock time. It owns no
// turn state itself; advancing the clock is the listener's job, so a
// caller can drive the same listener manually in tests and paced in
// production.
type TurnController struct {
	interval time.Duration
	listener func()
}

// NewTurnController returns a controller that invokes fn every interval
// once started.
func NewTurnController(interval time.Duration, fn func()) *TurnController {
	return &TurnController{interval: interval, listener: fn}
}

// Start runs the pacing loop in a separate goroutine and returns a channel
// that is closed when the loop exits. The loop stops when ctx is done.
func (tc *TurnController) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		ticker := time.NewTicker(tc.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tc.listener()
			}
		}
	}()
	return done
}
