// Package ident issues monotonically increasing integer identities for
// objects that need a stable persistence key.
package ident

import "sync/atomic"

// Sequence hands out int64 IDs starting at 1. It is safe for concurrent
// use; successive calls to Next never return the same or a smaller value.
//
// The zero value is ready to use.
type Sequence struct {
	last atomic.Int64
}

// NewSequenceAt returns a sequence whose first Next call yields start+1.
// Useful when resuming from persisted state.
func NewSequenceAt(start int64) *Sequence {
	s := &Sequence{}
	s.last.Store(start)
	return s
}

// Next reserves and returns the next ID.
func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}

// Current returns the most recently issued ID, or the starting value if
// Next has not been called yet.
func (s *Sequence) Current() int64 {
	return s.last.Load()
}
