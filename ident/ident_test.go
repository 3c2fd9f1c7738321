package ident

import (
	"sync"
	"testing"
)

func TestSequenceStartsAtOne(t *testing.T) {
	var s Sequence
	if got := s.Next(); got != 1 {
		t.Fatalf("first Next() = %d, want 1", got)
	}
	if got := s.Next(); got != 2 {
		t.Fatalf("second Next() = %d, want 2", got)
	}
	if got := s.Current(); got != 2 {
		t.Fatalf("Current() = %d, want 2", got)
	}
}

func TestNewSequenceAt(t *testing.T) {
	s := NewSequenceAt(100)
	if got := s.Current(); got != 100 {
		t.Fatalf("Current() = %d, want 100", got)
	}
	if got := s.Next(); got != 101 {
		t.Fatalf("Next() = %d, want 101", got)
	}
}

func TestSequenceConcurrentNextIsUnique(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 1000

	var s Sequence
	var wg sync.WaitGroup
	ids := make([][]int64, goroutines)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			out := make([]int64, 0, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				out = append(out, s.Next())
			}
			ids[g] = out
		}(g)
	}
	wg.Wait()

	seen := make(map[int64]bool, goroutines*perGoroutine)
	for _, batch := range ids {
		for _, id := range batch {
			if seen[id] {
				t.Fatalf("duplicate ID %d issued", id)
			}
			seen[id] = true
		}
	}
	if got := s.Current(); got != goroutines*perGoroutine {
		t.Fatalf("Current() = %d, want %d", got, goroutines*perGoroutine)
	}
}
