// Package dedup guards against at-least-once webhook delivery by remembering
// recently seen event identifiers.
package dedup

import "sync"

// DefaultCapacity is the number of event ids remembered before the set is
// flushed wholesale.
const DefaultCapacity = 30

// Set is a bounded collection of event identifiers. When an insertion finds
// the set at capacity, the whole set is cleared and refilled from scratch.
// This flat bound means a duplicate delivered right after a flush is
// processed again; that trade is accepted in exchange for constant memory
// and no eviction bookkeeping.
type Set struct {
	mu       sync.Mutex
	capacity int
	seen     map[string]struct{}
}

// NewSet creates a Set holding at most capacity ids. Non-positive values
// fall back to DefaultCapacity.
func NewSet(capacity int) *Set {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Set{
		capacity: capacity,
		seen:     make(map[string]struct{}, capacity),
	}
}

// ShouldProcess reports whether the given event id has not been seen before,
// recording it as seen when it is new. The membership test and the insert
// happen under one lock so concurrent deliveries of the same id admit
// exactly one of them.
func (s *Set) ShouldProcess(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[eventID]; dup {
		return false
	}
	if len(s.seen) >= s.capacity {
		s.seen = make(map[string]struct{}, s.capacity)
	}
	s.seen[eventID] = struct{}{}
	return true
}

// Len returns the number of ids currently remembered.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
