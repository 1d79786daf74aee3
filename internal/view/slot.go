package view

import "sync"

// Ticket identifies one issued request for a Slot.
type Ticket uint64

// Slot holds the value shown for one UI area. Only the most recently issued
// ticket may commit: an older request finishing late is ignored.
type Slot[T any] struct {
	mu      sync.Mutex
	issued  Ticket
	current T
	set     bool
}

// Begin issues a ticket, superseding every earlier one.
func (s *Slot[T]) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit stores v if t is still the latest ticket and reports whether it did.
func (s *Slot[T]) Commit(t Ticket, v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.issued {
		return false
	}
	s.current, s.set = v, true
	return true
}

// Current returns the last committed value.
func (s *Slot[T]) Current() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.set
}

// Active reports whether t is still the latest ticket.
func (s *Slot[T]) Active(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t == s.issued
}
