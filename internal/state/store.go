// Package state holds the observable typing progress.
package state

import (
	"sync"

	"github.com/verte-zerg/typeout/internal/model"
)

// Store is the single source of truth for a TypingState. Updates are applied
// atomically per call and published to subscribers in order.
type Store struct {
	mu     sync.Mutex
	state  model.TypingState
	nextID int
	subs   map[int]chan model.TypingState
}

// New returns a store seeded with the given state.
func New(initial model.TypingState) *Store {
	return &Store{
		state: initial,
		subs:  map[int]chan model.TypingState{},
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() model.TypingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies all mutations as one change and notifies subscribers.
func (s *Store) Update(muts ...model.Mutation) {
	if len(muts) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, mut := range muts {
		mut(&s.state)
	}
	s.publish()
}

// Reset clears all progress fields.
func (s *Store) Reset() {
	s.Update(model.ResetProgress())
}

// Subscribe returns a channel that always holds the latest published state.
// A slow reader may skip intermediate states but never sees them reordered.
// The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan model.TypingState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan model.TypingState, 1)
	s.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// publish must be called with s.mu held.
func (s *Store) publish() {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.state
	}
}
