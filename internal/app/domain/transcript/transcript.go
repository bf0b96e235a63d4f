// Package transcript holds the ordered conversation history for one
// chat session.
package transcript

import (
	"sync"

	"github.com/tripmate/tripmate/internal/app/models"
)

// Store is an append-only log of turns. The only permitted in-place
// change is replacing the last turn while an assistant response is
// streaming; the turn is swapped as a whole value so readers never
// observe a partially written turn.
type Store struct {
	mu    sync.RWMutex
	turns []models.Turn
}

// New creates a store seeded with the assistant greeting.
func New() *Store {
	return &Store{turns: []models.Turn{models.GreetingTurn()}}
}

// NewEmpty creates a store with no seeded greeting.
func NewEmpty() *Store {
	return &Store{}
}

// Append adds a turn to the end of the transcript.
func (s *Store) Append(turn models.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
}

// ReplaceLast swaps the final turn for the given value. Used only while
// an assistant turn is streaming. Replacing on an empty transcript is a
// programming error and panics like an out-of-range index would.
func (s *Store) ReplaceLast(turn models.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[len(s.turns)-1] = turn
}

// Last returns the final turn and whether one exists.
func (s *Store) Last() (models.Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.turns) == 0 {
		return models.Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}

// Len reports the number of turns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Turns returns a snapshot of the transcript in conversational order.
// The returned slice is a copy; callers cannot alias the internal log.
func (s *Store) Turns() []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]models.Turn, len(s.turns))
	copy(snapshot, s.turns)
	return snapshot
}
