package itinerary

import (
	"sync"

	"github.com/tripmate/tripmate/internal/app/models"
)

// Store holds the session's current itinerary. Single writer (the
// extraction pipeline), many readers (presenter, exporter, save flow).
// A new extraction replaces the previous plan wholesale; plans are
// never merged.
type Store struct {
	mu       sync.RWMutex
	current  *models.Itinerary
	onChange func(*models.Itinerary)
}

func NewStore() *Store {
	return &Store{}
}

// OnChange registers a callback invoked after every replacement, so a
// rendered view can stay in sync with the current plan. Must be set
// before streaming starts.
func (s *Store) OnChange(fn func(*models.Itinerary)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Set replaces the current itinerary.
func (s *Store) Set(it *models.Itinerary) {
	s.mu.Lock()
	s.current = it
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(it)
	}
}

// Current returns the held itinerary, or nil when none has been
// extracted yet.
func (s *Store) Current() *models.Itinerary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
