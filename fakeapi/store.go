package fakeapi

import (
	"sort"
	"sync"
)

// Store holds widgets by id. It lives as long as its Server and is emptied on Stop.
type Store struct {
	mu      sync.RWMutex
	widgets map[string]Widget
}

func NewStore() *Store {
	return &Store{widgets: make(map[string]Widget)}
}

func (s *Store) Get(id string) (Widget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.widgets[id]
	return w, ok
}

func (s *Store) Put(w Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.widgets[w.Sys.ID] = w
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.widgets, id)
}

// BySpace returns the widgets created under space, ordered by id.
func (s *Store) BySpace(space string) []Widget {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws := make([]Widget, 0)
	for _, w := range s.widgets {
		if w.SpaceID() == space {
			ws = append(ws, w)
		}
	}
	sort.Slice(ws, func(i, j int) bool { return ws[i].Sys.ID < ws[j].Sys.ID })
	return ws
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.widgets)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.widgets = make(map[string]Widget)
}
