// Package store provides a concurrency-safe named frame store shared
// between pipeline stages through a resource.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/omicsworks/gutmetrics/internal/frame"
)

// Store holds named frames. It is safe for concurrent use by executor
// workers.
type Store struct {
	mu     sync.RWMutex
	frames map[string]*frame.Frame
}

// New creates an empty store.
func New() *Store {
	return &Store{frames: make(map[string]*frame.Frame)}
}

// Put stores f under name, replacing any previous frame.
func (s *Store) Put(name string, f *frame.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames[name] = f
}

// Get retrieves the frame stored under name.
func (s *Store) Get(name string) (*frame.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.frames[name]
	if !ok {
		return nil, fmt.Errorf("no frame named %q in store", name)
	}
	return f, nil
}

// Delete removes the frame stored under name, if present.
func (s *Store) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.frames, name)
}

// Names returns the stored frame names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.frames))
	for name := range s.frames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored frames.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}
