package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps artifacts in memory, keyed by locator.
// Any scheme is accepted. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, locator string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[locator] = append([]byte(nil), body...)
	s.puts = append(s.puts, locator)
	return nil
}

// Get returns a copy of the stored object.
func (s *MemoryStore) Get(locator string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[locator]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

// Puts returns the locators written, in call order.
func (s *MemoryStore) Puts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.puts...)
}
