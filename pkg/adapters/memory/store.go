package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/conform/pkg/ports"
)

// Store implements ports.SchemaStore in memory.
// Safe for concurrent use.
type Store struct {
	docs map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		docs: make(map[string][]byte),
	}
}

// NewFromDocuments creates a store seeded with the given documents.
func NewFromDocuments(docs map[string][]byte) *Store {
	s := NewStore()
	for name, doc := range docs {
		s.docs[name] = clone(doc)
	}
	return s
}

// Save stores a copy of doc.
func (s *Store) Save(ctx context.Context, name string, doc []byte) error {
	copied := clone(doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = copied
	return nil
}

// Load returns a copy of the stored document so callers can't mutate the store.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[name]
	if !ok {
		return nil, ports.ErrSchemaNotFound
	}
	return clone(doc), nil
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, name)
	return nil
}

// List returns stored names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
