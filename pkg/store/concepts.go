package store

import (
	"sync"

	"github.com/agentforge/mettakg/pkg/types"
)

// ConceptStore is an in-memory catalog of concepts keyed by name.
// Inserting a concept with an existing name overwrites the previous
// record. All operations are total: lookups on missing names return a
// not-found signal, never an error.
type ConceptStore struct {
	mu       sync.RWMutex
	concepts map[string]*types.Concept
	order    []string
}

// NewConceptStore returns an empty concept store.
func NewConceptStore() *ConceptStore {
	return &ConceptStore{
		concepts: make(map[string]*types.Concept),
	}
}

// Put inserts or overwrites the concept by name. A zero confidence is
// replaced with types.DefaultConfidence; an overwritten concept keeps
// its original position in insertion order.
func (s *ConceptStore) Put(c *types.Concept) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	if stored.Confidence == 0 {
		stored.Confidence = types.DefaultConfidence
	}
	if stored.Domain == "" {
		stored.Domain = types.DomainGeneral
	}
	if _, exists := s.concepts[stored.Name]; !exists {
		s.order = append(s.order, stored.Name)
	}
	s.concepts[stored.Name] = &stored
}

// Get returns the concept with the exact name.
func (s *ConceptStore) Get(name string) (*types.Concept, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.concepts[name]
	if !ok {
		return nil, false
	}
	cp := *c
	return &cp, true
}

// List returns all concepts in insertion order, optionally filtered by
// domain. Pass an empty domain to list everything.
func (s *ConceptStore) List(domain types.Domain) []*types.Concept {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Concept, 0, len(s.order))
	for _, name := range s.order {
		c := s.concepts[name]
		if domain != "" && c.Domain != domain {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out
}

// Delete removes the concept by name and reports whether it existed.
func (s *ConceptStore) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.concepts[name]; !ok {
		return false
	}
	delete(s.concepts, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of stored concepts.
func (s *ConceptStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.concepts)
}
