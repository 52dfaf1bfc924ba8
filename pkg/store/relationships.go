package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentforge/mettakg/pkg/types"
)

// RelationshipStore is an append-only list of directed, typed edges
// between concept names. Duplicates accumulate and endpoints are not
// checked against the concept store.
type RelationshipStore struct {
	mu   sync.RWMutex
	rels []*types.Relationship
}

// NewRelationshipStore returns an empty relationship store.
func NewRelationshipStore() *RelationshipStore {
	return &RelationshipStore{}
}

// Create appends a new relationship record and returns it with an
// assigned ID and creation time.
func (s *RelationshipStore) Create(from, to, relType string, props *types.Properties) *types.Relationship {
	rel := &types.Relationship{
		ID:               uuid.NewString(),
		FromConcept:      from,
		ToConcept:        to,
		RelationshipType: relType,
		Properties:       props,
		CreatedAt:        time.Now().UTC(),
	}

	s.mu.Lock()
	s.rels = append(s.rels, rel)
	s.mu.Unlock()

	cp := *rel
	return &cp
}

// Find returns all relationships where the concept is the from
// endpoint, optionally filtered by relationship type.
func (s *RelationshipStore) Find(conceptName, relType string) []*types.Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*types.Relationship
	for _, rel := range s.rels {
		if rel.FromConcept != conceptName {
			continue
		}
		if relType != "" && rel.RelationshipType != relType {
			continue
		}
		cp := *rel
		out = append(out, &cp)
	}
	return out
}

// All returns every relationship in insertion order.
func (s *RelationshipStore) All() []*types.Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Relationship, len(s.rels))
	for i, rel := range s.rels {
		cp := *rel
		out[i] = &cp
	}
	return out
}

// Delete removes the relationship with the given ID and reports
// whether it existed.
func (s *RelationshipStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rel := range s.rels {
		if rel.ID == id {
			s.rels = append(s.rels[:i], s.rels[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of stored relationships.
func (s *RelationshipStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rels)
}
