package types

import (
	"strings"
	"time"
)

// Relationship is a typed directed edge between two concept names.
// Endpoints are not checked against the concept store: edges may
// reference concepts that do not (yet) exist.
type Relationship struct {
	ID               string      `json:"id,omitempty"`
	FromConcept      string      `json:"from_concept"`
	ToConcept        string      `json:"to_concept"`
	RelationshipType string      `json:"relationship_type"`
	Properties       *Properties `json:"properties,omitempty"`
	CreatedAt        time.Time   `json:"created_at,omitzero"`
}

// Validate checks local invariants. Duplicate edges are allowed and
// referential integrity is deliberately not enforced.
func (r *Relationship) Validate() error {
	if strings.TrimSpace(r.FromConcept) == "" || strings.TrimSpace(r.ToConcept) == "" {
		return ErrEmptyEndpoint
	}
	if strings.TrimSpace(r.RelationshipType) == "" {
		return ErrEmptyRelationType
	}
	return nil
}
