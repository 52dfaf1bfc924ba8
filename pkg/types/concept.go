package types

import (
	"encoding/json"
	"errors"
	"strings"
)

// Domain is a coarse topic tag used for keyword-based query routing.
type Domain string

const (
	DomainHealthcare Domain = "healthcare"
	DomainFinance    Domain = "finance"
	DomainLogistics  Domain = "logistics"
	DomainGeneral    Domain = "general"
)

// DefaultConfidence is assigned to concepts created without an explicit
// confidence score.
const DefaultConfidence = 0.8

// Validation errors.
var (
	ErrEmptyConceptName  = errors.New("concept name cannot be empty")
	ErrConfidenceRange   = errors.New("confidence must be between 0 and 1")
	ErrEmptyEndpoint     = errors.New("from_concept and to_concept cannot be empty")
	ErrEmptyRelationType = errors.New("relationship_type cannot be empty")
)

// Concept is a named knowledge record with a domain tag and free-form
// properties. Names are unique within a store; re-inserting a name
// overwrites the previous record.
type Concept struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Domain      Domain      `json:"domain,omitempty"`
	Properties  *Properties `json:"properties,omitempty"`
	Confidence  float64     `json:"confidence,omitempty"`
}

// Validate checks local invariants. A zero confidence is accepted and
// replaced with DefaultConfidence on insert.
func (c *Concept) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyConceptName
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return ErrConfidenceRange
	}
	return nil
}

// ConceptRef names a concept inside a query result. The remote graph
// service may send either a bare name or a full concept object, so both
// forms unmarshal into a ConceptRef and marshal back unchanged.
type ConceptRef struct {
	Name    string
	Concept *Concept // nil when only a name was sent
}

// Ref wraps a concept as a result reference.
func Ref(c *Concept) *ConceptRef {
	if c == nil {
		return nil
	}
	return &ConceptRef{Name: c.Name, Concept: c}
}

// NameRef wraps a bare concept name as a result reference.
func NameRef(name string) *ConceptRef {
	return &ConceptRef{Name: name}
}

// MarshalJSON implements json.Marshaler.
func (r ConceptRef) MarshalJSON() ([]byte, error) {
	if r.Concept != nil {
		return json.Marshal(r.Concept)
	}
	return json.Marshal(r.Name)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ConceptRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "\"") {
		r.Concept = nil
		return json.Unmarshal(data, &r.Name)
	}
	var c Concept
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	r.Concept = &c
	r.Name = c.Name
	return nil
}
