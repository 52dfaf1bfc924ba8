package types

import "time"

// Result sources. Every query response is tagged with the path that
// served it; callers never need to branch on it.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result kinds.
const (
	ResultKindConcept      = "concept"
	ResultKindRelationship = "relationship"
)

// Result is one entry in a query response. Remote entries are passed
// through as returned by the graph service; fallback entries are built
// from local store records. Confidence is a heuristic match score in
// [0, 1], not a probability.
type Result struct {
	Concept      *ConceptRef   `json:"concept,omitempty"`
	Relationship *Relationship `json:"relationship,omitempty"`
	Type         string        `json:"type,omitempty"`
	Confidence   float64       `json:"confidence"`
}

// QueryResponse is the envelope returned for every query, identical
// regardless of whether the remote or the fallback path served it.
type QueryResponse struct {
	Query     string    `json:"query"`
	Results   []Result  `json:"results"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source,omitempty"`
}

// HealthStatus mirrors the remote graph service /health payload.
type HealthStatus struct {
	Status             string `json:"status"`
	ConceptsCount      int    `json:"concepts_count"`
	RelationshipsCount int    `json:"relationships_count"`
}

// KnowledgeContext bundles everything known about one domain.
type KnowledgeContext struct {
	Domain    Domain     `json:"domain"`
	Concepts  []*Concept `json:"concepts"`
	Timestamp time.Time  `json:"timestamp"`
}
