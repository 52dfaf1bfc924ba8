// Package dto defines the HTTP request and response bodies of the
// knowledge gateway API. The shapes match the remote graph service wire
// protocol so a gateway can stand in for a graph node.
package dto

import (
	"errors"
	"strings"

	"github.com/agentforge/mettakg/pkg/types"
)

// Validation errors surfaced as 400 responses.
var (
	ErrQueryRequired        = errors.New("query is required")
	ErrNameRequired         = errors.New("name is required")
	ErrEndpointsRequired    = errors.New("from_concept and to_concept are required")
	ErrRelationTypeRequired = errors.New("relationship_type is required")
)

// QueryRequest is the POST /query body. Limit optionally truncates the
// returned results; zero means no request-level cap.
type QueryRequest struct {
	Query      string         `json:"query"`
	Parameters map[string]any `json:"parameters"`
	Limit      int            `json:"limit"`
}

// Validate checks required fields.
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrQueryRequired
	}
	return nil
}

// AddConceptRequest is the POST /concepts body.
type AddConceptRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Domain      types.Domain      `json:"domain"`
	Properties  *types.Properties `json:"properties"`
	Confidence  float64           `json:"confidence"`
}

// Validate checks required fields.
func (r *AddConceptRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Concept converts the request into a domain record.
func (r *AddConceptRequest) Concept() *types.Concept {
	return &types.Concept{
		Name:        r.Name,
		Description: r.Description,
		Domain:      r.Domain,
		Properties:  r.Properties,
		Confidence:  r.Confidence,
	}
}

// AddRelationshipRequest is the POST /relationships body.
type AddRelationshipRequest struct {
	FromConcept      string            `json:"from_concept"`
	ToConcept        string            `json:"to_concept"`
	RelationshipType string            `json:"relationship_type"`
	Properties       *types.Properties `json:"properties"`
}

// Validate checks required fields.
func (r *AddRelationshipRequest) Validate() error {
	if strings.TrimSpace(r.FromConcept) == "" || strings.TrimSpace(r.ToConcept) == "" {
		return ErrEndpointsRequired
	}
	if strings.TrimSpace(r.RelationshipType) == "" {
		return ErrRelationTypeRequired
	}
	return nil
}

// Relationship converts the request into a domain record.
func (r *AddRelationshipRequest) Relationship() *types.Relationship {
	return &types.Relationship{
		FromConcept:      r.FromConcept,
		ToConcept:        r.ToConcept,
		RelationshipType: r.RelationshipType,
		Properties:       r.Properties,
	}
}

// WriteResponse acknowledges a concept or relationship write.
// RemoteSynced is false when only the local store accepted the record.
type WriteResponse struct {
	Success      bool   `json:"success"`
	RemoteSynced bool   `json:"remote_synced"`
	Message      string `json:"message,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
