package mettakg

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/agentforge/mettakg/pkg/local"
	"github.com/agentforge/mettakg/pkg/remote"
	"github.com/agentforge/mettakg/pkg/store"
	"github.com/agentforge/mettakg/pkg/types"
)

// ErrQueryRequired is returned when Query is called with blank text. It
// is the only error Query can return; remote failures degrade to the
// local engine instead of surfacing.
var ErrQueryRequired = errors.New("query is required")

// DefaultMaxResults caps fallback result lists. Remote results are
// passed through untruncated.
const DefaultMaxResults = 10

// Gateway is the knowledge graph surface agents consume. A single
// Client instance is safe for concurrent use.
type Gateway interface {
	// Query answers free-text questions, remote first with local
	// fallback. The response envelope is identical for both paths.
	Query(ctx context.Context, text string, parameters map[string]any) (*types.QueryResponse, error)

	// AddConcept writes the concept to the remote service best-effort
	// and to the local store unconditionally. The bool reports whether
	// the remote write succeeded.
	AddConcept(ctx context.Context, concept *types.Concept) (bool, error)

	// AddRelationship mirrors AddConcept for edges.
	AddRelationship(ctx context.Context, rel *types.Relationship) (bool, error)

	// GetConcept looks up one concept by exact name in the local store.
	GetConcept(name string) (*types.Concept, bool)

	// ListConcepts returns local concepts, optionally domain-filtered.
	ListConcepts(domain types.Domain) []*types.Concept

	// FindRelationships returns local edges from the named concept,
	// optionally filtered by relationship type.
	FindRelationships(conceptName, relType string) []*types.Relationship

	// ListRelationships returns every local edge in insertion order.
	ListRelationships() []*types.Relationship

	// DeleteConcept removes a concept from the local store only.
	DeleteConcept(name string) bool

	// Context bundles the local view of one domain.
	Context(domain types.Domain) *types.KnowledgeContext

	// Stats reports local store sizes in the /health payload shape.
	Stats() *types.HealthStatus

	// Probe checks remote reachability once, for startup logging. Its
	// outcome has no effect on later query routing.
	Probe(ctx context.Context) (*types.HealthStatus, error)
}

// Options tunes gateway behavior beyond the defaults.
type Options struct {
	// MaxResults caps fallback result lists. Zero selects
	// DefaultMaxResults; a negative value disables the cap.
	MaxResults int

	// Keywords overrides the fallback engine's domain keyword sets.
	Keywords map[types.Domain][]string
}

// Client implements Gateway over a remote GraphService and a pair of
// local stores shared with the fallback engine.
type Client struct {
	remote        remote.GraphService
	concepts      *store.ConceptStore
	relationships *store.RelationshipStore
	engine        *local.Engine
	logger        *slog.Logger
	maxResults    int
}

var _ Gateway = (*Client)(nil)

// NewClient wires a gateway over the given service and stores. Nil
// stores are created empty; nil opts selects defaults.
func NewClient(svc remote.GraphService, concepts *store.ConceptStore, relationships *store.RelationshipStore, opts *Options, logger *slog.Logger) (*Client, error) {
	if svc == nil {
		return nil, errors.New("remote graph service is required")
	}
	if concepts == nil {
		concepts = store.NewConceptStore()
	}
	if relationships == nil {
		relationships = store.NewRelationshipStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts == nil {
		opts = &Options{}
	}

	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = DefaultMaxResults
	}

	return &Client{
		remote:        svc,
		concepts:      concepts,
		relationships: relationships,
		engine:        local.NewEngine(concepts, relationships, opts.Keywords, logger),
		logger:        logger,
		maxResults:    maxResults,
	}, nil
}

// Query tries the remote service and falls back to the local engine on
// any failure. Both paths produce a success envelope; the Source field
// records which one served the call.
func (c *Client) Query(ctx context.Context, text string, parameters map[string]any) (*types.QueryResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrQueryRequired
	}

	results, err := c.remote.Query(ctx, text, parameters)
	if err == nil {
		return envelope(text, results, types.SourceRemote), nil
	}

	c.logger.Warn("remote query failed, serving fallback",
		slog.String("query", text),
		slog.String("error", err.Error()))

	results = c.engine.Query(text)
	if c.maxResults > 0 && len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	return envelope(text, results, types.SourceFallback), nil
}

// AddConcept validates and stores the concept. The remote write is
// attempted first; its failure downgrades the return value but never
// blocks the local write.
func (c *Client) AddConcept(ctx context.Context, concept *types.Concept) (bool, error) {
	if err := concept.Validate(); err != nil {
		return false, err
	}

	remoteOK := true
	if err := c.remote.AddConcept(ctx, concept); err != nil {
		remoteOK = false
		c.logger.Warn("remote concept write failed, keeping local copy",
			slog.String("concept", concept.Name),
			slog.String("error", err.Error()))
	}

	c.concepts.Put(concept)
	return remoteOK, nil
}

// AddRelationship validates and stores the edge, mirroring AddConcept.
// Endpoints are not checked against the concept store.
func (c *Client) AddRelationship(ctx context.Context, rel *types.Relationship) (bool, error) {
	if err := rel.Validate(); err != nil {
		return false, err
	}

	remoteOK := true
	if err := c.remote.AddRelationship(ctx, rel); err != nil {
		remoteOK = false
		c.logger.Warn("remote relationship write failed, keeping local copy",
			slog.String("from", rel.FromConcept),
			slog.String("to", rel.ToConcept),
			slog.String("error", err.Error()))
	}

	c.relationships.Create(rel.FromConcept, rel.ToConcept, rel.RelationshipType, rel.Properties)
	return remoteOK, nil
}

// GetConcept looks up a concept by exact name in the local store.
func (c *Client) GetConcept(name string) (*types.Concept, bool) {
	return c.concepts.Get(name)
}

// ListConcepts returns local concepts in insertion order, optionally
// filtered by domain.
func (c *Client) ListConcepts(domain types.Domain) []*types.Concept {
	return c.concepts.List(domain)
}

// FindRelationships returns local edges from the named concept.
func (c *Client) FindRelationships(conceptName, relType string) []*types.Relationship {
	return c.relationships.Find(conceptName, relType)
}

// ListRelationships returns every local edge in insertion order.
func (c *Client) ListRelationships() []*types.Relationship {
	return c.relationships.All()
}

// DeleteConcept removes a concept from the local store. Relationships
// referencing it are left in place.
func (c *Client) DeleteConcept(name string) bool {
	return c.concepts.Delete(name)
}

// Context returns everything the local store knows about one domain.
func (c *Client) Context(domain types.Domain) *types.KnowledgeContext {
	return &types.KnowledgeContext{
		Domain:    domain,
		Concepts:  c.concepts.List(domain),
		Timestamp: time.Now().UTC(),
	}
}

// Stats reports local store sizes.
func (c *Client) Stats() *types.HealthStatus {
	return &types.HealthStatus{
		Status:             "healthy",
		ConceptsCount:      c.concepts.Len(),
		RelationshipsCount: c.relationships.Len(),
	}
}

// Probe checks the remote service once and logs the outcome. Queries
// route the same way whether or not the probe succeeded.
func (c *Client) Probe(ctx context.Context) (*types.HealthStatus, error) {
	status, err := c.remote.Health(ctx)
	if err != nil {
		c.logger.Warn("remote graph service unreachable, fallback mode available",
			slog.String("error", err.Error()))
		return nil, err
	}
	c.logger.Info("remote graph service reachable",
		slog.String("status", status.Status),
		slog.Int("concepts", status.ConceptsCount),
		slog.Int("relationships", status.RelationshipsCount))
	return status, nil
}

func envelope(query string, results []types.Result, source string) *types.QueryResponse {
	if results == nil {
		results = []types.Result{}
	}
	return &types.QueryResponse{
		Query:     query,
		Results:   results,
		Status:    types.StatusSuccess,
		Message:   "",
		Timestamp: time.Now().UTC(),
		Source:    source,
	}
}
