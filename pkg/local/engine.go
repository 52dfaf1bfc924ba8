// Package local implements the degraded-mode query path: a keyword and
// domain heuristic over the embedded stores, used whenever the remote
// graph service is unavailable. It is explicitly not semantic search;
// ranking quality is intentionally coarse.
package local

import (
	"log/slog"
	"strings"

	"github.com/agentforge/mettakg/pkg/store"
	"github.com/agentforge/mettakg/pkg/types"
)

// Confidence tiers. Name-token matches outrank plain domain matches,
// which outrank generic matches; callers needing top-K sort on the
// returned confidence themselves.
const (
	NameMatchConfidence    = 0.9
	DomainMatchConfidence  = 0.7
	GenericMatchConfidence = 0.5
)

// DefaultKeywords routes query text to a domain. Classification is a
// pure function of these sets: the same text always yields the same
// domain.
var DefaultKeywords = map[types.Domain][]string{
	types.DomainHealthcare: {"health", "medical", "symptom", "disease", "treatment", "fever", "pain"},
	types.DomainLogistics:  {"logistics", "supply", "chain", "delivery", "inventory", "route", "optimization"},
	types.DomainFinance:    {"finance", "investment", "portfolio", "defi", "crypto", "yield", "farming"},
}

// classifyOrder fixes the domain test order so that overlapping keyword
// hits classify deterministically.
var classifyOrder = []types.Domain{types.DomainHealthcare, types.DomainLogistics, types.DomainFinance}

// Engine scans the concept and relationship stores with keyword
// heuristics. One instance per agent process, sharing the stores with
// the gateway.
type Engine struct {
	concepts      *store.ConceptStore
	relationships *store.RelationshipStore
	keywords      map[types.Domain][]string
	logger        *slog.Logger
}

// NewEngine creates a fallback engine over the given stores. A nil
// keywords map selects DefaultKeywords; a nil relationship store skips
// the relationship scan.
func NewEngine(concepts *store.ConceptStore, relationships *store.RelationshipStore, keywords map[types.Domain][]string, logger *slog.Logger) *Engine {
	if keywords == nil {
		keywords = DefaultKeywords
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		concepts:      concepts,
		relationships: relationships,
		keywords:      keywords,
		logger:        logger,
	}
}

// Classify routes query text to a domain by keyword-set membership.
func (e *Engine) Classify(text string) types.Domain {
	lower := strings.ToLower(text)
	for _, domain := range classifyOrder {
		for _, kw := range e.keywords[domain] {
			if strings.Contains(lower, kw) {
				return domain
			}
		}
	}
	return types.DomainGeneral
}

// Query returns concept matches for the text in store insertion order,
// annotated with a confidence tier, followed by relationship matches.
func (e *Engine) Query(text string) []types.Result {
	lower := strings.ToLower(text)
	tokens := strings.Fields(lower)
	domain := e.Classify(text)

	var results []types.Result
	if domain != types.DomainGeneral {
		for _, c := range e.concepts.List(domain) {
			confidence := DomainMatchConfidence
			if tokenInName(tokens, c.Name) {
				confidence = NameMatchConfidence
			}
			results = append(results, types.Result{
				Concept:    types.Ref(c),
				Type:       types.ResultKindConcept,
				Confidence: confidence,
			})
		}
	} else {
		for _, c := range e.concepts.List("") {
			if !tokenInName(tokens, c.Name) {
				continue
			}
			results = append(results, types.Result{
				Concept:    types.Ref(c),
				Type:       types.ResultKindConcept,
				Confidence: GenericMatchConfidence,
			})
		}
	}

	results = append(results, e.scanRelationships(tokens)...)

	e.logger.Debug("fallback query served",
		slog.String("domain", string(domain)),
		slog.Int("results", len(results)))
	return results
}

// scanRelationships returns edges whose endpoints or type contain a
// query token, appended after concept matches.
func (e *Engine) scanRelationships(tokens []string) []types.Result {
	if e.relationships == nil {
		return nil
	}
	var results []types.Result
	for _, rel := range e.relationships.All() {
		haystack := strings.ToLower(rel.FromConcept + " " + rel.ToConcept + " " + rel.RelationshipType)
		for _, token := range tokens {
			if strings.Contains(haystack, token) {
				results = append(results, types.Result{
					Relationship: rel,
					Type:         types.ResultKindRelationship,
					Confidence:   DomainMatchConfidence,
				})
				break
			}
		}
	}
	return results
}

func tokenInName(tokens []string, name string) bool {
	lower := strings.ToLower(name)
	for _, token := range tokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
