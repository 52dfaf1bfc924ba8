package mettakg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentforge/mettakg/pkg/remote"
	"github.com/agentforge/mettakg/pkg/store"
	"github.com/agentforge/mettakg/pkg/types"
)

// stubService is a scriptable GraphService for gateway tests.
type stubService struct {
	queryResults []types.Result
	queryErr     error
	writeErr     error
	health       *types.HealthStatus
	healthErr    error

	queries  []string
	concepts []*types.Concept
	rels     []*types.Relationship
}

func (s *stubService) Query(_ context.Context, text string, _ map[string]any) ([]types.Result, error) {
	s.queries = append(s.queries, text)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.queryResults, nil
}

func (s *stubService) AddConcept(_ context.Context, c *types.Concept) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.concepts = append(s.concepts, c)
	return nil
}

func (s *stubService) AddRelationship(_ context.Context, rel *types.Relationship) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.rels = append(s.rels, rel)
	return nil
}

func (s *stubService) Health(_ context.Context) (*types.HealthStatus, error) {
	if s.healthErr != nil {
		return nil, s.healthErr
	}
	return s.health, nil
}

func newTestClient(t *testing.T, svc remote.GraphService) (*Client, *store.ConceptStore, *store.RelationshipStore) {
	t.Helper()
	concepts := store.NewConceptStore()
	relationships := store.NewRelationshipStore()
	kg, err := NewClient(svc, concepts, relationships, nil, nil)
	require.NoError(t, err)
	return kg, concepts, relationships
}

func TestQueryRemoteSuccess(t *testing.T) {
	svc := &stubService{
		queryResults: []types.Result{
			{Concept: types.NameRef("DeFi"), Confidence: 0.91},
		},
	}
	kg, _, _ := newTestClient(t, svc)

	resp, err := kg.Query(context.Background(), "defi yield", nil)
	require.NoError(t, err)

	assert.Equal(t, types.SourceRemote, resp.Source)
	assert.Equal(t, types.StatusSuccess, resp.Status)
	assert.Equal(t, "defi yield", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "DeFi", resp.Results[0].Concept.Name)
	assert.Equal(t, 0.91, resp.Results[0].Confidence)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestQueryFallbackOnRemoteFailure(t *testing.T) {
	svc := &stubService{queryErr: remote.ErrUnavailable}
	kg, concepts, _ := newTestClient(t, svc)
	concepts.Put(&types.Concept{Name: "Fever", Domain: types.DomainHealthcare})

	resp, err := kg.Query(context.Background(), "fever treatment", nil)
	require.NoError(t, err, "remote failures must not surface")

	assert.Equal(t, types.SourceFallback, resp.Source)
	assert.Equal(t, types.StatusSuccess, resp.Status)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Fever", resp.Results[0].Concept.Name)
	assert.Equal(t, 0.9, resp.Results[0].Confidence, "query token matches the concept name")
}

func TestQueryFallbackOnAnyError(t *testing.T) {
	svc := &stubService{queryErr: errors.New("boom")}
	kg, _, _ := newTestClient(t, svc)

	resp, err := kg.Query(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.Equal(t, types.SourceFallback, resp.Source)
	assert.NotNil(t, resp.Results, "empty fallback still returns an array")
	assert.Empty(t, resp.Results)
}

func TestQueryBlankText(t *testing.T) {
	svc := &stubService{}
	kg, _, _ := newTestClient(t, svc)

	for _, text := range []string{"", "   ", "\t\n"} {
		resp, err := kg.Query(context.Background(), text, nil)
		assert.ErrorIs(t, err, ErrQueryRequired, "text %q", text)
		assert.Nil(t, resp)
	}
	assert.Empty(t, svc.queries, "blank queries never reach the remote")
}

func TestQueryRemoteResultsNotTruncated(t *testing.T) {
	results := make([]types.Result, 25)
	for i := range results {
		results[i] = types.Result{Concept: types.NameRef("c"), Confidence: 0.5}
	}
	kg, _, _ := newTestClient(t, &stubService{queryResults: results})

	resp, err := kg.Query(context.Background(), "everything", nil)
	require.NoError(t, err)
	assert.Len(t, resp.Results, 25)
}

func TestQueryFallbackCappedAtMaxResults(t *testing.T) {
	svc := &stubService{queryErr: remote.ErrUnavailable}
	concepts := store.NewConceptStore()
	relationships := store.NewRelationshipStore()
	for _, name := range []string{"Fever A", "Fever B", "Fever C"} {
		concepts.Put(&types.Concept{Name: name, Domain: types.DomainHealthcare})
	}
	kg, err := NewClient(svc, concepts, relationships, &Options{MaxResults: 2}, nil)
	require.NoError(t, err)

	resp, err := kg.Query(context.Background(), "fever", nil)
	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
}

func TestAddConceptDualWrite(t *testing.T) {
	svc := &stubService{}
	kg, concepts, _ := newTestClient(t, svc)

	ok, err := kg.AddConcept(context.Background(), &types.Concept{Name: "Insulin", Domain: types.DomainHealthcare})
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, svc.concepts, 1)
	stored, found := concepts.Get("Insulin")
	require.True(t, found)
	assert.Equal(t, types.DefaultConfidence, stored.Confidence)
}

func TestAddConceptRemoteFailureKeepsLocal(t *testing.T) {
	svc := &stubService{writeErr: remote.ErrUnavailable}
	kg, concepts, _ := newTestClient(t, svc)

	ok, err := kg.AddConcept(context.Background(), &types.Concept{Name: "Insulin"})
	require.NoError(t, err, "remote write failures are not errors")
	assert.False(t, ok, "caller learns the remote write did not land")

	_, found := concepts.Get("Insulin")
	assert.True(t, found, "local write happens regardless")
}

func TestAddConceptInvalid(t *testing.T) {
	svc := &stubService{}
	kg, concepts, _ := newTestClient(t, svc)

	ok, err := kg.AddConcept(context.Background(), &types.Concept{Name: "  "})
	assert.ErrorIs(t, err, types.ErrEmptyConceptName)
	assert.False(t, ok)
	assert.Empty(t, svc.concepts)
	assert.Zero(t, concepts.Len())
}

func TestAddRelationshipDualWrite(t *testing.T) {
	svc := &stubService{writeErr: remote.ErrUnavailable}
	kg, _, relationships := newTestClient(t, svc)

	ok, err := kg.AddRelationship(context.Background(), &types.Relationship{
		FromConcept:      "Fever",
		ToConcept:        "Antibiotic",
		RelationshipType: "treated_by",
	})
	require.NoError(t, err)
	assert.False(t, ok)

	edges := relationships.Find("Fever", "treated_by")
	require.Len(t, edges, 1)
	assert.NotEmpty(t, edges[0].ID)
}

func TestAddRelationshipInvalid(t *testing.T) {
	kg, _, relationships := newTestClient(t, &stubService{})

	ok, err := kg.AddRelationship(context.Background(), &types.Relationship{
		FromConcept: "Fever",
		ToConcept:   "Antibiotic",
	})
	assert.ErrorIs(t, err, types.ErrEmptyRelationType)
	assert.False(t, ok)
	assert.Zero(t, relationships.Len())
}

func TestAddThenQueryRoundTrip(t *testing.T) {
	svc := &stubService{queryErr: remote.ErrUnavailable, writeErr: remote.ErrUnavailable}
	kg, _, _ := newTestClient(t, svc)

	ok, err := kg.AddConcept(context.Background(), &types.Concept{
		Name:        "Fever",
		Description: "Elevated body temperature",
		Domain:      types.DomainHealthcare,
	})
	require.NoError(t, err)
	assert.False(t, ok)

	resp, err := kg.Query(context.Background(), "fever", nil)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "Fever", resp.Results[0].Concept.Name)
	assert.GreaterOrEqual(t, resp.Results[0].Confidence, 0.7)
}

func TestSeededScenarios(t *testing.T) {
	svc := &stubService{queryErr: remote.ErrUnavailable}
	concepts := store.NewConceptStore()
	relationships := store.NewRelationshipStore()
	store.DefaultSeed().Apply(concepts, relationships)
	kg, err := NewClient(svc, concepts, relationships, &Options{MaxResults: -1}, nil)
	require.NoError(t, err)

	tests := []struct {
		query    string
		wantName string
		wantConf float64
	}{
		{"how do I treat a fever", "Fever", 0.9},
		{"route", "Route Optimization", 0.9},
		{"supply chain inventory", "Route Optimization", 0.7},
		{"defi yield farming", "DeFi", 0.9},
	}
	for _, tt := range tests {
		resp, err := kg.Query(context.Background(), tt.query, nil)
		require.NoError(t, err, tt.query)
		require.NotEmpty(t, resp.Results, tt.query)
		assert.Equal(t, tt.wantName, resp.Results[0].Concept.Name, tt.query)
		assert.Equal(t, tt.wantConf, resp.Results[0].Confidence, tt.query)
	}
}

func TestContextAndStats(t *testing.T) {
	kg, concepts, relationships := newTestClient(t, &stubService{})
	concepts.Put(&types.Concept{Name: "DeFi", Domain: types.DomainFinance})
	concepts.Put(&types.Concept{Name: "Fever", Domain: types.DomainHealthcare})
	relationships.Create("DeFi", "Yield Farming", "enables", nil)

	kc := kg.Context(types.DomainFinance)
	assert.Equal(t, types.DomainFinance, kc.Domain)
	require.Len(t, kc.Concepts, 1)
	assert.Equal(t, "DeFi", kc.Concepts[0].Name)
	assert.False(t, kc.Timestamp.IsZero())

	stats := kg.Stats()
	assert.Equal(t, "healthy", stats.Status)
	assert.Equal(t, 2, stats.ConceptsCount)
	assert.Equal(t, 1, stats.RelationshipsCount)
}

func TestProbe(t *testing.T) {
	healthy := &stubService{health: &types.HealthStatus{Status: "healthy", ConceptsCount: 4}}
	kg, _, _ := newTestClient(t, healthy)

	status, err := kg.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, status.ConceptsCount)

	down := &stubService{healthErr: remote.ErrUnavailable}
	kg, _, _ = newTestClient(t, down)

	_, err = kg.Probe(context.Background())
	assert.ErrorIs(t, err, remote.ErrUnavailable)

	resp, err := kg.Query(context.Background(), "anything", nil)
	require.NoError(t, err, "a failed probe does not poison later queries")
	assert.Equal(t, types.SourceFallback, resp.Source)
}

func TestLocalReadsAndDelete(t *testing.T) {
	kg, concepts, relationships := newTestClient(t, &stubService{})
	concepts.Put(&types.Concept{Name: "Fever", Domain: types.DomainHealthcare})
	relationships.Create("Fever", "Antibiotic", "treated_by", nil)

	c, ok := kg.GetConcept("Fever")
	require.True(t, ok)
	assert.Equal(t, types.DomainHealthcare, c.Domain)

	assert.Len(t, kg.ListConcepts(""), 1)
	assert.Len(t, kg.ListRelationships(), 1)
	assert.Len(t, kg.FindRelationships("Fever", ""), 1)

	assert.True(t, kg.DeleteConcept("Fever"))
	assert.False(t, kg.DeleteConcept("Fever"))
	assert.Len(t, kg.ListRelationships(), 1, "edges survive concept deletion")
}
