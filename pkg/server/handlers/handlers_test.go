package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/agentforge/mettakg"
	"github.com/agentforge/mettakg/pkg/remote"
	"github.com/agentforge/mettakg/pkg/store"
)

// newGateway builds a gateway with the default seed and an unreachable
// remote endpoint, so handlers exercise the fallback path.
func newGateway(t *testing.T) mettakg.Gateway {
	t.Helper()

	concepts := store.NewConceptStore()
	relationships := store.NewRelationshipStore()
	store.DefaultSeed().Apply(concepts, relationships)

	svc := remote.NewClient(remote.Config{Endpoint: "http://127.0.0.1:1"}, nil)
	kg, err := mettakg.NewClient(svc, concepts, relationships, nil, nil)
	if err != nil {
		t.Fatalf("build gateway: %v", err)
	}
	return kg
}

func newRouter(t *testing.T) (*gin.Engine, mettakg.Gateway) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kg := newGateway(t)
	router := gin.New()

	health := NewHealthHandler(kg)
	query := NewQueryHandler(kg)
	knowledge := NewKnowledgeHandler(kg)

	router.GET("/", health.Info)
	router.GET("/health", health.Health)
	router.POST("/query", query.Query)
	router.POST("/concepts", knowledge.AddConcept)
	router.GET("/concepts", knowledge.ListConcepts)
	router.GET("/concepts/:name", knowledge.GetConcept)
	router.DELETE("/concepts/:name", knowledge.DeleteConcept)
	router.POST("/relationships", knowledge.AddRelationship)
	router.GET("/relationships", knowledge.ListRelationships)
	router.GET("/domains/:domain", knowledge.DomainContext)

	return router, kg
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	router, _ := newRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	resp := decode(t, w)
	if resp["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", resp["status"])
	}
	if resp["concepts_count"] != float64(9) {
		t.Errorf("expected 9 seeded concepts, got %v", resp["concepts_count"])
	}
	if resp["relationships_count"] != float64(9) {
		t.Errorf("expected 9 seeded relationships, got %v", resp["relationships_count"])
	}
}

func TestHealthNilGateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthHandler(nil).Health)

	w := doJSON(t, router, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestInfo(t *testing.T) {
	router, _ := newRouter(t)

	w := doJSON(t, router, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp["service"] != "mettakg" {
		t.Errorf("expected service mettakg, got %v", resp["service"])
	}
}

func TestQueryFallback(t *testing.T) {
	router, _ := newRouter(t)

	w := doJSON(t, router, http.MethodPost, "/query", `{"query": "fever treatment"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode(t, w)
	if resp["source"] != "fallback" {
		t.Errorf("expected fallback source, got %v", resp["source"])
	}
	if resp["status"] != "success" {
		t.Errorf("expected success status, got %v", resp["status"])
	}
	results, ok := resp["results"].([]any)
	if !ok || len(results) == 0 {
		t.Fatalf("expected results, got %v", resp["results"])
	}
}

func TestQueryLimit(t *testing.T) {
	router, _ := newRouter(t)

	w := doJSON(t, router, http.MethodPost, "/query", `{"query": "fever treatment", "limit": 1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode(t, w)
	results, _ := resp["results"].([]any)
	if len(results) != 1 {
		t.Errorf("expected 1 result with limit 1, got %d", len(results))
	}
}

func TestQueryValidation(t *testing.T) {
	router, _ := newRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty query", `{"query": ""}`},
		{"whitespace query", `{"query": "   "}`},
		{"missing query", `{}`},
		{"malformed json", `{"query": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/query", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestAddConcept(t *testing.T) {
	router, kg := newRouter(t)

	body := `{"name": "Insulin", "domain": "healthcare", "properties": {"class": "hormone"}}`
	w := doJSON(t, router, http.MethodPost, "/concepts", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode(t, w)
	if resp["success"] != true {
		t.Errorf("expected success, got %v", resp["success"])
	}
	if resp["remote_synced"] != false {
		t.Errorf("expected remote_synced false with dead remote, got %v", resp["remote_synced"])
	}

	if _, ok := kg.GetConcept("Insulin"); !ok {
		t.Error("concept not stored locally")
	}
}

func TestAddConceptValidation(t *testing.T) {
	router, _ := newRouter(t)

	w := doJSON(t, router, http.MethodPost, "/concepts", `{"name": "  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetConcept(t *testing.T) {
	router, _ := newRouter(t)

	w := doJSON(t, router, http.MethodGet, "/concepts/Fever", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp["name"] != "Fever" {
		t.Errorf("expected Fever, got %v", resp["name"])
	}

	w = doJSON(t, router, http.MethodGet, "/concepts/Nonexistent", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestListConceptsByDomain(t *testing.T) {
	router, _ := newRouter(t)

	w := doJSON(t, router, http.MethodGet, "/concepts?domain=finance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode(t, w)
	concepts, ok := resp["concepts"].([]any)
	if !ok || len(concepts) != 3 {
		t.Errorf("expected 3 finance concepts, got %v", resp["concepts"])
	}
}

func TestDeleteConcept(t *testing.T) {
	router, kg := newRouter(t)

	w := doJSON(t, router, http.MethodDelete, "/concepts/Fever", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if _, ok := kg.GetConcept("Fever"); ok {
		t.Error("concept still present after delete")
	}

	w = doJSON(t, router, http.MethodDelete, "/concepts/Fever", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestAddRelationship(t *testing.T) {
	router, kg := newRouter(t)

	body := `{"from_concept": "Fever", "to_concept": "Hydration", "relationship_type": "RELIEVED_BY"}`
	w := doJSON(t, router, http.MethodPost, "/relationships", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	if len(kg.FindRelationships("Fever", "RELIEVED_BY")) != 1 {
		t.Error("relationship not stored locally")
	}
}

func TestAddRelationshipValidation(t *testing.T) {
	router, _ := newRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing endpoints", `{"relationship_type": "X"}`},
		{"missing type", `{"from_concept": "A", "to_concept": "B"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/relationships", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestListRelationshipsFiltered(t *testing.T) {
	router, _ := newRouter(t)

	w := doJSON(t, router, http.MethodGet, "/relationships?concept=Fever", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode(t, w)
	rels, ok := resp["relationships"].([]any)
	if !ok || len(rels) != 2 {
		t.Errorf("expected 2 edges from Fever, got %v", resp["relationships"])
	}

	w = doJSON(t, router, http.MethodGet, "/relationships?concept=Fever&type=TREATED_BY", "")
	resp = decode(t, w)
	rels, _ = resp["relationships"].([]any)
	if len(rels) != 1 {
		t.Errorf("expected 1 TREATED_BY edge, got %d", len(rels))
	}
}

func TestDomainContext(t *testing.T) {
	router, _ := newRouter(t)

	w := doJSON(t, router, http.MethodGet, "/domains/healthcare", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp["domain"] != "healthcare" {
		t.Errorf("expected healthcare domain, got %v", resp["domain"])
	}
	concepts, ok := resp["concepts"].([]any)
	if !ok || len(concepts) != 3 {
		t.Errorf("expected 3 healthcare concepts, got %v", resp["concepts"])
	}
}
