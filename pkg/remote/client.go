// Package remote talks to the external MeTTa graph service over
// HTTP/JSON. Every failure mode (connection refused, timeout, bad
// status, malformed payload) collapses into ErrUnavailable, which the
// gateway treats as a fallback trigger, never as a caller-visible error.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/agentforge/mettakg/pkg/types"
)

const (
	// DefaultEndpoint is used when no graph service URL is configured.
	DefaultEndpoint = "http://localhost:8080"
	// DefaultTimeout bounds every remote call. There is no persistent
	// breaker state by default: a service that comes back online is
	// used again on the very next call.
	DefaultTimeout = 10 * time.Second
)

// ErrUnavailable signals that the remote graph service could not serve
// the request. It is an internal signal for the gateway, not an error
// surfaced to agents.
var ErrUnavailable = errors.New("remote graph service unavailable")

// GraphService is the contract the gateway depends on. The plain
// Client implements it, as do the breaker and retry wrappers.
type GraphService interface {
	Query(ctx context.Context, text string, parameters map[string]any) ([]types.Result, error)
	AddConcept(ctx context.Context, concept *types.Concept) error
	AddRelationship(ctx context.Context, rel *types.Relationship) error
	Health(ctx context.Context) (*types.HealthStatus, error)
}

// Config holds remote client configuration.
type Config struct {
	// Endpoint is the graph service base URL.
	Endpoint string
	// Timeout is the fixed per-call timeout.
	Timeout time.Duration
}

// Client is the HTTP implementation of GraphService.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a remote graph client. Zero config fields fall back
// to DefaultEndpoint and DefaultTimeout.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Endpoint returns the configured base URL.
func (c *Client) Endpoint() string { return c.endpoint }

type queryRequest struct {
	Query      string         `json:"query"`
	Parameters map[string]any `json:"parameters"`
}

type queryResponse struct {
	Results *[]types.Result `json:"results"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
}

// Query POSTs {query, parameters} to /query. On HTTP 200 with a
// well-formed results array the entries are returned as-is; anything
// else yields ErrUnavailable.
func (c *Client) Query(ctx context.Context, text string, parameters map[string]any) ([]types.Result, error) {
	if parameters == nil {
		parameters = map[string]any{}
	}
	body, err := json.Marshal(queryRequest{Query: text, Parameters: parameters})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	resp, err := c.post(ctx, "/query", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query returned status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("malformed query response: %v: %w", err, ErrUnavailable)
	}
	if decoded.Results == nil {
		return nil, fmt.Errorf("query response missing results field: %w", ErrUnavailable)
	}
	return *decoded.Results, nil
}

// AddConcept POSTs the concept to /concepts. Failures report
// ErrUnavailable so the gateway can treat the write as best-effort.
func (c *Client) AddConcept(ctx context.Context, concept *types.Concept) error {
	payload := struct {
		Name       string            `json:"name"`
		Properties *types.Properties `json:"properties"`
	}{Name: concept.Name, Properties: concept.Properties}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode concept: %w", err)
	}
	return c.write(ctx, "/concepts", body)
}

// AddRelationship POSTs the relationship to /relationships.
func (c *Client) AddRelationship(ctx context.Context, rel *types.Relationship) error {
	payload := struct {
		FromConcept      string            `json:"from_concept"`
		ToConcept        string            `json:"to_concept"`
		RelationshipType string            `json:"relationship_type"`
		Properties       *types.Properties `json:"properties"`
	}{
		FromConcept:      rel.FromConcept,
		ToConcept:        rel.ToConcept,
		RelationshipType: rel.RelationshipType,
		Properties:       rel.Properties,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode relationship: %w", err)
	}
	return c.write(ctx, "/relationships", body)
}

// Health GETs /health. It is intended for a single explicit probe at
// startup; individual queries never consult it.
func (c *Client) Health(ctx context.Context) (*types.HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("build health request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health check failed: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check returned status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var status types.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("malformed health response: %v: %w", err, ErrUnavailable)
	}
	return &status, nil
}

func (c *Client) write(ctx context.Context, path string, body []byte) error {
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s returned status %d: %w", path, resp.StatusCode, ErrUnavailable)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %v: %w", path, err, ErrUnavailable)
	}
	return resp, nil
}
