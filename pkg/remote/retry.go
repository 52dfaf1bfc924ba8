package remote

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/agentforge/mettakg/pkg/types"
)

// RetryConfig holds retry behavior for remote calls. Zero MaxRetries
// means a single attempt, which is the default: the gateway's fallback
// already covers transient outages, so retries are an opt-in knob.
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the retry settings used when retries are
// enabled without explicit tuning.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialDelay:      1 * time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a GraphService with exponential backoff on
// ErrUnavailable. Other errors are returned immediately.
type RetryClient struct {
	service GraphService
	config  *RetryConfig
}

// NewRetryClient wraps service with retry logic.
func NewRetryClient(service GraphService, config *RetryConfig) *RetryClient {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 1 * time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.BackoffMultiplier <= 0 {
		config.BackoffMultiplier = 2.0
	}
	return &RetryClient{service: service, config: config}
}

// Query implements GraphService.
func (r *RetryClient) Query(ctx context.Context, text string, parameters map[string]any) ([]types.Result, error) {
	var results []types.Result
	err := r.do(ctx, func() error {
		var err error
		results, err = r.service.Query(ctx, text, parameters)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// AddConcept implements GraphService.
func (r *RetryClient) AddConcept(ctx context.Context, concept *types.Concept) error {
	return r.do(ctx, func() error {
		return r.service.AddConcept(ctx, concept)
	})
}

// AddRelationship implements GraphService.
func (r *RetryClient) AddRelationship(ctx context.Context, rel *types.Relationship) error {
	return r.do(ctx, func() error {
		return r.service.AddRelationship(ctx, rel)
	})
}

// Health implements GraphService. Probes are single-shot.
func (r *RetryClient) Health(ctx context.Context) (*types.HealthStatus, error) {
	return r.service.Health(ctx)
}

func (r *RetryClient) do(ctx context.Context, call func() error) error {
	var lastErr error
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(r.delay(attempt)):
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during retry backoff: %w", ctx.Err())
			}
		}

		lastErr = call()
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, ErrUnavailable) {
			return lastErr
		}
	}
	return lastErr
}

func (r *RetryClient) delay(attempt int) time.Duration {
	d := time.Duration(float64(r.config.InitialDelay) * math.Pow(r.config.BackoffMultiplier, float64(attempt-1)))
	if d > r.config.MaxDelay {
		d = r.config.MaxDelay
	}
	return d
}
