package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/agentforge/mettakg/pkg/types"
)

// BreakerConfig holds circuit breaker settings. Disabled by default:
// with no breaker every query is a fresh attempt against the remote
// service, which is the documented recoverability behavior. Enabling
// it trades repeated doomed connection attempts during an outage for
// breaker state between calls.
type BreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ReadyToTripRatio float64
}

// DefaultBreakerConfig returns conservative breaker settings, still
// disabled.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          false,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		ReadyToTripRatio: 0.6,
	}
}

// BreakerClient wraps a GraphService with circuit breaking. An open
// circuit reports ErrUnavailable immediately, so the gateway falls back
// without waiting out the connection timeout.
type BreakerClient struct {
	service GraphService
	cb      *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewBreakerClient wraps service with a circuit breaker built from cfg.
func NewBreakerClient(service GraphService, cfg BreakerConfig, logger *slog.Logger) *BreakerClient {
	if logger == nil {
		logger = slog.Default()
	}

	st := gobreaker.Settings{
		Name:        "metta-graph-service",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("remote graph circuit state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &BreakerClient{
		service: service,
		cb:      gobreaker.NewCircuitBreaker(st),
		logger:  logger,
	}
}

// Query implements GraphService.
func (b *BreakerClient) Query(ctx context.Context, text string, parameters map[string]any) ([]types.Result, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.service.Query(ctx, text, parameters)
	})
	if err != nil {
		return nil, breakerErr(err)
	}
	return out.([]types.Result), nil
}

// AddConcept implements GraphService.
func (b *BreakerClient) AddConcept(ctx context.Context, concept *types.Concept) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.service.AddConcept(ctx, concept)
	})
	return breakerErr(err)
}

// AddRelationship implements GraphService.
func (b *BreakerClient) AddRelationship(ctx context.Context, rel *types.Relationship) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.service.AddRelationship(ctx, rel)
	})
	return breakerErr(err)
}

// Health implements GraphService. Probes bypass the breaker so an
// explicit health check always reflects the real service state.
func (b *BreakerClient) Health(ctx context.Context) (*types.HealthStatus, error) {
	return b.service.Health(ctx)
}

// breakerErr maps gobreaker's own rejections onto ErrUnavailable so
// callers only ever branch on one sentinel.
func breakerErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("circuit open: %w", ErrUnavailable)
	}
	return err
}
