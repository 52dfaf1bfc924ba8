package mettakg

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/agentforge/mettakg"
	"github.com/agentforge/mettakg/pkg/config"
	"github.com/agentforge/mettakg/pkg/local"
	"github.com/agentforge/mettakg/pkg/logger"
	"github.com/agentforge/mettakg/pkg/remote"
	"github.com/agentforge/mettakg/pkg/store"
)

// buildLogger builds the process logger from configuration.
func buildLogger(cfg *config.Config) *slog.Logger {
	return logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
}

// buildGateway wires stores, seed data, the remote client and its
// optional wrappers into a ready gateway.
func buildGateway(cfg *config.Config, log *slog.Logger) (*mettakg.Client, error) {
	concepts := store.NewConceptStore()
	relationships := store.NewRelationshipStore()

	if cfg.Seed.Defaults {
		nc, nr := store.DefaultSeed().Apply(concepts, relationships)
		log.Info("default seed loaded", slog.Int("concepts", nc), slog.Int("relationships", nr))
	}
	if cfg.Seed.Path != "" {
		seed, err := store.LoadSeedFile(cfg.Seed.Path)
		if err != nil {
			return nil, fmt.Errorf("load seed file: %w", err)
		}
		nc, nr := seed.Apply(concepts, relationships)
		log.Info("seed file loaded",
			slog.String("path", cfg.Seed.Path),
			slog.Int("concepts", nc),
			slog.Int("relationships", nr))
	}

	var svc remote.GraphService = remote.NewClient(remote.Config{
		Endpoint: cfg.Remote.Endpoint,
		Timeout:  time.Duration(cfg.Remote.Timeout) * time.Second,
	}, log)

	if cfg.Retry.Retries > 0 {
		svc = remote.NewRetryClient(svc, &remote.RetryConfig{
			MaxRetries:   cfg.Retry.Retries,
			InitialDelay: time.Duration(cfg.Retry.RetryDelay) * time.Second,
		})
	}
	if cfg.CircuitBreaker.Enabled {
		svc = remote.NewBreakerClient(svc, remote.BreakerConfig{
			Enabled:          true,
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		}, log)
	}

	opts := &mettakg.Options{
		MaxResults: cfg.Query.MaxResults,
		Keywords:   local.DefaultKeywords,
	}
	return mettakg.NewClient(svc, concepts, relationships, opts, log)
}
