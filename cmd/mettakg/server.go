package mettakg

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentforge/mettakg/pkg/config"
	"github.com/agentforge/mettakg/pkg/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the knowledge gateway HTTP server",
	Long: `Start the HTTP server exposing the knowledge gateway.

The server provides endpoints for:
- Querying knowledge (remote graph with local fallback)
- Adding concepts and relationships
- Browsing the local store by domain
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8081, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "release", "Server mode (debug, release, test)")

	serverCmd.Flags().Bool("no-seed", false, "Start with empty stores instead of the default seed")
	serverCmd.Flags().String("seed-file", "", "Additional YAML seed file")
	serverCmd.Flags().Int("retries", 0, "Remote call retries (0 disables)")
	serverCmd.Flags().Bool("circuit-breaker", false, "Enable the remote circuit breaker")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrideConfigWithFlags(cmd, cfg)

	if err := validateServerConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := buildLogger(cfg)

	gateway, err := buildGateway(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build gateway: %w", err)
	}

	// One reachability probe at startup. Its outcome is informational:
	// queries route remote-first either way.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Remote.Timeout)*time.Second)
	gateway.Probe(probeCtx)
	probeCancel()

	srv := server.New(cfg, gateway, log)
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info("server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	if endpoint, _ := cmd.Root().PersistentFlags().GetString("endpoint"); endpoint != "" {
		cfg.Remote.Endpoint = endpoint
	}

	if cmd.Flags().Changed("no-seed") {
		noSeed, _ := cmd.Flags().GetBool("no-seed")
		cfg.Seed.Defaults = !noSeed
	}
	if cmd.Flags().Changed("seed-file") {
		cfg.Seed.Path, _ = cmd.Flags().GetString("seed-file")
	}
	if cmd.Flags().Changed("retries") {
		cfg.Retry.Retries, _ = cmd.Flags().GetInt("retries")
	}
	if cmd.Flags().Changed("circuit-breaker") {
		cfg.CircuitBreaker.Enabled, _ = cmd.Flags().GetBool("circuit-breaker")
	}
}

func validateServerConfig(cfg *config.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	if cfg.Remote.Endpoint == "" {
		return fmt.Errorf("remote endpoint is required")
	}
	return nil
}
