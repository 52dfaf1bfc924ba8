package mettakg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentforge/mettakg/pkg/config"
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run a one-shot knowledge query",
	Long: `Run a single query against the knowledge gateway and print the
response as JSON. The remote graph service is tried first; if it is
unreachable the embedded fallback store answers instead, and the
response's "source" field says so.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().String("seed-file", "", "Additional YAML seed file")
	queryCmd.Flags().Bool("no-seed", false, "Query with empty local stores")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
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

	log := buildLogger(cfg)
	gateway, err := buildGateway(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build gateway: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Remote.Timeout)*time.Second)
	defer cancel()

	resp, err := gateway.Query(ctx, strings.Join(args, " "), nil)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
