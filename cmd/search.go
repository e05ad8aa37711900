package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/provider-outreach/internal/discovery"
	"github.com/sells-group/provider-outreach/pkg/serper"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Collect email-format search results per facility",
	Long:  "Reads a provider registry CSV, derives the unique facility set, and queries Serper for each facility's email format. Responses are cached so reruns only pay for new facilities.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Serper.Key == "" {
			return eris.New("serper key is required (OUTREACH_SERPER_KEY)")
		}

		registryPath, _ := cmd.Flags().GetString("registry")
		mappingPath, _ := cmd.Flags().GetString("mapping")
		encoding, _ := cmd.Flags().GetString("encoding")
		output, _ := cmd.Flags().GetString("output")
		limit, _ := cmd.Flags().GetInt("limit")

		file, err := loadRegistry(registryPath, mappingPath, encoding)
		if err != nil {
			return err
		}

		keys := facilityKeys(file.Providers)
		if limit > 0 && len(keys) > limit {
			keys = keys[:limit]
		}

		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		client := serper.NewClient(cfg.Serper.Key, serper.WithBaseURL(cfg.Serper.BaseURL))
		collector := discovery.NewCollector(client, store, cfg.Search.RateLimit, cfg.Search.Workers)

		results, err := collector.Collect(ctx, keys)
		if err != nil {
			return eris.Wrap(err, "search")
		}

		raw, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return eris.Wrap(err, "search: marshal results")
		}
		if err := os.WriteFile(output, raw, 0o644); err != nil {
			return eris.Wrapf(err, "search: write %s", output)
		}

		zap.L().Info("search complete",
			zap.Int("facilities", len(keys)),
			zap.Int("collected", len(results)),
			zap.String("output", output),
		)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("registry", "", "path to registry CSV (required)")
	searchCmd.Flags().String("mapping", "", "path to YAML column mapping override")
	searchCmd.Flags().String("encoding", "", "registry file encoding (IANA name, default UTF-8)")
	searchCmd.Flags().String("output", "search_results.json", "path to write collected results")
	searchCmd.Flags().Int("limit", 0, "maximum facilities to query (0 = all)")
	_ = searchCmd.MarkFlagRequired("registry")
	rootCmd.AddCommand(searchCmd)
}
