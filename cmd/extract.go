package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/provider-outreach/internal/agent"
	"github.com/sells-group/provider-outreach/internal/extract"
	"github.com/sells-group/provider-outreach/internal/facility"
	"github.com/sells-group/provider-outreach/internal/model"
	"github.com/sells-group/provider-outreach/pkg/anthropic"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Build the email format table from collected search results",
	Long:  "Runs the pattern extractor over each facility's search results, prioritizing sources by reliability, and writes the facility-to-format table. With --agent, facilities the patterns cannot resolve are retried through Claude.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		resultsPath, _ := cmd.Flags().GetString("results")
		output, _ := cmd.Flags().GetString("output")
		useAgent, _ := cmd.Flags().GetBool("agent")

		raw, err := os.ReadFile(resultsPath)
		if err != nil {
			return eris.Wrapf(err, "extract: read %s", resultsPath)
		}
		var results model.SearchResults
		if err := json.Unmarshal(raw, &results); err != nil {
			return eris.Wrapf(err, "extract: parse %s", resultsPath)
		}

		table := extract.BuildTable(results, sourceWeights())

		if useAgent {
			if cfg.Anthropic.Key == "" {
				return eris.New("anthropic key is required for --agent (OUTREACH_ANTHROPIC_KEY)")
			}
			ai := anthropic.NewClient(cfg.Anthropic.Key)
			if err := agentFallback(ctx, agent.New(ai, cfg.Anthropic.Model), results, table); err != nil {
				return err
			}
		}

		out, err := json.MarshalIndent(table, "", "  ")
		if err != nil {
			return eris.Wrap(err, "extract: marshal table")
		}
		if err := os.WriteFile(output, out, 0o644); err != nil {
			return eris.Wrapf(err, "extract: write %s", output)
		}

		zap.L().Info("extract complete",
			zap.Int("facilities", len(results)),
			zap.Int("formats", len(table)),
			zap.String("output", output),
		)
		return nil
	},
}

// missingFacilities selects the facilities the pattern extractor left
// unresolved. Result keys are re-normalized before the table lookup so
// a results file with raw keys neither re-processes facilities the
// patterns already resolved nor inserts entries under keys the matcher
// cannot hit. Returns the sorted normalized keys and a map back to the
// raw results key.
func missingFacilities(results model.SearchResults, table model.FormatTable) ([]string, map[string]string) {
	var missing []string
	sources := make(map[string]string)
	for raw := range results {
		org, city, state, ok := facility.SplitKey(raw)
		if !ok {
			continue
		}
		key := facility.Key(org, city, state)
		if key == "" {
			continue
		}
		if _, resolved := table[key]; resolved {
			continue
		}
		if _, seen := sources[key]; !seen {
			missing = append(missing, key)
		}
		sources[key] = raw
	}
	sort.Strings(missing)
	return missing, sources
}

// agentFallback fills table entries for facilities the pattern
// extractor left unresolved. Agent failures skip the facility; a
// partial table is still useful.
func agentFallback(ctx context.Context, ex *agent.Extractor, results model.SearchResults, table model.FormatTable) error {
	missing, sources := missingFacilities(results, table)

	log := zap.L().With(zap.String("phase", "agent"))
	log.Info("running agent fallback", zap.Int("facilities", len(missing)))

	resolved := 0
	for _, key := range missing {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "extract: agent fallback")
		}
		record, err := ex.Extract(ctx, key, results[sources[key]])
		if err != nil {
			log.Warn("agent extraction failed", zap.String("facility", key), zap.Error(err))
			continue
		}
		if record == nil {
			continue
		}
		table[key] = *record
		resolved++
	}

	log.Info("agent fallback complete",
		zap.Int("attempted", len(missing)),
		zap.Int("resolved", resolved),
	)
	return nil
}

func init() {
	extractCmd.Flags().String("results", "search_results.json", "path to collected search results")
	extractCmd.Flags().String("output", "format_table.json", "path to write the format table")
	extractCmd.Flags().Bool("agent", false, "use Claude for facilities the patterns cannot resolve")
	rootCmd.AddCommand(extractCmd)
}
