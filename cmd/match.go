package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/provider-outreach/internal/match"
	"github.com/sells-group/provider-outreach/internal/model"
	"github.com/sells-group/provider-outreach/internal/pipeline"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match registry records against the format table and generate emails",
	Long:  "Resolves each provider record to a facility in the format table (exact, normalized, then TF-IDF similarity), generates a contact email where a match lands, and writes the registry back out with the annotation columns appended.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		registryPath, _ := cmd.Flags().GetString("registry")
		mappingPath, _ := cmd.Flags().GetString("mapping")
		encoding, _ := cmd.Flags().GetString("encoding")
		formatsPath, _ := cmd.Flags().GetString("formats")
		output, _ := cmd.Flags().GetString("output")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		workers, _ := cmd.Flags().GetInt("workers")

		file, err := loadRegistry(registryPath, mappingPath, encoding)
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(formatsPath)
		if err != nil {
			return eris.Wrapf(err, "match: read %s", formatsPath)
		}
		var table model.FormatTable
		if err := json.Unmarshal(raw, &table); err != nil {
			return eris.Wrapf(err, "match: parse %s", formatsPath)
		}

		if threshold <= 0 {
			threshold = cfg.Match.SimilarityThreshold
		}
		if workers <= 0 {
			workers = cfg.Match.Workers
		}

		matcher := match.New(table, threshold)
		annotations, stats, err := pipeline.Run(ctx, file.Providers, matcher, workers)
		if err != nil {
			return err
		}

		if err := writeAnnotated(output, file.Header, file.Rows, annotations); err != nil {
			return err
		}

		if unmatchedPath, _ := cmd.Flags().GetString("unmatched"); unmatchedPath != "" {
			if err := writeUnmatched(unmatchedPath, annotations); err != nil {
				return err
			}
		}

		zap.L().Info("match complete",
			zap.Int("records", stats.Total()),
			zap.String("output", output),
		)

		fmt.Fprintf(cmd.OutOrStdout(),
			"matched %d/%d records (exact %d, fuzzy %d, tfidf %d), generated %d emails\n",
			stats.Total()-stats.Unmatched, stats.Total(),
			stats.Exact, stats.FuzzyExact, stats.TFIDF,
			stats.EmailsGenerated,
		)
		return nil
	},
}

// annotationColumns are appended to the registry header in the output
// file, in this order.
var annotationColumns = []string{
	"facility_key",
	"matched_facility",
	"match_type",
	"match_score",
	"email",
	"email_format",
	"email_domain",
}

// writeAnnotated writes the registry rows back out with the annotation
// columns appended. annotations must be index-aligned with rows.
func writeAnnotated(path string, header []string, rows [][]string, annotations []model.Annotation) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "match: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)

	if err := w.Write(append(append([]string{}, header...), annotationColumns...)); err != nil {
		return eris.Wrap(err, "match: write header")
	}

	for i, row := range rows {
		a := annotations[i]
		score := ""
		if a.MatchScore > 0 {
			score = strconv.FormatFloat(a.MatchScore, 'f', 4, 64)
		}
		out := append(append([]string{}, row...),
			a.FacilityKey,
			a.MatchedFacility,
			string(a.MatchType),
			score,
			a.GeneratedEmail,
			string(a.EmailFormatUsed),
			a.EmailDomain,
		)
		if err := w.Write(out); err != nil {
			return eris.Wrap(err, "match: write row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "match: flush output")
}

// writeUnmatched dumps the unique facility keys that no tier resolved,
// one per line, for manual review or a follow-up search run.
func writeUnmatched(path string, annotations []model.Annotation) error {
	seen := make(map[string]struct{})
	var keys []string
	for _, a := range annotations {
		if a.FacilityKey == "" || a.MatchType != "" {
			continue
		}
		if _, ok := seen[a.FacilityKey]; ok {
			continue
		}
		seen[a.FacilityKey] = struct{}{}
		keys = append(keys, a.FacilityKey)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('\n')
	}
	return eris.Wrapf(os.WriteFile(path, []byte(b.String()), 0o644), "match: write %s", path)
}

func init() {
	matchCmd.Flags().String("registry", "", "path to registry CSV (required)")
	matchCmd.Flags().String("mapping", "", "path to YAML column mapping override")
	matchCmd.Flags().String("encoding", "", "registry file encoding (IANA name, default UTF-8)")
	matchCmd.Flags().String("formats", "format_table.json", "path to the format table")
	matchCmd.Flags().String("output", "matched.csv", "path to write the annotated registry")
	matchCmd.Flags().String("unmatched", "", "path to dump unmatched facility keys (optional)")
	matchCmd.Flags().Float64("threshold", 0, "TF-IDF similarity threshold (0 = configured default)")
	matchCmd.Flags().Int("workers", 0, "match workers (0 = one per CPU)")
	_ = matchCmd.MarkFlagRequired("registry")
	rootCmd.AddCommand(matchCmd)
}
