package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/provider-outreach/internal/scorer"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute lead scores for registry records",
	Long:  "Scores each provider record by organization size, phone availability, group assignment, and telehealth signals, and writes the registry back out with the scoring columns appended.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		registryPath, _ := cmd.Flags().GetString("registry")
		mappingPath, _ := cmd.Flags().GetString("mapping")
		encoding, _ := cmd.Flags().GetString("encoding")
		output, _ := cmd.Flags().GetString("output")

		file, err := loadRegistry(registryPath, mappingPath, encoding)
		if err != nil {
			return err
		}

		f, err := os.Create(output)
		if err != nil {
			return eris.Wrapf(err, "score: create %s", output)
		}
		defer f.Close() //nolint:errcheck

		w := csv.NewWriter(f)
		header := append(append([]string{}, file.Header...),
			"lead_score", "size_category", "phone_clean", "has_phone",
		)
		if err := w.Write(header); err != nil {
			return eris.Wrap(err, "score: write header")
		}

		withPhone := 0
		distribution := make(map[string]int)
		for i, row := range file.Rows {
			p := file.Providers[i]
			result := scorer.Score(scorer.Input{
				OrgMembers:      p.OrgMembers,
				Phone:           p.Phone,
				GroupAssignment: p.GroupAssignment,
				Telehealth:      p.Telehealth,
			})
			if result.HasPhone {
				withPhone++
			}
			distribution[result.SizeCategory]++
			out := append(append([]string{}, row...),
				strconv.Itoa(result.LeadScore),
				result.SizeCategory,
				result.Phone,
				strconv.FormatBool(result.HasPhone),
			)
			if err := w.Write(out); err != nil {
				return eris.Wrap(err, "score: write row")
			}
		}

		w.Flush()
		if err := w.Error(); err != nil {
			return eris.Wrap(err, "score: flush output")
		}

		zap.L().Info("score complete",
			zap.Int("records", len(file.Rows)),
			zap.Int("with_phone", withPhone),
			zap.String("output", output),
		)

		categories := make([]string, 0, len(distribution))
		for c := range distribution {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		fmt.Fprintf(cmd.OutOrStdout(), "scored %d records (%d with phone)\n", len(file.Rows), withPhone)
		for _, c := range categories {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-35s %d\n", c, distribution[c])
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("registry", "", "path to registry CSV (required)")
	scoreCmd.Flags().String("mapping", "", "path to YAML column mapping override")
	scoreCmd.Flags().String("encoding", "", "registry file encoding (IANA name, default UTF-8)")
	scoreCmd.Flags().String("output", "scored.csv", "path to write the scored registry")
	_ = scoreCmd.MarkFlagRequired("registry")
	rootCmd.AddCommand(scoreCmd)
}
