// Package pipeline fans the match-and-generate sequence out across
// provider records. Records are independent: every worker reads the
// same immutable matcher and writes only its own output slot, so the
// annotations slice joins back to the input by index with no ordering
// guarantee during execution.
package pipeline

import (
	"context"
	"runtime"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/provider-outreach/internal/email"
	"github.com/sells-group/provider-outreach/internal/facility"
	"github.com/sells-group/provider-outreach/internal/match"
	"github.com/sells-group/provider-outreach/internal/model"
)

// Run annotates every provider record with its match outcome and
// generated email. workers <= 0 uses one worker per CPU minus one.
// The returned annotations are index-aligned with providers.
func Run(ctx context.Context, providers []model.Provider, matcher *match.Matcher, workers int) ([]model.Annotation, model.RunStats, error) {
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}

	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("starting match pipeline",
		zap.Int("records", len(providers)),
		zap.Int("workers", workers),
	)

	annotations := make([]model.Annotation, len(providers))

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := range providers {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				annotations[i] = annotate(providers[i], matcher)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, model.RunStats{}, eris.Wrap(err, "pipeline: run")
	}

	stats := tally(annotations)
	log.Info("match pipeline complete",
		zap.Int("exact", stats.Exact),
		zap.Int("fuzzy_exact", stats.FuzzyExact),
		zap.Int("tfidf", stats.TFIDF),
		zap.Int("unmatched", stats.Unmatched),
		zap.Int("emails_generated", stats.EmailsGenerated),
	)
	return annotations, stats, nil
}

// annotate runs one record through match and generate. Misses at any
// stage leave the corresponding annotation fields zero; nothing here
// returns an error.
func annotate(p model.Provider, matcher *match.Matcher) model.Annotation {
	a := model.Annotation{
		FacilityKey: facility.Key(p.OrgName, p.City, p.State),
	}
	if a.FacilityKey == "" {
		return a
	}

	m := matcher.Match(p.OrgName, p.City, p.State)
	if m == nil {
		return a
	}
	a.MatchedFacility = m.MatchedKey
	a.MatchType = m.Type
	a.MatchScore = m.Score

	if addr := email.Generate(p.FirstName, p.LastName, m.Record.Format, m.Record.Domain); addr != "" {
		a.GeneratedEmail = addr
		a.EmailFormatUsed = m.Record.Format
		a.EmailDomain = m.Record.Domain
	}
	return a
}

func tally(annotations []model.Annotation) model.RunStats {
	var stats model.RunStats
	for _, a := range annotations {
		switch a.MatchType {
		case model.MatchExact:
			stats.Exact++
		case model.MatchFuzzyExact:
			stats.FuzzyExact++
		case model.MatchTFIDF:
			stats.TFIDF++
		default:
			stats.Unmatched++
		}
		if a.GeneratedEmail != "" {
			stats.EmailsGenerated++
		}
	}
	return stats
}
