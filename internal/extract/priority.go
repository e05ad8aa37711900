package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/provider-outreach/internal/facility"
	"github.com/sells-group/provider-outreach/internal/model"
)

const answerBoxWeight = 100

// SourceWeights controls how competing search-result entries are ranked
// against each other. Base weights are keyed by the contact-lookup
// directory the link belongs to; unknown domains weigh zero.
type SourceWeights struct {
	Domains          map[string]int
	FirstResultBonus int
}

// DefaultSourceWeights returns the standard directory ranking.
func DefaultSourceWeights() SourceWeights {
	return SourceWeights{
		Domains: map[string]int{
			"rocketreach.co": 80,
			"leadiq.com":     70,
			"contactout.com": 60,
			"signalhire.com": 50,
		},
		FirstResultBonus: 10,
	}
}

// baseFor returns the base weight for a result link. When a link
// somehow matches several known directories, the highest weight wins
// so the ranking stays deterministic.
func (w SourceWeights) baseFor(link string) int {
	best := 0
	for domain, weight := range w.Domains {
		if strings.Contains(link, domain) && weight > best {
			best = weight
		}
	}
	return best
}

// Prioritize selects the single best extracted format from one
// facility's aggregated search results, or nil when neither the answer
// box nor any organic result yields anything.
//
// The answer box always wins when it extracts: no organic base weight
// plus the first-result bonus can exceed its weight of 100, and organic
// results are only consulted at all while the best priority is below 90.
func Prioritize(results model.FacilityResults, weights SourceWeights) *model.EmailFormatRecord {
	var best *model.EmailFormatRecord
	bestPriority := 0

	if ab := results.AnswerBox; ab != nil {
		if found := Extract(ab.Snippet, ab.Link); len(found) > 0 {
			rec := found[0]
			rec.SourceType = model.SourceAnswerBox
			best = &rec
			bestPriority = answerBoxWeight
		}
	}

	if best == nil || bestPriority < 90 {
		for position, organic := range results.Organic {
			priority := weights.baseFor(organic.Link)
			if position == 0 {
				priority += weights.FirstResultBonus
			}
			if priority <= bestPriority {
				continue
			}

			if found := Extract(organic.Snippet, organic.Link); len(found) > 0 {
				rec := found[0]
				rec.SourceType = model.SourceOrganic
				best = &rec
				bestPriority = priority
			}
		}
	}

	return best
}

// BuildTable runs the prioritizer over a full search-results blob and
// returns the format table keyed by normalized facility key. Facilities
// that produce no extraction are omitted entirely; no null-format
// entries are stored.
func BuildTable(results model.SearchResults, weights SourceWeights) model.FormatTable {
	log := zap.L().With(zap.String("phase", "extract"))

	table := make(model.FormatTable, len(results))
	for rawKey, facilityResults := range results {
		best := Prioritize(facilityResults, weights)
		if best == nil {
			continue
		}

		// Incoming keys are "Org, City, State" strings assembled by the
		// search collector; re-normalize so lookups agree with keys the
		// matcher derives from provider records.
		org, city, state, ok := facility.SplitKey(rawKey)
		if !ok {
			log.Warn("skipping malformed facility key", zap.String("key", rawKey))
			continue
		}
		key := facility.Key(org, city, state)
		if key == "" {
			continue
		}
		table[key] = *best
	}

	log.Info("format table built",
		zap.Int("facilities_in", len(results)),
		zap.Int("formats_extracted", len(table)),
	)
	return table
}
