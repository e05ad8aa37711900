// Package match resolves arbitrary provider organization records
// against the format table using a three-tier strategy: exact key,
// normalized org-name equality within the same city/state bucket, and
// character n-gram similarity as a last resort.
package match

import (
	"github.com/sells-group/provider-outreach/internal/facility"
	"github.com/sells-group/provider-outreach/internal/model"
)

// DefaultThreshold is the minimum similarity score the third tier
// accepts. Scores exactly at the threshold pass.
const DefaultThreshold = 0.85

type candidate struct {
	key     string
	orgName string
	bare    string // orgName without trailing corporate suffixes
}

// Matcher holds an immutable format table and its location buckets.
// Safe for concurrent use: nothing is mutated after construction, so
// one Matcher can be shared across all pipeline workers.
type Matcher struct {
	table     model.FormatTable
	threshold float64
	buckets   map[string][]candidate
}

// New builds a Matcher over the given format table. A threshold <= 0
// falls back to DefaultThreshold.
func New(table model.FormatTable, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	buckets := make(map[string][]candidate)
	for key := range table {
		org, city, state, ok := facility.SplitKey(key)
		if !ok {
			continue
		}
		location := facility.Location(city, state)
		buckets[location] = append(buckets[location], candidate{
			key:     key,
			orgName: org,
			bare:    facility.TrimCorporateSuffix(org),
		})
	}

	return &Matcher{
		table:     table,
		threshold: threshold,
		buckets:   buckets,
	}
}

// Match resolves an organization triple to a format-table entry, or nil
// when no tier succeeds. Nil is "unmatched", not an error: callers
// record the miss and move on.
func (m *Matcher) Match(orgName, city, state string) *model.Match {
	key := facility.Key(orgName, city, state)
	if key == "" {
		return nil
	}

	// Tier 1: exact key.
	if rec, ok := m.table[key]; ok {
		return &model.Match{
			MatchedKey: key,
			Type:       model.MatchExact,
			Score:      1.0,
			Record:     rec,
		}
	}

	// Tiers 2 and 3 only consider facilities in the same city/state
	// bucket: same-named organizations in different places must never
	// cross-match, and the bucket bounds the similarity search.
	bucket := m.buckets[facility.Location(city, state)]
	if len(bucket) == 0 {
		return nil
	}

	// Tier 2: normalized org-name equality, ignoring trailing
	// corporate suffixes on both sides.
	normalized := facility.NormalizeOrgName(orgName)
	bare := facility.TrimCorporateSuffix(normalized)
	for _, c := range bucket {
		if bare == c.bare {
			return &model.Match{
				MatchedKey: c.key,
				Type:       model.MatchFuzzyExact,
				Score:      1.0,
				Record:     m.table[c.key],
			}
		}
	}

	// Tier 3: n-gram similarity.
	names := make([]string, len(bucket))
	for i, c := range bucket {
		names[i] = c.orgName
	}
	idx, score := bestMatch(normalized, names)
	if idx < 0 || score < m.threshold {
		return nil
	}
	return &model.Match{
		MatchedKey: bucket[idx].key,
		Type:       model.MatchTFIDF,
		Score:      score,
		Record:     m.table[bucket[idx].key],
	}
}
