package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNgramCounts_PadsWordBoundaries(t *testing.T) {
	counts := ngramCounts("acme")
	// " acme " yields 5 bigrams and 4 trigrams.
	assert.Equal(t, float64(1), counts[" a"])
	assert.Equal(t, float64(1), counts["e "])
	assert.Equal(t, float64(1), counts[" ac"])
	assert.Equal(t, float64(1), counts["me "])
	assert.Len(t, counts, 9)
}

func TestNgramCounts_Lowercases(t *testing.T) {
	assert.Equal(t, ngramCounts("ACME"), ngramCounts("acme"))
}

func TestNgramCounts_WordsCountedSeparately(t *testing.T) {
	counts := ngramCounts("acme acme")
	assert.Equal(t, float64(2), counts[" ac"])
}

func TestNgramCounts_Empty(t *testing.T) {
	assert.Empty(t, ngramCounts(""))
	assert.Empty(t, ngramCounts("   "))
}

func TestBestMatch_IdenticalString(t *testing.T) {
	idx, score := bestMatch("acme health", []string{"beta clinic", "acme health"})
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestBestMatch_PicksMostSimilar(t *testing.T) {
	idx, _ := bestMatch("acme health center", []string{
		"riverside pediatrics",
		"acme health",
		"dayton dental",
	})
	assert.Equal(t, 1, idx)
}

func TestBestMatch_EmptyCandidates(t *testing.T) {
	idx, score := bestMatch("acme", nil)
	assert.Equal(t, -1, idx)
	assert.Equal(t, float64(0), score)
}

func TestBestMatch_TieKeepsEarliest(t *testing.T) {
	idx, _ := bestMatch("acme health", []string{"acme health", "acme health"})
	assert.Equal(t, 0, idx)
}

func TestBestMatch_DisjointVectors(t *testing.T) {
	idx, score := bestMatch("acme", []string{"zzzz"})
	assert.Equal(t, 0, idx)
	assert.InDelta(t, 0.0, score, 1e-9)
}
