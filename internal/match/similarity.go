package match

import (
	"math"
	"strings"
)

// ngramCounts extracts character bigram and trigram counts from the
// words of s. Each word is padded with a single space on both sides so
// n-grams never span word boundaries and word edges stay significant
// ("ac" at the start of "ACME" counts differently from "ac" mid-word).
func ngramCounts(s string) map[string]float64 {
	counts := make(map[string]float64)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		padded := " " + word + " "
		for _, n := range []int{2, 3} {
			if len(padded) < n {
				counts[padded]++
				continue
			}
			for i := 0; i+n <= len(padded); i++ {
				counts[padded[i:i+n]]++
			}
		}
	}
	return counts
}

// bestMatch vectorizes the query and candidates with tf-idf over their
// shared n-gram vocabulary and returns the index and cosine similarity
// of the most similar candidate. Ties keep the earliest candidate.
// Returns (-1, 0) when candidates is empty.
func bestMatch(query string, candidates []string) (int, float64) {
	if len(candidates) == 0 {
		return -1, 0
	}

	docs := make([]map[string]float64, 0, len(candidates)+1)
	docs = append(docs, ngramCounts(query))
	for _, c := range candidates {
		docs = append(docs, ngramCounts(c))
	}

	// Smoothed document frequencies, as if every term appeared in one
	// extra document. Keeps idf finite and bounded below by 1.
	df := make(map[string]int)
	for _, doc := range docs {
		for term := range doc {
			df[term]++
		}
	}
	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log((1+n)/(1+float64(count))) + 1
	}

	vectors := make([]map[string]float64, len(docs))
	norms := make([]float64, len(docs))
	for i, doc := range docs {
		vec := make(map[string]float64, len(doc))
		var sumSq float64
		for term, tf := range doc {
			w := tf * idf[term]
			vec[term] = w
			sumSq += w * w
		}
		vectors[i] = vec
		norms[i] = math.Sqrt(sumSq)
	}

	bestIdx, bestScore := 0, -1.0
	for i := 1; i < len(vectors); i++ {
		score := cosine(vectors[0], norms[0], vectors[i], norms[i])
		if score > bestScore {
			bestIdx, bestScore = i-1, score
		}
	}
	return bestIdx, bestScore
}

func cosine(a map[string]float64, normA float64, b map[string]float64, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	// Iterate the smaller vector.
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, w := range a {
		dot += w * b[term]
	}
	return dot / (normA * normB)
}
