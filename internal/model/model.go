// Package model defines the shared data types for the provider outreach
// pipeline: email format templates, the format table built from search
// results, provider records, and match annotations.
package model

// Format is a template tag describing how a person's name maps to an
// email local-part.
type Format string

const (
	FormatFirst            Format = "[first]"
	FormatLast             Format = "[last]"
	FormatFirstDotLast     Format = "[first].[last]"
	FormatFirstUscoreLast  Format = "[first]_[last]"
	FormatFirstHyphenLast  Format = "[first]-[last]"
	FormatFirstLast        Format = "[first][last]"
	FormatFirstInitialLast Format = "[first_initial][last]"
	FormatFirstLastInitial Format = "[first][last_initial]"
)

// Known reports whether f is part of the recognized template enumeration.
func (f Format) Known() bool {
	switch f {
	case FormatFirst, FormatLast, FormatFirstDotLast, FormatFirstUscoreLast,
		FormatFirstHyphenLast, FormatFirstLast, FormatFirstInitialLast,
		FormatFirstLastInitial:
		return true
	}
	return false
}

// Confidence grades how an email format was derived.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// SourceType identifies which search-result area produced a format.
type SourceType string

const (
	SourceAnswerBox SourceType = "answerBox"
	SourceOrganic   SourceType = "organic"
	SourceAgent     SourceType = "agent"
)

// EmailFormatRecord is one facility's inferred email convention.
// Created once by the extraction pass and immutable afterward.
type EmailFormatRecord struct {
	Format     Format     `json:"format"`
	Domain     string     `json:"domain"`
	Example    string     `json:"example"`
	Source     string     `json:"source"`
	SourceType SourceType `json:"source_type,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// FormatTable maps a normalized facility key to its email format record.
type FormatTable map[string]EmailFormatRecord

// MatchType identifies which matcher tier resolved a facility.
type MatchType string

const (
	MatchExact      MatchType = "exact"
	MatchFuzzyExact MatchType = "fuzzy_exact"
	MatchTFIDF      MatchType = "tfidf"
)

// Match is the outcome of resolving one provider record against the
// format table. It is flattened onto the output record, never stored.
type Match struct {
	MatchedKey string
	Type       MatchType
	Score      float64
	Record     EmailFormatRecord
}

// Provider holds the canonical fields the pipeline needs from one
// registry row. The registry adapter fills it from whatever column
// names the source file uses.
type Provider struct {
	OrgName   string
	City      string
	State     string
	FirstName string
	LastName  string

	// Optional scoring inputs.
	Phone           string
	OrgMembers      int
	GroupAssignment string
	Telehealth      string
}

// Annotation carries the fields the pipeline writes back onto a
// provider record. Zero values mean unmatched / no email.
type Annotation struct {
	FacilityKey     string
	MatchedFacility string
	MatchType       MatchType
	MatchScore      float64
	GeneratedEmail  string
	EmailFormatUsed Format
	EmailDomain     string
}

// RunStats aggregates one pipeline run.
type RunStats struct {
	Exact           int `json:"exact"`
	FuzzyExact      int `json:"fuzzy_exact"`
	TFIDF           int `json:"tfidf"`
	Unmatched       int `json:"unmatched"`
	EmailsGenerated int `json:"emails_generated"`
}

// Total returns the number of records the stats cover.
func (s RunStats) Total() int {
	return s.Exact + s.FuzzyExact + s.TFIDF + s.Unmatched
}

// AnswerBox is a search engine's direct-answer panel.
type AnswerBox struct {
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// OrganicResult is one ordinary search result entry.
type OrganicResult struct {
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// FacilityResults holds the search-result areas collected for one
// facility. Either area may be absent.
type FacilityResults struct {
	AnswerBox *AnswerBox      `json:"answerBox,omitempty"`
	Organic   []OrganicResult `json:"organic,omitempty"`
}

// SearchResults is the boundary blob between search collection and
// format extraction: facility key to collected results.
type SearchResults map[string]FacilityResults
