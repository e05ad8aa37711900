// Package extract parses unstructured search-result snippets for email
// format conventions and selects the best candidate per facility across
// competing sources.
//
// Extraction runs an ordered list of strategies, most trustworthy
// first: explicit bracket-template notation, numbered ranked lists,
// capitalized template mentions, and finally bare-email inference. The
// first strategy that yields candidates wins outright; groups are never
// mixed.
package extract

import (
	"regexp"
	"strings"

	"github.com/sells-group/provider-outreach/internal/model"
)

// patternFormat pairs a compiled pattern with the template it implies.
type patternFormat struct {
	re     *regexp.Regexp
	format model.Format
}

// Bracket template notation, e.g. "[first].[last] (ex. jane.doe@acme.com)".
// More specific patterns must come first so a loose single-token pattern
// cannot swallow part of a longer one.
var bracketPatterns = []patternFormat{
	{regexp.MustCompile(`(?i)\[first\]\.\[last\]\s*\(ex\.\s*([a-z]+\.[a-z]+@[a-z0-9\-.]+)`), model.FormatFirstDotLast},
	{regexp.MustCompile(`(?i)\[first\]_\[last\]\s*\(ex\.\s*([a-z]+_[a-z]+@[a-z0-9\-.]+)`), model.FormatFirstUscoreLast},
	{regexp.MustCompile(`(?i)\[first\]-\[last\]\s*\(ex\.\s*([a-z]+-[a-z]+@[a-z0-9\-.]+)`), model.FormatFirstHyphenLast},
	{regexp.MustCompile(`(?i)\[first_initial\]\[last\]\s*\(ex\.\s*([a-z]+@[a-z0-9\-.]+)`), model.FormatFirstInitialLast},
	{regexp.MustCompile(`(?i)\[first\]\[last_initial\]\s*\(ex\.\s*([a-z]+@[a-z0-9\-.]+)`), model.FormatFirstLastInitial},
	{regexp.MustCompile(`(?i)(?:format is |pattern is )\[first\]\s*\(ex\.\s*([a-z]+@[a-z0-9\-.]+)`), model.FormatFirst},
	{regexp.MustCompile(`(?i)(?:format is |pattern is )\[last\]\s*\(ex\.\s*([a-z]+@[a-z0-9\-.]+)`), model.FormatLast},
}

// Numbered ranked lists, e.g. "1. first.last@acme.com (50%)". Only the
// rank-1 entry is authoritative; lower ranks are statistically noisier.
// Most specific separator first, and the first matching pattern wins.
var numberedPatterns = []patternFormat{
	{regexp.MustCompile(`(?i)1\.\s+([a-z]+)\.([a-z]+)@([a-z0-9\-.]+\.[a-z]{2,})\s*\(`), model.FormatFirstDotLast},
	{regexp.MustCompile(`(?i)1\.\s+([a-z]+)_([a-z]+)@([a-z0-9\-.]+\.[a-z]{2,})\s*\(`), model.FormatFirstUscoreLast},
	{regexp.MustCompile(`(?i)1\.\s+([a-z]+)-([a-z]+)@([a-z0-9\-.]+\.[a-z]{2,})\s*\(`), model.FormatFirstHyphenLast},
	{regexp.MustCompile(`(?i)1\.\s+([a-z])([a-z]{2,})@([a-z0-9\-.]+\.[a-z]{2,})\s*\(`), model.FormatFirstInitialLast},
	{regexp.MustCompile(`(?i)1\.\s+([a-z]{2,})@([a-z0-9\-.]+\.[a-z]{2,})\s*\(`), model.FormatFirst},
}

// Capitalized template mentions, e.g. "follows the pattern of
// FLast@acme.com". Checked from most markers to least.
var capitalizedPatterns = []patternFormat{
	{regexp.MustCompile(`(?i)(?:pattern of |format of )?FLast@([a-z0-9\-.]+\.[a-z]{2,})`), model.FormatFirstInitialLast},
	{regexp.MustCompile(`(?i)(?:pattern of |format of )?First\.Last@([a-z0-9\-.]+\.[a-z]{2,})`), model.FormatFirstDotLast},
	{regexp.MustCompile(`(?i)(?:pattern of |format of )?First_Last@([a-z0-9\-.]+\.[a-z]{2,})`), model.FormatFirstUscoreLast},
	{regexp.MustCompile(`(?i)(?:pattern of |format of )?First-Last@([a-z0-9\-.]+\.[a-z]{2,})`), model.FormatFirstHyphenLast},
	{regexp.MustCompile(`(?i)(?:pattern of |format of )?FirstLast@([a-z0-9\-.]+\.[a-z]{2,})`), model.FormatFirstLast},
	{regexp.MustCompile(`(?i)(?:pattern of |format of )?First@([a-z0-9\-.]+\.[a-z]{2,})`), model.FormatFirst},
}

// canonicalExamples are the stand-in example addresses synthesized for
// capitalized template mentions (the snippet never carries a usable
// literal example in that form).
var canonicalExamples = map[model.Format]string{
	model.FormatFirstInitialLast: "jdoe",
	model.FormatFirstDotLast:     "jane.doe",
	model.FormatFirstUscoreLast:  "jane_doe",
	model.FormatFirstHyphenLast:  "jane-doe",
	model.FormatFirstLast:        "janedoe",
	model.FormatFirst:            "jane",
}

var bareEmailRe = regexp.MustCompile(`\b([a-zA-Z0-9]+(?:[._-][a-zA-Z0-9]+)?)@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\b`)

// strategy extracts candidates from one snippet. A nil/empty return
// means "this group found nothing, try the next".
type strategy func(text, sourceLink string) []model.EmailFormatRecord

var strategies = []strategy{
	extractBracket,
	extractNumbered,
	extractCapitalized,
	extractBareEmail,
}

// Extract runs the strategy list against one snippet and returns the
// candidates from the first group that matched, ordered by pattern
// priority. Returns nil when no group matched.
func Extract(text, sourceLink string) []model.EmailFormatRecord {
	for _, s := range strategies {
		if found := s(text, sourceLink); len(found) > 0 {
			return found
		}
	}
	return nil
}

func extractBracket(text, sourceLink string) []model.EmailFormatRecord {
	var found []model.EmailFormatRecord
	for _, p := range bracketPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		example := strings.ToLower(m[1])
		_, domain, ok := strings.Cut(example, "@")
		if !ok || domain == "" {
			continue
		}
		found = append(found, model.EmailFormatRecord{
			Format:     p.format,
			Domain:     domain,
			Example:    example,
			Source:     sourceLink,
			Confidence: model.ConfidenceHigh,
		})
	}
	return found
}

func extractNumbered(text, sourceLink string) []model.EmailFormatRecord {
	for _, p := range numberedPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		// The last capture group is always the domain; the local part
		// is reconstructed from the leading groups.
		domain := strings.ToLower(m[len(m)-1])
		var local string
		switch p.format {
		case model.FormatFirst:
			local = m[1]
		case model.FormatFirstDotLast:
			local = m[1] + "." + m[2]
		case model.FormatFirstUscoreLast:
			local = m[1] + "_" + m[2]
		case model.FormatFirstHyphenLast:
			local = m[1] + "-" + m[2]
		case model.FormatFirstInitialLast:
			local = m[1] + m[2]
		}

		return []model.EmailFormatRecord{{
			Format:     p.format,
			Domain:     domain,
			Example:    strings.ToLower(local + "@" + domain),
			Source:     sourceLink,
			Confidence: model.ConfidenceHigh,
		}}
	}
	return nil
}

func extractCapitalized(text, sourceLink string) []model.EmailFormatRecord {
	var found []model.EmailFormatRecord
	for _, p := range capitalizedPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		domain := strings.ToLower(m[1])
		found = append(found, model.EmailFormatRecord{
			Format:     p.format,
			Domain:     domain,
			Example:    canonicalExamples[p.format] + "@" + domain,
			Source:     sourceLink,
			Confidence: model.ConfidenceHigh,
		})
	}
	return found
}

// extractBareEmail is the last resort: find any email-shaped token and
// infer the template from its local-part structure. Inferred formats
// only ever get medium confidence.
func extractBareEmail(text, sourceLink string) []model.EmailFormatRecord {
	for _, m := range bareEmailRe.FindAllStringSubmatch(text, -1) {
		local := strings.ToLower(m[1])
		domain := strings.ToLower(m[2])

		format := inferFormat(local)
		if format == "" {
			continue
		}
		return []model.EmailFormatRecord{{
			Format:     format,
			Domain:     domain,
			Example:    local + "@" + domain,
			Source:     sourceLink,
			Confidence: model.ConfidenceMedium,
		}}
	}
	return nil
}

// inferFormat classifies a local part by its separator, or by length
// when it has none: a short token like "jdoe" is far more likely an
// initial+surname than a bare first name. Returns "" when the shape is
// unclassifiable.
func inferFormat(local string) model.Format {
	switch {
	case strings.Contains(local, "."):
		if first, last, ok := splitPair(local, "."); ok && len(first) > 1 && len(last) > 1 {
			return model.FormatFirstDotLast
		}
	case strings.Contains(local, "_"):
		if first, last, ok := splitPair(local, "_"); ok && len(first) > 1 && len(last) > 1 {
			return model.FormatFirstUscoreLast
		}
	case strings.Contains(local, "-"):
		if first, last, ok := splitPair(local, "-"); ok && len(first) > 1 && len(last) > 1 {
			return model.FormatFirstHyphenLast
		}
	case len(local) > 2:
		if len(local) <= 6 {
			return model.FormatFirstInitialLast
		}
		return model.FormatFirst
	}
	return ""
}

// splitPair splits s on sep and reports whether it forms exactly two
// parts.
func splitPair(s, sep string) (first, last string, ok bool) {
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
