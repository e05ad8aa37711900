// Package email renders candidate addresses from a resolved format
// template and domain.
package email

import (
	"regexp"
	"strings"

	"github.com/sells-group/provider-outreach/internal/model"
)

var nonAlpha = regexp.MustCompile(`[^a-z]`)

// Generate renders a (first, last) name pair into an email address for
// the given template and domain. Returns "" when either name is empty
// after cleaning or the template tag is not recognized — an unknown tag
// fails closed rather than guessing a default.
func Generate(firstName, lastName string, format model.Format, domain string) string {
	first := cleanName(firstName)
	last := cleanName(lastName)
	if first == "" || last == "" {
		return ""
	}

	var local string
	switch format {
	case model.FormatFirstDotLast:
		local = first + "." + last
	case model.FormatFirstInitialLast:
		local = first[:1] + last
	case model.FormatFirstLastInitial:
		local = first + last[:1]
	case model.FormatFirst:
		local = first
	case model.FormatLast:
		local = last
	case model.FormatFirstUscoreLast:
		local = first + "_" + last
	case model.FormatFirstHyphenLast:
		local = first + "-" + last
	case model.FormatFirstLast:
		local = first + last
	default:
		return ""
	}

	return local + "@" + domain
}

// cleanName lowercases and strips everything non-alphabetic, so
// "Mary-Jane" becomes "maryjane" and "O'Brien" becomes "obrien" —
// separators inside names are removed, never treated as format
// separators.
func cleanName(name string) string {
	return nonAlpha.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "")
}
