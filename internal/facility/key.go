// Package facility canonicalizes organization identity into a single
// comparable key of the form "ORG, CITY, STATE". The same real-world
// entity is expected, but not guaranteed, to key identically across
// data sources; the matcher's fuzzy tiers absorb the rest.
package facility

import "strings"

// suffixReplacements collapses common corporate-suffix punctuation
// variants. Order matters: longer, more specific patterns must be
// applied before their shorter forms, and the bare "."/"," removals
// must come last.
var suffixReplacements = []struct {
	old string
	new string
}{
	{" INC.", " INC"},
	{" INC,", " INC"},
	{" LLC.", " LLC"},
	{" LLC,", " LLC"},
	{" P.C.", " PC"},
	{" P.C,", " PC"},
	{" P.A.", " PA"},
	{" P.A,", " PA"},
	{" L.L.C.", " LLC"},
	{" L.L.C", " LLC"},
	{" L.P.", " LP"},
	{" PLLC.", " PLLC"},
	{",", ""},
	{".", ""},
}

// NormalizeOrgName uppercases, trims, collapses corporate-suffix
// variants, strips remaining periods and commas, and collapses
// whitespace. Idempotent.
func NormalizeOrgName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, r := range suffixReplacements {
		name = strings.ReplaceAll(name, r.old, r.new)
	}
	return strings.Join(strings.Fields(name), " ")
}

// corporateSuffixes are trailing tokens ignored when comparing org
// names for equality. The key itself keeps them; only the fuzzy-exact
// comparison drops them, so "ACME HEALTH INC" and "ACME HEALTH" count
// as the same organization.
var corporateSuffixes = map[string]bool{
	"INC":  true,
	"LLC":  true,
	"LLP":  true,
	"LP":   true,
	"LTD":  true,
	"PC":   true,
	"PA":   true,
	"PLLC": true,
	"CORP": true,
}

// TrimCorporateSuffix removes trailing corporate-suffix tokens from an
// already-normalized org name. A name that is nothing but suffixes is
// returned unchanged from its last non-empty state.
func TrimCorporateSuffix(normalizedOrg string) string {
	words := strings.Fields(normalizedOrg)
	for len(words) > 1 && corporateSuffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// Key builds the normalized facility key "ORG, CITY, STATE".
// Returns "" if any component is missing: a facility cannot be keyed
// without all three.
func Key(orgName, city, state string) string {
	org := NormalizeOrgName(orgName)
	city = strings.ToUpper(strings.TrimSpace(city))
	state = strings.ToUpper(strings.TrimSpace(state))

	if org == "" || city == "" || state == "" {
		return ""
	}
	return org + ", " + city + ", " + state
}

// Location builds the "CITY, STATE" bucket suffix used to bound the
// similarity search.
func Location(city, state string) string {
	return strings.ToUpper(strings.TrimSpace(city)) + ", " + strings.ToUpper(strings.TrimSpace(state))
}

// SplitKey splits a facility key back into its org, city, and state
// parts. The org name may itself contain commas, so the split is taken
// from the right. Returns ok=false if the key does not have all three
// parts.
func SplitKey(key string) (org, city, state string, ok bool) {
	i := strings.LastIndex(key, ", ")
	if i < 0 {
		return "", "", "", false
	}
	state = key[i+2:]
	rest := key[:i]

	j := strings.LastIndex(rest, ", ")
	if j < 0 {
		return "", "", "", false
	}
	city = rest[j+2:]
	org = rest[:j]

	if org == "" || city == "" || state == "" {
		return "", "", "", false
	}
	return org, city, state, true
}
