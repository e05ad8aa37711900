// Package scorer computes the heuristic lead-quality score attached to
// each provider record before matching: a flat weighted sum over
// organization size, phone availability, group assignment, and
// telehealth signals.
package scorer

import "strings"

// Size-tier and signal weights for the lead score.
const (
	weightHealthSystem = 10 // 1000+ members
	weightEnterprise   = 8  // 300-999
	weightVeryLarge    = 6  // 100-299
	weightLarge        = 4  // 50-99
	weightMedium       = 2  // 10-49
	weightSmall        = 1  // 1-9
	weightPhone        = 2
	weightGroupAssign  = 1
	weightTelehealth   = 1
)

// Result holds the scoring output for one provider record.
type Result struct {
	LeadScore    int
	SizeCategory string
	Phone        string
	HasPhone     bool
}

// Input is the subset of provider fields the score reads.
type Input struct {
	OrgMembers      int
	Phone           string
	GroupAssignment string
	Telehealth      string
}

// Score computes the lead score and derived contact fields.
func Score(in Input) Result {
	phone := CleanPhone(in.Phone)

	score := sizeWeight(in.OrgMembers)
	if phone != "" {
		score += weightPhone
	}
	if in.GroupAssignment == "Y" {
		score += weightGroupAssign
	}
	if strings.TrimSpace(in.Telehealth) != "" {
		score += weightTelehealth
	}

	return Result{
		LeadScore:    score,
		SizeCategory: SizeCategory(in.OrgMembers),
		Phone:        phone,
		HasPhone:     phone != "",
	}
}

func sizeWeight(members int) int {
	switch {
	case members >= 1000:
		return weightHealthSystem
	case members >= 300:
		return weightEnterprise
	case members >= 100:
		return weightVeryLarge
	case members >= 50:
		return weightLarge
	case members >= 10:
		return weightMedium
	case members > 0:
		return weightSmall
	default:
		return 0
	}
}

// SizeCategory buckets an organization by member count.
func SizeCategory(members int) string {
	switch {
	case members >= 1000:
		return "Health System (1000+ members)"
	case members >= 300:
		return "Enterprise (301-1000 members)"
	case members >= 100:
		return "Very Large (101-300 members)"
	case members >= 50:
		return "Large (51-100 members)"
	case members >= 10:
		return "Medium (11-50 members)"
	case members > 0:
		return "Small Practice (1-10 members)"
	default:
		return "Unknown"
	}
}

// CleanPhone strips everything non-numeric and returns the result only
// when it is a full 10-digit number; partial numbers are useless for
// outreach.
func CleanPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() != 10 {
		return ""
	}
	return b.String()
}
