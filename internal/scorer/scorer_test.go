package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_SizeTiers(t *testing.T) {
	cases := []struct {
		members int
		want    int
	}{
		{0, 0},
		{1, 1},
		{9, 1},
		{10, 2},
		{49, 2},
		{50, 4},
		{99, 4},
		{100, 6},
		{299, 6},
		{300, 8},
		{999, 8},
		{1000, 10},
		{5000, 10},
	}
	for _, tc := range cases {
		got := Score(Input{OrgMembers: tc.members})
		assert.Equal(t, tc.want, got.LeadScore, "members=%d", tc.members)
	}
}

func TestScore_PhoneBonus(t *testing.T) {
	got := Score(Input{OrgMembers: 10, Phone: "(217) 555-0142"})
	assert.Equal(t, 4, got.LeadScore)
	assert.Equal(t, "2175550142", got.Phone)
	assert.True(t, got.HasPhone)
}

func TestScore_PartialPhoneNoBonus(t *testing.T) {
	got := Score(Input{OrgMembers: 10, Phone: "555-0142"})
	assert.Equal(t, 2, got.LeadScore)
	assert.Equal(t, "", got.Phone)
	assert.False(t, got.HasPhone)
}

func TestScore_GroupAssignmentBonus(t *testing.T) {
	assert.Equal(t, 1, Score(Input{GroupAssignment: "Y"}).LeadScore)
	assert.Equal(t, 0, Score(Input{GroupAssignment: "N"}).LeadScore)
	assert.Equal(t, 0, Score(Input{GroupAssignment: ""}).LeadScore)
}

func TestScore_TelehealthBonus(t *testing.T) {
	assert.Equal(t, 1, Score(Input{Telehealth: "Y"}).LeadScore)
	assert.Equal(t, 0, Score(Input{Telehealth: "  "}).LeadScore)
}

func TestScore_AllSignals(t *testing.T) {
	got := Score(Input{
		OrgMembers:      1200,
		Phone:           "217-555-0142",
		GroupAssignment: "Y",
		Telehealth:      "Y",
	})
	assert.Equal(t, 14, got.LeadScore)
	assert.Equal(t, "Health System (1000+ members)", got.SizeCategory)
}

func TestSizeCategory(t *testing.T) {
	assert.Equal(t, "Unknown", SizeCategory(0))
	assert.Equal(t, "Small Practice (1-10 members)", SizeCategory(5))
	assert.Equal(t, "Medium (11-50 members)", SizeCategory(25))
	assert.Equal(t, "Large (51-100 members)", SizeCategory(75))
	assert.Equal(t, "Very Large (101-300 members)", SizeCategory(150))
	assert.Equal(t, "Enterprise (301-1000 members)", SizeCategory(500))
	assert.Equal(t, "Health System (1000+ members)", SizeCategory(2500))
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "2175550142", CleanPhone("(217) 555-0142"))
	assert.Equal(t, "2175550142", CleanPhone("217.555.0142"))
	assert.Equal(t, "", CleanPhone("555-0142"))
	assert.Equal(t, "", CleanPhone("12175550142"))
	assert.Equal(t, "", CleanPhone(""))
}
