package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/provider-outreach/internal/model"
)

func TestWriteAnnotated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	header := []string{"Facility Name", "City/Town"}
	rows := [][]string{
		{"Acme Health", "Springfield"},
		{"Beta Clinic", "Dayton"},
	}
	annotations := []model.Annotation{
		{
			FacilityKey:     "ACME HEALTH, SPRINGFIELD, IL",
			MatchedFacility: "ACME HEALTH, SPRINGFIELD, IL",
			MatchType:       model.MatchExact,
			MatchScore:      1.0,
			GeneratedEmail:  "jane.doe@acme.com",
			EmailFormatUsed: model.FormatFirstDotLast,
			EmailDomain:     "acme.com",
		},
		{FacilityKey: "BETA CLINIC, DAYTON, OH"},
	}

	require.NoError(t, writeAnnotated(path, header, rows, annotations))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, append([]string{"Facility Name", "City/Town"}, annotationColumns...), records[0])
	assert.Equal(t, []string{
		"Acme Health", "Springfield",
		"ACME HEALTH, SPRINGFIELD, IL", "ACME HEALTH, SPRINGFIELD, IL",
		"exact", "1.0000", "jane.doe@acme.com", "[first].[last]", "acme.com",
	}, records[1])

	// Unmatched rows carry the key and empty annotation fields.
	assert.Equal(t, "BETA CLINIC, DAYTON, OH", records[2][2])
	assert.Equal(t, "", records[2][3])
	assert.Equal(t, "", records[2][5])
}

func TestWriteUnmatched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unmatched.txt")

	annotations := []model.Annotation{
		{FacilityKey: "ACME HEALTH, SPRINGFIELD, IL", MatchType: model.MatchExact},
		{FacilityKey: "BETA CLINIC, DAYTON, OH"},
		{FacilityKey: "BETA CLINIC, DAYTON, OH"},
		{FacilityKey: ""},
	}

	require.NoError(t, writeUnmatched(path, annotations))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BETA CLINIC, DAYTON, OH\n", string(raw))
}

func TestFacilityKeys_DedupesAndSorts(t *testing.T) {
	providers := []model.Provider{
		{OrgName: "Beta Clinic", City: "Dayton", State: "OH"},
		{OrgName: "Acme Health", City: "Springfield", State: "IL"},
		{OrgName: "ACME HEALTH", City: "springfield", State: "il"},
		{OrgName: "No State Clinic", City: "Dayton"},
	}

	keys := facilityKeys(providers)
	assert.Equal(t, []string{
		"ACME HEALTH, SPRINGFIELD, IL",
		"BETA CLINIC, DAYTON, OH",
	}, keys)
}
