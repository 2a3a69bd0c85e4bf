// ABOUTME: Tests for the export service
// ABOUTME: Covers CSV flattening, JSON structure, and the clean round-trip
package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recrutech/boondsync/models"
	"github.com/recrutech/boondsync/quality"
)

func sampleSnapshot() map[models.EntityType][]models.Entity {
	return map[models.EntityType][]models.Entity{
		models.Candidate: {
			{ID: "2", Type: models.Candidate, Attributes: map[string]any{
				"firstName": "jean",
				"lastName":  "DUPONT",
				"email":     " Jean.Dupont@X.com ",
				"phone":     "06.12.34.56.78",
			}},
			{ID: "1", Type: models.Candidate, Attributes: map[string]any{
				"firstName": "Marie",
				"lastName":  "Curie",
				"email":     "marie@x.com",
			}},
		},
		models.Company: {
			{ID: "10", Type: models.Company, Attributes: map[string]any{
				"name": "Acme Consulting",
				"address": map[string]any{
					"city":    "Paris",
					"country": "FR",
				},
			}},
		},
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "candidate_sandbox_2026-08-30.csv",
		Filename("candidate", models.Sandbox, FormatCSV, now))
	assert.Equal(t, "all_production_2026-08-30.json",
		Filename("", models.Production, FormatJSON, now))
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"json", "csv"} {
		if _, err := ParseFormat(valid); err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Error("ParseFormat(\"xlsx\") should fail")
	}
}

func TestCSVExportFlattensNestedAttributes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleSnapshot(), FormatCSV, false))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(records), 4, "header + 3 rows")

	header := records[0]
	assert.Equal(t, "type", header[0])
	assert.Equal(t, "id", header[1])

	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	require.Contains(t, col, "address.city")

	var companyRow []string
	for _, row := range records[1:] {
		if row[0] == "company" {
			companyRow = row
		}
	}
	require.NotNil(t, companyRow)
	assert.Equal(t, "Paris", companyRow[col["address.city"]])
	assert.Equal(t, "FR", companyRow[col["address.country"]])
}

func TestCSVExportIsDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, Export(&first, sampleSnapshot(), FormatCSV, false))
	require.NoError(t, Export(&second, sampleSnapshot(), FormatCSV, false))
	assert.Equal(t, first.String(), second.String())
}

func TestCSVRowsSortedByID(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleSnapshot(), FormatCSV, false))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	var candidateIDs []string
	for _, row := range records[1:] {
		if row[0] == "candidate" {
			candidateIDs = append(candidateIDs, row[1])
		}
	}
	assert.Equal(t, []string{"1", "2"}, candidateIDs)
}

func TestJSONExportPreservesNestedStructure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleSnapshot(), FormatJSON, false))

	var decoded map[string][]models.Entity
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded["company"], 1)
	address, ok := decoded["company"][0].Attributes["address"].(map[string]any)
	require.True(t, ok, "nested attribute map must survive JSON export")
	assert.Equal(t, "Paris", address["city"])
}

// Scenario D: a clean export must render the candidate's phone exactly as
// the analyzer's suggestedValue for the same record.
func TestCleanExportMatchesAnalyzerSuggestions(t *testing.T) {
	snapshot := sampleSnapshot()
	analysis := quality.AnalyzeSnapshot(snapshot)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, snapshot, FormatJSON, true))

	var decoded map[string][]models.Entity
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	byID := map[string]models.Entity{}
	for _, e := range decoded["candidate"] {
		byID[e.ID] = e
	}

	suggested := map[string]string{}
	for _, issue := range analysis.Issues {
		if issue.EntityType == models.Candidate && issue.EntityID == "2" && issue.SuggestedValue != "" {
			suggested[issue.Field] = issue.SuggestedValue
		}
	}
	require.Contains(t, suggested, "phone")
	assert.Equal(t, "+33612345678", suggested["phone"])

	exported := byID["2"]
	for field, want := range suggested {
		got, _ := exported.Attributes[field].(string)
		assert.Equal(t, want, got, "clean export must match analyzer suggestion for %s", field)
	}
}

// Exporting raw then re-normalizing must reproduce the analyzer suggestions,
// so raw exports lose nothing the cleaning pass needs.
func TestRawExportRoundTrip(t *testing.T) {
	snapshot := sampleSnapshot()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, snapshot, FormatJSON, false))

	var decoded map[models.EntityType][]models.Entity
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	for t2 := range decoded {
		for i := range decoded[t2] {
			decoded[t2][i].Type = t2
		}
	}

	original := quality.AnalyzeSnapshot(snapshot)
	reimported := quality.AnalyzeSnapshot(decoded)

	require.Equal(t, len(original.Issues), len(reimported.Issues))
	for i := range original.Issues {
		assert.Equal(t, original.Issues[i].SuggestedValue, reimported.Issues[i].SuggestedValue)
	}
}
