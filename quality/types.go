// ABOUTME: Result types for the quality analyzer
// ABOUTME: Defines Issue severities, duplicate groups, and the analysis aggregate
package quality

import (
	"github.com/recrutech/boondsync/models"
)

// Severity buckets a detected defect.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one field-level defect on one entity.
type Issue struct {
	EntityType     models.EntityType `json:"entityType"`
	EntityID       string            `json:"entityId"`
	Field          string            `json:"field"`
	Issue          string            `json:"issue"`
	Severity       Severity          `json:"severity"`
	CurrentValue   string            `json:"currentValue"`
	SuggestedValue string            `json:"suggestedValue,omitempty"`
}

// DuplicateItem is one member of a duplicate group.
type DuplicateItem struct {
	ID         string         `json:"id"`
	Attributes map[string]any `json:"attributes"`
}

// DuplicateGroup collects >= 2 entities of one type sharing a normalized
// key value on one field.
type DuplicateGroup struct {
	EntityType models.EntityType `json:"entityType"`
	Field      string            `json:"field"`
	Value      string            `json:"value"`
	Items      []DuplicateItem   `json:"items"`
}

// Summary is a pure aggregate over the issue and duplicate lists.
type Summary struct {
	TotalIssues     int `json:"totalIssues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
	DuplicateGroups int `json:"duplicateGroups"`
}

// Analysis is the full output of one analyzer run.
type Analysis struct {
	Environment models.Environment `json:"environment"`
	Issues      []Issue            `json:"issues"`
	Duplicates  []DuplicateGroup   `json:"duplicates"`
	Summary     Summary            `json:"summary"`
}

// Summarize folds the lists into counters.
func Summarize(issues []Issue, duplicates []DuplicateGroup) Summary {
	s := Summary{TotalIssues: len(issues), DuplicateGroups: len(duplicates)}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		case SeverityInfo:
			s.Info++
		}
	}
	return s
}
