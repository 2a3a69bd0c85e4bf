// ABOUTME: Per-field validation rules with fixed severities
// ABOUTME: Required fields, email/phone shape checks, and name casing
package quality

import (
	"github.com/recrutech/boondsync/models"
)

// requiredFields lists, per entity type, the attributes that must be
// non-empty. A missing value is an error-severity issue.
var requiredFields = map[models.EntityType][]string{
	models.Candidate:   {"email"},
	models.Resource:    {"email", "lastName"},
	models.Contact:     {"email", "lastName"},
	models.Company:     {"name"},
	models.Opportunity: {"title"},
	models.Project:     {"title"},
}

// emailFields and phoneFields name the attributes the shape heuristics run
// against, where present.
var emailFields = map[models.EntityType]string{
	models.Candidate: "email",
	models.Resource:  "email",
	models.Contact:   "email",
}

var phoneFields = map[models.EntityType]string{
	models.Candidate: "phone",
	models.Resource:  "phone",
	models.Contact:   "phone",
}

// nameFields name the attributes checked for title casing.
var nameFields = map[models.EntityType][]string{
	models.Candidate: {"firstName", "lastName"},
	models.Resource:  {"firstName", "lastName"},
	models.Contact:   {"firstName", "lastName"},
	models.Company:   {"name"},
}

// checkEntity runs every validator against one entity and returns its
// issues. Order within one entity is fixed: required, email, phone, casing.
func checkEntity(e *models.Entity) []Issue {
	var issues []Issue

	for _, field := range requiredFields[e.Type] {
		if e.StringAttr(field) == "" {
			issues = append(issues, Issue{
				EntityType:   e.Type,
				EntityID:     e.ID,
				Field:        field,
				Issue:        "required field is missing or empty",
				Severity:     SeverityError,
				CurrentValue: "",
			})
		}
	}

	if field, ok := emailFields[e.Type]; ok {
		if v := e.StringAttr(field); v != "" && !ValidEmail(v) {
			issue := Issue{
				EntityType:   e.Type,
				EntityID:     e.ID,
				Field:        field,
				Issue:        "malformed email address",
				Severity:     SeverityWarning,
				CurrentValue: v,
			}
			if normalized := NormalizeEmail(v); normalized != v && ValidEmail(normalized) {
				issue.SuggestedValue = normalized
			}
			issues = append(issues, issue)
		}
	}

	if field, ok := phoneFields[e.Type]; ok {
		if v := e.StringAttr(field); v != "" {
			if !PlausiblePhone(v) {
				issues = append(issues, Issue{
					EntityType:   e.Type,
					EntityID:     e.ID,
					Field:        field,
					Issue:        "phone number fails digit-count heuristic",
					Severity:     SeverityWarning,
					CurrentValue: v,
				})
			} else if normalized := NormalizePhone(v); normalized != v {
				issues = append(issues, Issue{
					EntityType:     e.Type,
					EntityID:       e.ID,
					Field:          field,
					Issue:          "phone number not in canonical form",
					Severity:       SeverityWarning,
					CurrentValue:   v,
					SuggestedValue: normalized,
				})
			}
		}
	}

	for _, field := range nameFields[e.Type] {
		v := e.StringAttr(field)
		if v == "" {
			continue
		}
		if cased := TitleCaseName(v); cased != v {
			issues = append(issues, Issue{
				EntityType:     e.Type,
				EntityID:       e.ID,
				Field:          field,
				Issue:          "inconsistent name casing",
				Severity:       SeverityInfo,
				CurrentValue:   v,
				SuggestedValue: cased,
			})
		}
	}

	return issues
}
