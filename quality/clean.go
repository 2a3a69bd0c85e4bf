// ABOUTME: Cleaning transform applied by clean exports
// ABOUTME: Reuses the analyzer's normalization so exports match suggestions
package quality

import (
	"github.com/recrutech/boondsync/models"
)

// CleanEntity returns a copy of the entity with the analyzer's suggested
// normalizations applied: emails lowercased and trimmed, phones in canonical
// form, names title-cased. The input is never mutated.
func CleanEntity(e *models.Entity) *models.Entity {
	out := e.Clone()

	if field, ok := emailFields[e.Type]; ok {
		if v := out.StringAttr(field); v != "" {
			out.Attributes[field] = NormalizeEmail(v)
		}
	}
	if field, ok := phoneFields[e.Type]; ok {
		if v := out.StringAttr(field); v != "" && PlausiblePhone(v) {
			out.Attributes[field] = NormalizePhone(v)
		}
	}
	for _, field := range nameFields[e.Type] {
		if v := out.StringAttr(field); v != "" {
			out.Attributes[field] = TitleCaseName(v)
		}
	}
	return out
}
