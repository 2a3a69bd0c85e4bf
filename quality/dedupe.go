// ABOUTME: Cross-record duplicate detection by normalized key
// ABOUTME: Groups entities sharing a case-folded, deaccented field value
package quality

import (
	"sort"

	"github.com/recrutech/boondsync/models"
)

// dedupKeys configures which (entityType, field) pairs are grouped for
// duplicate detection.
var dedupKeys = map[models.EntityType]string{
	models.Candidate: "email",
	models.Resource:  "email",
	models.Contact:   "email",
	models.Company:   "name",
}

// findDuplicates groups entities of each configured type by the normalized
// key value. Groups and their items come back in a stable order so repeated
// runs over the same snapshot are byte-identical.
func findDuplicates(snapshot map[models.EntityType][]models.Entity) []DuplicateGroup {
	var groups []DuplicateGroup

	for _, t := range models.AllEntityTypes() {
		field, configured := dedupKeys[t]
		if !configured {
			continue
		}

		byKey := make(map[string][]DuplicateItem)
		for _, e := range snapshot[t] {
			key := NormalizeKey(e.StringAttr(field))
			if key == "" {
				continue
			}
			byKey[key] = append(byKey[key], DuplicateItem{ID: e.ID, Attributes: e.Attributes})
		}

		keys := make([]string, 0, len(byKey))
		for k := range byKey {
			if len(byKey[k]) >= 2 {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		for _, k := range keys {
			items := byKey[k]
			sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
			groups = append(groups, DuplicateGroup{
				EntityType: t,
				Field:      field,
				Value:      k,
				Items:      items,
			})
		}
	}

	return groups
}
