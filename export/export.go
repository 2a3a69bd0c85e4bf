// ABOUTME: Snapshot export service producing JSON or CSV streams
// ABOUTME: Optionally applies the analyzer's cleaning pass before writing
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/recrutech/boondsync/models"
	"github.com/recrutech/boondsync/quality"
)

// Format selects the serialization of an export.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q (want json or csv)", s)
}

// csvColumns declares the stable column order per entity type. Dotted names
// reach into nested attribute maps.
var csvColumns = map[models.EntityType][]string{
	models.Candidate:   {"civility", "firstName", "lastName", "email", "phone", "state"},
	models.Resource:    {"firstName", "lastName", "email", "phone", "function"},
	models.Contact:     {"firstName", "lastName", "email", "phone"},
	models.Company:     {"name", "email", "phone", "address.city", "address.country"},
	models.Opportunity: {"title", "state", "startDate"},
	models.Project:     {"title", "mode", "startDate", "endDate"},
}

// Filename builds the download name for an export:
// <entity_or_all>_<env>_<date>.<format>.
func Filename(entity string, env models.Environment, format Format, now time.Time) string {
	if entity == "" {
		entity = "all"
	}
	return fmt.Sprintf("%s_%s_%s.%s", entity, env, now.Format("2006-01-02"), format)
}

// Export serializes a snapshot to the writer. With clean set, every entity
// goes through the analyzer's cleaning transform first, so a clean export
// matches what the analyzer would suggest for the same data.
func Export(w io.Writer, snapshot map[models.EntityType][]models.Entity, format Format, clean bool) error {
	if clean {
		snapshot = cleanSnapshot(snapshot)
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, snapshot)
	case FormatCSV:
		return writeCSV(w, snapshot)
	}
	return fmt.Errorf("unknown export format %q", format)
}

func cleanSnapshot(snapshot map[models.EntityType][]models.Entity) map[models.EntityType][]models.Entity {
	cleaned := make(map[models.EntityType][]models.Entity, len(snapshot))
	for t, entities := range snapshot {
		out := make([]models.Entity, len(entities))
		for i := range entities {
			out[i] = *quality.CleanEntity(&entities[i])
		}
		cleaned[t] = out
	}
	return cleaned
}

// writeJSON preserves the full nested structure, keyed by entity type in
// the fixed type order.
func writeJSON(w io.Writer, snapshot map[models.EntityType][]models.Entity) error {
	ordered := make(map[models.EntityType][]models.Entity, len(snapshot))
	for t, entities := range snapshot {
		sorted := make([]models.Entity, len(entities))
		copy(sorted, entities)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
		ordered[t] = sorted
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ordered)
}

// writeCSV flattens every entity onto one shared header: type and id first,
// then the union of the declared per-type columns in declared order.
func writeCSV(w io.Writer, snapshot map[models.EntityType][]models.Entity) error {
	header := []string{"type", "id"}
	seen := map[string]bool{}
	for _, t := range models.AllEntityTypes() {
		if _, present := snapshot[t]; !present {
			continue
		}
		for _, col := range csvColumns[t] {
			if !seen[col] {
				seen[col] = true
				header = append(header, col)
			}
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}

	for _, t := range models.AllEntityTypes() {
		entities, present := snapshot[t]
		if !present {
			continue
		}
		sorted := make([]models.Entity, len(entities))
		copy(sorted, entities)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

		for i := range sorted {
			row := make([]string, 0, len(header))
			row = append(row, string(t), sorted[i].ID)
			for _, col := range header[2:] {
				row = append(row, attributeAt(sorted[i].Attributes, col))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("export: write csv row for %s %s: %w", t, sorted[i].ID, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// attributeAt resolves a dotted column path against a nested attribute map
// and renders the value as a CSV cell.
func attributeAt(attrs map[string]any, path string) string {
	var current any = attrs
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current, ok = m[part]
		if !ok {
			return ""
		}
	}

	switch v := current.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		rendered, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(rendered)
	}
}
