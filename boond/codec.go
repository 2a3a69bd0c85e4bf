// ABOUTME: Wire codec between BoondManager JSON:API payloads and Entity
// ABOUTME: Normalizes id/attributes/relationships documents in both directions
package boond

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/recrutech/boondsync/models"
)

// wireResource mirrors one record of a BoondManager JSON:API document.
type wireResource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type,omitempty"`
	Attributes    map[string]any          `json:"attributes"`
	Relationships map[string]wireRelation `json:"relationships,omitempty"`
}

// wireRelation carries either a single linkage object or an array of them.
type wireRelation struct {
	Data json.RawMessage `json:"data"`
}

type wireLinkage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type listDocument struct {
	Data []wireResource `json:"data"`
	Meta struct {
		Totals struct {
			Rows int `json:"rows"`
		} `json:"totals"`
	} `json:"meta"`
}

type singleDocument struct {
	Data wireResource `json:"data"`
}

// decodeEntity converts one wire resource into the uniform Entity form,
// consulting the relationship schema for cardinality. Relationship names the
// schema does not declare are kept as-is so nothing is silently dropped.
func decodeEntity(res wireResource, t models.EntityType) (*models.Entity, error) {
	if res.ID == "" {
		return nil, fmt.Errorf("decode %s: missing id", t)
	}

	entity := &models.Entity{
		ID:            res.ID,
		Type:          t,
		Attributes:    res.Attributes,
		Relationships: make(map[string]models.Relation, len(res.Relationships)),
	}
	if entity.Attributes == nil {
		entity.Attributes = map[string]any{}
	}

	for name, rel := range res.Relationships {
		refs, err := decodeLinkage(rel.Data)
		if err != nil {
			return nil, fmt.Errorf("decode %s %s relationship %q: %w", t, res.ID, name, err)
		}
		if field, declared := models.RelationFieldOf(t, name); declared && !field.Multi && len(refs) > 1 {
			return nil, fmt.Errorf("decode %s %s: relationship %q is single-valued but carries %d targets", t, res.ID, name, len(refs))
		}
		entity.Relationships[name] = models.Relation{Refs: refs}
	}
	return entity, nil
}

// decodeLinkage handles the three JSON:API linkage shapes: null, one object,
// or an array of objects.
func decodeLinkage(raw json.RawMessage) ([]models.Ref, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '[' {
		var many []wireLinkage
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil, err
		}
		refs := make([]models.Ref, 0, len(many))
		for _, l := range many {
			if l.ID == "" {
				continue
			}
			refs = append(refs, models.Ref{ID: l.ID, Type: models.EntityType(l.Type)})
		}
		return refs, nil
	}
	var one wireLinkage
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, err
	}
	if one.ID == "" {
		return nil, nil
	}
	return []models.Ref{{ID: one.ID, Type: models.EntityType(one.Type)}}, nil
}

// encodeEntity serializes an Entity back into the wire shape used for create
// requests. The id is omitted: the target environment assigns its own.
func encodeEntity(e *models.Entity) ([]byte, error) {
	res := wireResource{
		Type:          string(e.Type),
		Attributes:    e.Attributes,
		Relationships: make(map[string]wireRelation, len(e.Relationships)),
	}

	for _, name := range e.RelationshipKeys() {
		rel := e.Relationships[name]
		field, declared := models.RelationFieldOf(e.Type, name)
		multi := declared && field.Multi

		var data any
		switch {
		case rel.IsEmpty() && multi:
			data = []wireLinkage{}
		case rel.IsEmpty():
			data = nil
		case multi:
			links := make([]wireLinkage, 0, len(rel.Refs))
			for _, ref := range rel.Refs {
				links = append(links, wireLinkage{ID: ref.ID, Type: string(ref.Type)})
			}
			data = links
		default:
			data = wireLinkage{ID: rel.Refs[0].ID, Type: string(rel.Refs[0].Type)}
		}

		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s relationship %q: %w", e.Type, name, err)
		}
		res.Relationships[name] = wireRelation{Data: raw}
	}
	if len(res.Relationships) == 0 {
		res.Relationships = nil
	}

	body, err := json.Marshal(singleDocument{Data: res})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type, err)
	}
	return body, nil
}
