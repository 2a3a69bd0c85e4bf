// ABOUTME: Core data models for the BoondManager sync engine
// ABOUTME: Defines Environment, EntityType, Entity, and Dictionary structures
package models

import (
	"fmt"
	"sort"
)

// Environment identifies one of the two isolated BoondManager tenants.
type Environment string

const (
	Production Environment = "production"
	Sandbox    Environment = "sandbox"
)

// ParseEnvironment validates a user-supplied environment name.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case Production, Sandbox:
		return Environment(s), nil
	}
	return "", fmt.Errorf("unknown environment %q (want production or sandbox)", s)
}

// Writable reports whether the engine may issue create/delete calls against
// this environment. Production is strictly read-only.
func (e Environment) Writable() bool {
	return e == Sandbox
}

// EntityType enumerates the six BoondManager business record types.
type EntityType string

const (
	Candidate   EntityType = "candidate"
	Resource    EntityType = "resource"
	Opportunity EntityType = "opportunity"
	Company     EntityType = "company"
	Contact     EntityType = "contact"
	Project     EntityType = "project"
)

// AllEntityTypes lists every entity type in a fixed, stable order.
func AllEntityTypes() []EntityType {
	return []EntityType{Company, Contact, Resource, Candidate, Opportunity, Project}
}

// ParseEntityType validates a user-supplied entity type name.
func ParseEntityType(s string) (EntityType, error) {
	for _, t := range AllEntityTypes() {
		if EntityType(s) == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown entity type %q", s)
}

// Ref points at another entity. The ID is only meaningful within the
// environment the referencing entity was read from.
type Ref struct {
	ID   string     `json:"id"`
	Type EntityType `json:"type"`
}

// Relation holds the target(s) of one relationship field. Single-valued
// relations carry exactly one Ref.
type Relation struct {
	Refs []Ref `json:"refs"`
}

// IsEmpty reports whether the relation has no targets.
func (r Relation) IsEmpty() bool {
	return len(r.Refs) == 0
}

// Entity is the uniform in-memory representation of one BoondManager record.
// IDs are environment-scoped: the same entity carries different ids in
// production and sandbox, and the two must never be compared.
type Entity struct {
	ID            string              `json:"id"`
	Type          EntityType          `json:"type"`
	Attributes    map[string]any      `json:"attributes"`
	Relationships map[string]Relation `json:"relationships,omitempty"`
}

// RelationshipKeys returns the relationship names in sorted order, so that
// callers iterating relationships produce deterministic output.
func (e *Entity) RelationshipKeys() []string {
	keys := make([]string, 0, len(e.Relationships))
	for k := range e.Relationships {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StringAttr returns a string attribute, or "" when absent or not a string.
func (e *Entity) StringAttr(name string) string {
	v, ok := e.Attributes[name]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Clone returns a deep copy of the entity. Relationship slices and the
// attribute map are copied; nested attribute values are shared, which is fine
// because the engine never mutates nested values in place.
func (e *Entity) Clone() *Entity {
	out := &Entity{
		ID:            e.ID,
		Type:          e.Type,
		Attributes:    make(map[string]any, len(e.Attributes)),
		Relationships: make(map[string]Relation, len(e.Relationships)),
	}
	for k, v := range e.Attributes {
		out.Attributes[k] = v
	}
	for k, rel := range e.Relationships {
		refs := make([]Ref, len(rel.Refs))
		copy(refs, rel.Refs)
		out.Relationships[k] = Relation{Refs: refs}
	}
	return out
}

// DictionaryItem is one entry of a BoondManager pick-list (states, types,
// civilities, currencies...).
type DictionaryItem struct {
	ID        any    `json:"id"`
	Value     string `json:"value"`
	Color     string `json:"color,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty"`
	IsActive  bool   `json:"isActive,omitempty"`
	Order     int    `json:"order,omitempty"`
}

// Dictionary maps a pick-list category name to its items.
type Dictionary map[string][]DictionaryItem
