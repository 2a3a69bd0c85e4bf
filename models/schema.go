// ABOUTME: Static relationship schema shared by the sync engine and analyzer
// ABOUTME: Declares per-type relationship fields and computes dependency order
package models

import (
	"fmt"
)

// RelationField declares one relationship field of an entity type: its wire
// name, the entity type it targets, and whether it may hold several targets.
type RelationField struct {
	Name   string
	Target EntityType
	Multi  bool
}

// RelationSchema is the single source of truth for which entity types
// reference which. The sync engine derives its processing order from it and
// the mapper uses it to decode relationship payloads.
var RelationSchema = map[EntityType][]RelationField{
	Company:   {},
	Candidate: {},
	Contact: {
		{Name: "company", Target: Company},
	},
	Resource: {
		{Name: "company", Target: Company},
	},
	Opportunity: {
		{Name: "company", Target: Company},
		{Name: "contact", Target: Contact},
	},
	Project: {
		{Name: "opportunity", Target: Opportunity},
		{Name: "company", Target: Company},
		{Name: "resources", Target: Resource, Multi: true},
	},
}

// RelationFieldsOf returns the declared relationship fields for a type.
func RelationFieldsOf(t EntityType) []RelationField {
	return RelationSchema[t]
}

// relationField looks up one declared field by wire name.
func relationField(t EntityType, name string) (RelationField, bool) {
	for _, f := range RelationSchema[t] {
		if f.Name == name {
			return f, true
		}
	}
	return RelationField{}, false
}

// RelationFieldOf looks up one declared relationship field by wire name.
func RelationFieldOf(t EntityType, name string) (RelationField, bool) {
	return relationField(t, name)
}

// DependencyOrder topologically sorts the entity types so that every type
// appears after all types it references. The sort is deterministic: ties are
// broken by the fixed AllEntityTypes order. A cycle in the schema is a
// configuration error and is reported before any sync work starts.
func DependencyOrder(schema map[EntityType][]RelationField) ([]EntityType, error) {
	const (
		unvisited = iota
		visiting
		done
	)

	state := make(map[EntityType]int, len(schema))
	order := make([]EntityType, 0, len(schema))

	var visit func(t EntityType) error
	visit = func(t EntityType) error {
		switch state[t] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("relationship schema cycle involving %s", t)
		}
		state[t] = visiting
		for _, f := range schema[t] {
			if f.Target == t {
				// Self-references (e.g. a parent company) need no ordering.
				continue
			}
			if err := visit(f.Target); err != nil {
				return fmt.Errorf("%s: %w", t, err)
			}
		}
		state[t] = done
		order = append(order, t)
		return nil
	}

	for _, t := range AllEntityTypes() {
		if _, declared := schema[t]; !declared {
			continue
		}
		if err := visit(t); err != nil {
			return nil, err
		}
	}
	return order, nil
}
