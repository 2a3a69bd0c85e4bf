// ABOUTME: Tests for the relationship schema and dependency ordering
// ABOUTME: Covers topological sort determinism and cycle detection
package models

import (
	"testing"
)

func TestDependencyOrder(t *testing.T) {
	order, err := DependencyOrder(RelationSchema)
	if err != nil {
		t.Fatalf("DependencyOrder failed: %v", err)
	}

	expected := []EntityType{Company, Contact, Resource, Candidate, Opportunity, Project}
	if len(order) != len(expected) {
		t.Fatalf("expected %d types, got %d: %v", len(expected), len(order), order)
	}
	for i, want := range expected {
		if order[i] != want {
			t.Errorf("position %d: expected %s, got %s (full order %v)", i, want, order[i], order)
		}
	}
}

func TestDependencyOrderIsStable(t *testing.T) {
	first, err := DependencyOrder(RelationSchema)
	if err != nil {
		t.Fatalf("DependencyOrder failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := DependencyOrder(RelationSchema)
		if err != nil {
			t.Fatalf("DependencyOrder failed on run %d: %v", i, err)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("order changed between runs: %v vs %v", first, again)
			}
		}
	}
}

func TestDependencyOrderTargetsPrecedeDependents(t *testing.T) {
	order, err := DependencyOrder(RelationSchema)
	if err != nil {
		t.Fatalf("DependencyOrder failed: %v", err)
	}

	position := make(map[EntityType]int)
	for i, typ := range order {
		position[typ] = i
	}

	for typ, fields := range RelationSchema {
		for _, f := range fields {
			if f.Target == typ {
				continue
			}
			if position[f.Target] >= position[typ] {
				t.Errorf("%s depends on %s but is ordered first", typ, f.Target)
			}
		}
	}
}

func TestDependencyOrderDetectsCycle(t *testing.T) {
	cyclic := map[EntityType][]RelationField{
		Company: {{Name: "mainContact", Target: Contact}},
		Contact: {{Name: "company", Target: Company}},
	}

	_, err := DependencyOrder(cyclic)
	if err == nil {
		t.Fatal("expected cycle error, got nil")
	}
}

func TestDependencyOrderAllowsSelfReference(t *testing.T) {
	withSelf := map[EntityType][]RelationField{
		Company: {{Name: "parentCompany", Target: Company}},
	}

	order, err := DependencyOrder(withSelf)
	if err != nil {
		t.Fatalf("self-reference should not count as a cycle: %v", err)
	}
	if len(order) != 1 || order[0] != Company {
		t.Errorf("unexpected order: %v", order)
	}
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input   string
		want    Environment
		wantErr bool
	}{
		{"production", Production, false},
		{"sandbox", Sandbox, false},
		{"staging", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEnvironment(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseEnvironment(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEnvironment(%q) failed: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseEnvironment(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWritable(t *testing.T) {
	if Production.Writable() {
		t.Error("production must never be writable")
	}
	if !Sandbox.Writable() {
		t.Error("sandbox must be writable")
	}
}
