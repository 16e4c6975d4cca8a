// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package traitgraph

import (
	"errors"
	"slices"
	"testing"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/trait"
)

func def(name string, dependencies ...string) *trait.Definition {
	return &trait.Definition{Name: name, Version: "1.0.0", Dependencies: dependencies}
}

func TestTopologicalOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		traits []*trait.Definition
		want   []string
	}{
		{
			name:   "independent traits keep input order",
			traits: []*trait.Definition{def("A"), def("B"), def("C")},
			want:   []string{"A", "B", "C"},
		},
		{
			name:   "dependency moves ahead of dependent",
			traits: []*trait.Definition{def("Stateful", "Timestamped"), def("Timestamped")},
			want:   []string{"Timestamped", "Stateful"},
		},
		{
			name: "ties broken by declaration index",
			traits: []*trait.Definition{
				def("D", "A"),
				def("C"),
				def("A"),
				def("B", "A"),
			},
			want: []string{"C", "A", "D", "B"},
		},
		{
			name:   "missing dependency does not constrain order",
			traits: []*trait.Definition{def("A", "Ghost"), def("B")},
			want:   []string{"A", "B"},
		},
		{
			name:   "diamond",
			traits: []*trait.Definition{def("Top", "Left", "Right"), def("Right", "Base"), def("Left", "Base"), def("Base")},
			want:   []string{"Base", "Right", "Left", "Top"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			graph, err := Build(test.traits)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			got, err := graph.TopologicalOrder()
			if err != nil {
				t.Fatalf("TopologicalOrder: %v", err)
			}
			if !slices.Equal(got, test.want) {
				t.Errorf("order = %v, want %v", got, test.want)
			}
		})
	}
}

func TestTopologicalOrderIsStableAcrossRuns(t *testing.T) {
	t.Parallel()

	traits := []*trait.Definition{def("E", "B"), def("D"), def("C", "D"), def("B"), def("A", "C")}
	graph, err := Build(traits)
	if err != nil {
		t.Fatal(err)
	}
	first, err := graph.TopologicalOrder()
	if err != nil {
		t.Fatal(err)
	}
	for range 50 {
		again, err := graph.TopologicalOrder()
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(first, again) {
			t.Fatalf("order changed: %v then %v", first, again)
		}
	}
}

func TestCycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		traits []*trait.Definition
		want   []string
	}{
		{
			name:   "two node cycle",
			traits: []*trait.Definition{def("A", "B"), def("B", "A")},
			want:   []string{"A", "B", "A"},
		},
		{
			name:   "three node cycle behind an acyclic prefix",
			traits: []*trait.Definition{def("Root"), def("A", "B"), def("B", "C"), def("C", "A", "Root")},
			want:   []string{"A", "B", "C", "A"},
		},
		{
			name:   "self dependency",
			traits: []*trait.Definition{def("A"), def("Loop", "Loop")},
			want:   []string{"Loop", "Loop"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			graph, err := Build(test.traits)
			if err != nil {
				t.Fatal(err)
			}
			_, err = graph.TopologicalOrder()
			if !errors.Is(err, ErrCycle) {
				t.Fatalf("error = %v, want ErrCycle", err)
			}
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("error %T is not *CycleError", err)
			}
			if !slices.Equal(cycleErr.Path, test.want) {
				t.Errorf("Path = %v, want %v", cycleErr.Path, test.want)
			}
			if !slices.Equal(graph.Cycle(), test.want) {
				t.Errorf("Cycle() = %v, want %v", graph.Cycle(), test.want)
			}
		})
	}
}

func TestCycleErrorMessage(t *testing.T) {
	t.Parallel()

	err := &CycleError{Path: []string{"A", "B", "A"}}
	if got, want := err.Error(), "circular trait dependency: A -> B -> A"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAcyclicGraphHasNoCycle(t *testing.T) {
	t.Parallel()

	graph, err := Build([]*trait.Definition{def("A"), def("B", "A")})
	if err != nil {
		t.Fatal(err)
	}
	if cycle := graph.Cycle(); cycle != nil {
		t.Errorf("Cycle() = %v, want nil", cycle)
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	if _, err := Build([]*trait.Definition{def("A"), def("A")}); !errors.Is(err, ErrDuplicateTrait) {
		t.Errorf("duplicate: err = %v, want ErrDuplicateTrait", err)
	}
	if _, err := Build([]*trait.Definition{def("")}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty: err = %v, want ErrEmptyName", err)
	}
	if _, err := Build([]*trait.Definition{nil}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("nil: err = %v, want ErrEmptyName", err)
	}
	graph, err := Build(nil)
	if err != nil || graph.Len() != 0 {
		t.Errorf("empty input: graph=%v err=%v", graph, err)
	}
}

func TestMissingDependencies(t *testing.T) {
	t.Parallel()

	graph, err := Build([]*trait.Definition{
		def("A", "Ghost", "B", "Ghost"),
		def("B"),
		def("C", "Phantom"),
	})
	if err != nil {
		t.Fatal(err)
	}
	got := graph.MissingDependencies(graph.Names())
	want := []Dependency{{"A", "Ghost"}, {"C", "Phantom"}}
	if !slices.Equal(got, want) {
		t.Errorf("missing = %v, want %v", got, want)
	}

	got = graph.MissingDependencies([]string{"A", "C"})
	want = []Dependency{{"A", "Ghost"}, {"A", "B"}, {"C", "Phantom"}}
	if !slices.Equal(got, want) {
		t.Errorf("missing with B absent = %v, want %v", got, want)
	}
}

func TestActiveConflicts(t *testing.T) {
	t.Parallel()

	traits := []*trait.Definition{
		{Name: "Archivable", Conflicts: []string{"Deletable"}},
		{Name: "Stateful"},
		{Name: "Deletable", Conflicts: []string{"Archivable", "Immutable"}},
		{Name: "Immutable", Conflicts: []string{"Immutable"}},
	}
	graph, err := Build(traits)
	if err != nil {
		t.Fatal(err)
	}

	got := graph.ActiveConflicts(graph.Names())
	want := []ConflictPair{{"Archivable", "Deletable"}, {"Deletable", "Immutable"}}
	if !slices.Equal(got, want) {
		t.Errorf("conflicts = %v, want %v", got, want)
	}

	got = graph.ActiveConflicts([]string{"Archivable", "Stateful"})
	if len(got) != 0 {
		t.Errorf("conflicts with Deletable absent = %v, want none", got)
	}
}

func TestNodesDeduplicateDeclarations(t *testing.T) {
	t.Parallel()

	graph, err := Build([]*trait.Definition{def("A", "B", "B"), def("B")})
	if err != nil {
		t.Fatal(err)
	}
	node, ok := graph.Node("A")
	if !ok {
		t.Fatal("node A missing")
	}
	if !slices.Equal(node.Dependencies, []string{"B"}) {
		t.Errorf("Dependencies = %v, want [B]", node.Dependencies)
	}
	if _, ok := graph.Node("Ghost"); ok {
		t.Error("Node(Ghost) reported present")
	}
}
