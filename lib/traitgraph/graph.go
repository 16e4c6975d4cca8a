// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package traitgraph

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/trait"
)

var (
	// ErrCycle is wrapped by every [*CycleError].
	ErrCycle = errors.New("circular trait dependency")

	// ErrDuplicateTrait is returned by [Build] when two traits share a
	// name.
	ErrDuplicateTrait = errors.New("duplicate trait name")

	// ErrEmptyName is returned by [Build] for a trait with no name.
	ErrEmptyName = errors.New("trait has no name")
)

// CycleError reports a dependency cycle. Path starts and ends with the
// same trait and follows "depends on" edges: [A B A] means A depends
// on B and B depends on A.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Node is one trait in the graph.
type Node struct {
	Name string

	// Index is the trait's position in the input list.
	Index int

	// Dependencies and Conflicts are the declared names, deduplicated,
	// in declaration order.
	Dependencies []string
	Conflicts    []string
}

// Dependency is one unmet dependency: Trait requires a trait named
// Requires that is not present.
type Dependency struct {
	Trait    string `json:"trait"`
	Requires string `json:"requires"`
}

// ConflictPair is two present traits where at least one declares a
// conflict with the other. A is the earlier-declared trait.
type ConflictPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Graph is the dependency graph of one trait set.
type Graph struct {
	nodes []Node
	index map[string]int

	// requires[i] holds the indices of i's dependencies that are
	// present in the graph, sorted. dependents is the reverse edge
	// set, also sorted.
	requires   [][]int
	dependents [][]int
}

// Build creates the graph for traits in input order.
func Build(traits []*trait.Definition) (*Graph, error) {
	graph := &Graph{
		nodes: make([]Node, 0, len(traits)),
		index: make(map[string]int, len(traits)),
	}
	for position, definition := range traits {
		if definition == nil || definition.Name == "" {
			return nil, fmt.Errorf("trait at position %d: %w", position, ErrEmptyName)
		}
		if previous, exists := graph.index[definition.Name]; exists {
			return nil, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateTrait, definition.Name, previous, position)
		}
		graph.index[definition.Name] = position
		graph.nodes = append(graph.nodes, Node{
			Name:         definition.Name,
			Index:        position,
			Dependencies: dedupe(definition.Dependencies),
			Conflicts:    dedupe(definition.Conflicts),
		})
	}

	graph.requires = make([][]int, len(graph.nodes))
	graph.dependents = make([][]int, len(graph.nodes))
	for position, node := range graph.nodes {
		for _, name := range node.Dependencies {
			target, ok := graph.index[name]
			if !ok {
				continue
			}
			graph.requires[position] = append(graph.requires[position], target)
			graph.dependents[target] = append(graph.dependents[target], position)
		}
	}
	for position := range graph.nodes {
		sort.Ints(graph.requires[position])
		sort.Ints(graph.dependents[position])
	}
	return graph, nil
}

// Len returns the number of traits in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns the nodes in declaration order.
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

// Node returns the node for name.
func (g *Graph) Node(name string) (Node, bool) {
	position, ok := g.index[name]
	if !ok {
		return Node{}, false
	}
	return g.nodes[position], true
}

// Names returns the trait names in declaration order.
func (g *Graph) Names() []string {
	names := make([]string, len(g.nodes))
	for position, node := range g.nodes {
		names[position] = node.Name
	}
	return names
}

// TopologicalOrder returns trait names so that every trait comes after
// the present traits it depends on. Ties are broken by declaration
// order. Dependencies on absent traits do not constrain the order.
func (g *Graph) TopologicalOrder() ([]string, error) {
	order := g.orderIndices()
	if len(order) != len(g.nodes) {
		return nil, &CycleError{Path: g.findCycle()}
	}
	names := make([]string, len(order))
	for position, index := range order {
		names[position] = g.nodes[index].Name
	}
	return names, nil
}

// Cycle returns a witness path when the graph has a dependency cycle,
// or nil.
func (g *Graph) Cycle() []string {
	if len(g.orderIndices()) == len(g.nodes) {
		return nil
	}
	return g.findCycle()
}

// MissingDependencies returns every dependency whose target is not in
// present, in declaration order of the depending trait and then of
// the dependency.
func (g *Graph) MissingDependencies(present []string) []Dependency {
	available := toSet(present)
	var missing []Dependency
	for _, node := range g.nodes {
		for _, name := range node.Dependencies {
			if !available[name] {
				missing = append(missing, Dependency{Trait: node.Name, Requires: name})
			}
		}
	}
	return missing
}

// ActiveConflicts returns each pair of present traits where one
// declares a conflict with the other. A pair declared from both sides
// is reported once. Pairs are ordered by the first trait's declaration
// index.
func (g *Graph) ActiveConflicts(present []string) []ConflictPair {
	available := toSet(present)
	seen := make(map[ConflictPair]bool)
	var pairs []ConflictPair
	for _, node := range g.nodes {
		if !available[node.Name] {
			continue
		}
		for _, name := range node.Conflicts {
			if name == node.Name || !available[name] {
				continue
			}
			pair := ConflictPair{A: node.Name, B: name}
			if other, ok := g.index[name]; ok && other < node.Index {
				pair = ConflictPair{A: name, B: node.Name}
			}
			if seen[pair] {
				continue
			}
			seen[pair] = true
			pairs = append(pairs, pair)
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return g.rank(pairs[a].A) < g.rank(pairs[b].A)
	})
	return pairs
}

func (g *Graph) rank(name string) int {
	if position, ok := g.index[name]; ok {
		return position
	}
	return len(g.nodes)
}

type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// orderIndices runs Kahn's algorithm. The ready queue is a min-heap by
// declaration index. A result shorter than the node count means a
// cycle.
func (g *Graph) orderIndices() []int {
	indegree := make([]int, len(g.nodes))
	for position := range g.nodes {
		indegree[position] = len(g.requires[position])
	}

	ready := &indexHeap{}
	for position, degree := range indegree {
		if degree == 0 {
			heap.Push(ready, position)
		}
	}

	order := make([]int, 0, len(g.nodes))
	for ready.Len() > 0 {
		current := heap.Pop(ready).(int)
		order = append(order, current)
		for _, dependent := range g.dependents[current] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				heap.Push(ready, dependent)
			}
		}
	}
	return order
}

// findCycle walks "depends on" edges depth-first in index order and
// returns the first back edge's cycle.
func (g *Graph) findCycle() []string {
	const (
		unvisited = iota
		onStack
		done
	)

	state := make([]int, len(g.nodes))
	parent := make([]int, len(g.nodes))
	for position := range parent {
		parent[position] = -1
	}

	var cycle []int
	var visit func(current int) bool
	visit = func(current int) bool {
		state[current] = onStack
		for _, next := range g.requires[current] {
			switch state[next] {
			case unvisited:
				parent[next] = current
				if visit(next) {
					return true
				}
			case onStack:
				// Back edge current -> next: next ... current -> next.
				cycle = append(cycle, next)
				for walk := current; walk != -1 && walk != next; walk = parent[walk] {
					cycle = append(cycle, walk)
				}
				cycle = append(cycle, next)
				return true
			}
		}
		state[current] = done
		return false
	}

	for position := range g.nodes {
		if state[position] == unvisited && visit(position) {
			break
		}
	}

	path := make([]string, 0, len(cycle))
	for position := len(cycle) - 1; position >= 0; position-- {
		path = append(path, g.nodes[cycle[position]].Name)
	}
	return path
}

func dedupe(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
