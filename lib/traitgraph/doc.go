// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package traitgraph builds the dependency graph of a trait set and
// derives a deterministic application order from it.
//
// [Build] keys nodes by trait name; a duplicate or empty name is a
// hard error because the graph could not tell the traits apart.
// [Graph.TopologicalOrder] is a stable topological sort: Kahn's
// algorithm with a min-heap ready queue keyed by declaration index,
// so traits with no dependency relationship keep their input order.
// When the dependencies form a cycle it returns a [*CycleError]
// carrying one deterministic witness path found by depth-first
// search.
//
// [Graph.MissingDependencies] and [Graph.ActiveConflicts] report
// structured results and never fail; the composition validator maps
// them into issues.
//
// A Graph is built per composition request and never shared, so it
// needs no locking.
package traitgraph
