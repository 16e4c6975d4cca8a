// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package compose merges an ordered list of trait definitions into one
// composed object and validates the result.
//
// [Compose] orders the traits with lib/traitgraph, then merges them
// section by section in that order:
//
//   - schema: per field. When two traits define a field differently,
//     a [Collision] is recorded. A strictly stricter definition wins
//     ([ResolutionStricterType]); otherwise a compatible redefinition
//     goes to the later trait ([ResolutionDeclarationOrder]);
//     otherwise the later definition is kept and the collision is
//     [ResolutionUnresolved].
//   - semantics: per field, same policy. A definition that adds a
//     token mapping to the same semantic type is the stricter one.
//   - tokens: per namespace. Nested maps merge key by key with the
//     later trait winning; a map against a scalar is unresolved.
//   - view extensions: per context and placement key. A redefined
//     placement is replaced in place; new placements append.
//   - actions: ordered union.
//   - state machine: the first-applied trait's machine is kept. Every
//     trait that declared one is listed in [Metadata] so [Validate]
//     can report the ownership conflict.
//
// Identical redefinitions are not collisions. Merge conflicts never
// fail composition; only a graph that cannot be ordered (a cycle, a
// duplicate or empty trait name) does.
//
// [Validate] runs the composition checks (TE-0301, TE-0303, TE-0305,
// TE-0306, TE-0307, TE-0308, and with [ValidateOptions.GraphChecks]
// TE-0302 and TE-0304) concurrently and returns the union of findings
// in deterministic order.
//
// Every call owns its graph, object and issue slice. Nothing here
// touches package-level mutable state.
package compose
