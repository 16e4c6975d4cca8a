// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package trait defines trait definitions: reusable, independently
// authored fragments that each contribute schema fields, semantic
// metadata, token references, view placements, an optional state
// machine, actions, and declared dependencies and conflicts.
//
// A [Definition] is treated as immutable once loaded. Code that needs
// to hold onto a definition past the caller's control takes a
// [Definition.Clone].
//
// [ValidateStructure] checks a raw decoded trait document (the
// map[string]any produced by a YAML, JSON or CBOR decoder) against
// the trait definition grammar and reports TE-01XX issues. [Parse]
// runs the structure check and, when it passes, decodes the document
// into a Definition.
//
// Depends on lib/issue and lib/traitschema.
package trait
