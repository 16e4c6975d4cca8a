// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package traitschema adapts JSON Schema validation to the trait
// issue taxonomy.
//
// A [Schema] is the JSON-Schema-shaped tree trait files use for
// parameter blocks and that the trait package uses for its document
// grammar. [Compile] renders it as a draft 2020-12 document and
// compiles it with santhosh-tekuri/jsonschema; [Compiled.Check]
// translates the validator's error kinds into raw
// [issue.SchemaFailure] values, which callers map into the TE-XXYY
// taxonomy with [issue.FormatSchemaFailure]. Failures are ordered by
// instance location so the list is deterministic.
//
// [Refinement] functions add cross-field rules that a declarative
// schema cannot express (e.g. "initialState must be one of states").
// They run only after the declarative check passes.
package traitschema
