// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package params validates the configuration object used to
// instantiate a trait, independently of composition.
//
// A [Validator] holds one parameter schema per trait name, taken from
// each definition's Parameters block or registered directly with
// [Validator.Register], plus optional refinements for cross-field
// rules. [Validator.Validate] checks the declarative schema first and
// runs refinements only when it passes, then maps every failure into
// the TE-01XX/TE-02XX taxonomy through [issue.FormatSchemaFailure].
//
// Unknown parameters are rejected (TE-0204) unless [Options.Open] is
// set. A trait with no registered schema, or a malformed one, is
// reported as TE-0101.
//
// A Validator is safe for concurrent use once constructed; Register
// must not race with Validate.
package params
