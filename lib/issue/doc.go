// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package issue defines the diagnostic vocabulary shared by every
// validator in the trait engine.
//
// An [Issue] is a pure value: a [Code] from the closed TE-XXYY
// taxonomy, a message, a [Severity], the [Domain] the code belongs
// to, a [Location], a human-actionable fix hint, and the [Source]
// that produced it. The structure, parameter and composition
// validators all report through this one shape so downstream tooling
// can match on the code string alone.
//
// The taxonomy is a fixed table built at package scope. [Registry]
// returns its 18 codes in order; nothing can add to it at runtime.
// Codes serialize as their "TE-0303" form in both JSON and CBOR.
//
// [FormatSchemaFailure] is the seam between declarative schema
// checking (lib/traitschema) and the taxonomy: it turns a raw
// [SchemaFailure] into an Issue with the right code, severity and
// fix hint.
//
// This package depends on no other trait engine packages.
package issue
