// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the trait engine's standard CBOR encoding
// configuration.
//
// Two serialization formats have a clear boundary:
//
//   - JSON (and YAML) for external interfaces: trait files, the
//     traitc --json output, and anything a person reads.
//   - CBOR for byte-exact artifacts: composed object fingerprints,
//     deterministic object IDs, and snapshot payloads.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. The same composed object always produces identical bytes,
// which is what makes fingerprints comparable across runs and
// machines.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types shared with JSON output carry only `json` tags;
// fxamacker/cbor v2 reads them when `cbor` tags are absent, so one tag
// controls field naming for both formats. Enumerations implement
// encoding.TextMarshaler and serialize as their stable strings.
package codec
