// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes domain-separated BLAKE3 hashes for the trait
// engine: composed object fingerprints, deterministic composed object
// IDs, and snapshot payload checksums.
//
// Each use has its own 32-byte domain key so the same bytes hash
// differently in different roles. Inputs are expected to be CBOR Core
// Deterministic Encoding output from lib/codec, which makes every
// digest reproducible across runs and machines.
package digest
