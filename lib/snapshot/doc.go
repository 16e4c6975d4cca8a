// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot stores composed objects as self-describing files
// so renderers and code generators can consume a composition without
// re-running it.
//
// A snapshot is a fixed header followed by the payload:
//
//	offset  size  field
//	0       4     magic "TRSN"
//	4       1     format version (1)
//	5       1     compression tag (0 none, 1 lz4, 2 zstd)
//	6       32    fingerprint: composed-domain BLAKE3 of the CBOR payload
//	38      8     uncompressed payload length, big endian
//	46      8     stored payload length, big endian
//	54      ...   payload
//
// The payload is the composed object's Core Deterministic CBOR
// encoding, so the stored fingerprint equals [compose.Fingerprint] of
// the object. [Read] verifies it after decompression. When
// compression would not shrink the payload it is stored uncompressed
// and the header says so.
package snapshot
