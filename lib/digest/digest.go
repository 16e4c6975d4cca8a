// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest.
type Hash [32]byte

// Domain is a 32-byte key for BLAKE3 keyed hashing.
type Domain [32]byte

// Domain keys are fixed constants. Changing one invalidates every
// stored digest in that domain. The bytes are the ASCII domain name,
// zero-padded to 32 bytes, so they stay readable in hex dumps.
var (
	// ComposedDomain hashes the CBOR encoding of a composed object.
	ComposedDomain = Domain{
		'o', 'o', 'd', 's', '.', 't', 'r', 'a', 'i', 't', '.',
		'c', 'o', 'm', 'p', 'o', 's', 'e', 'd', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	// IdentityDomain hashes the ordered (name, version) list that
	// derives a composed object's default ID.
	IdentityDomain = Domain{
		'o', 'o', 'd', 's', '.', 't', 'r', 'a', 'i', 't', '.',
		'i', 'd', 'e', 'n', 't', 'i', 't', 'y', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	// SnapshotDomain hashes snapshot payload bytes as stored on disk.
	SnapshotDomain = Domain{
		'o', 'o', 'd', 's', '.', 't', 'r', 'a', 'i', 't', '.',
		's', 'n', 'a', 'p', 's', 'h', 'o', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// Sum computes the keyed BLAKE3 hash of data in domain.
func Sum(domain Domain, data []byte) Hash {
	// NewKeyed only fails for a key that is not 32 bytes, which the
	// Domain type rules out.
	hasher, err := blake3.NewKeyed(domain[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}

// String returns the hex form of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first 16 hex characters, used in composed object
// IDs and log lines.
func (h Hash) Short() string {
	return hex.EncodeToString(h[:8])
}

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// MarshalText encodes the hash as hex.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes a hex hash.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Parse parses a 64-character hex string.
func Parse(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != len(hash) {
		return hash, fmt.Errorf("digest is %d bytes, want %d", len(decoded), len(hash))
	}
	copy(hash[:], decoded)
	return hash, nil
}
