// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package compose

import (
	"fmt"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/codec"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/digest"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/trait"
)

// IDPrefix starts every derived composed object ID.
const IDPrefix = "composed-"

type traitIdentity struct {
	Name    string `cbor:"name"`
	Version string `cbor:"version"`
}

// DeriveID returns the default ID for a composition of traits in the
// given application order: IDPrefix followed by the short identity
// digest of the (name, version) list.
func DeriveID(traits []*trait.Definition) (string, error) {
	identities := make([]traitIdentity, len(traits))
	for index, definition := range traits {
		identities[index] = traitIdentity{Name: definition.Name, Version: definition.Version}
	}
	data, err := codec.Marshal(identities)
	if err != nil {
		return "", fmt.Errorf("encoding trait identities: %w", err)
	}
	return IDPrefix + digest.Sum(digest.IdentityDomain, data).Short(), nil
}

// Encode returns the deterministic CBOR encoding of the object. Two
// compositions of the same ordered inputs encode to identical bytes.
func Encode(object *Object) ([]byte, error) {
	data, err := codec.Marshal(object)
	if err != nil {
		return nil, fmt.Errorf("encoding composed object %q: %w", object.ID, err)
	}
	return data, nil
}

// Decode reverses [Encode].
func Decode(data []byte) (*Object, error) {
	var object Object
	if err := codec.Unmarshal(data, &object); err != nil {
		return nil, fmt.Errorf("decoding composed object: %w", err)
	}
	return &object, nil
}

// Fingerprint hashes the object's deterministic encoding in the
// composed-object domain.
func Fingerprint(object *Object) (digest.Hash, error) {
	data, err := Encode(object)
	if err != nil {
		return digest.Hash{}, err
	}
	return FingerprintEncoded(data), nil
}

// FingerprintEncoded hashes an already encoded object.
func FingerprintEncoded(data []byte) digest.Hash {
	return digest.Sum(digest.ComposedDomain, data)
}
