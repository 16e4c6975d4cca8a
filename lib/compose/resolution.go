// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package compose

import "fmt"

// Resolution is how a collision was settled.
type Resolution uint8

const (
	// ResolutionStricterType: one definition strictly refines the
	// other and wins regardless of application order.
	ResolutionStricterType Resolution = iota + 1

	// ResolutionDeclarationOrder: the definitions are compatible but
	// neither refines the other; the later-applied trait wins.
	ResolutionDeclarationOrder

	// ResolutionUnresolved: the definitions contradict each other. The
	// later definition is kept so composition can finish, and the
	// collision is always reported as an error.
	ResolutionUnresolved
)

var resolutionNames = map[Resolution]string{
	ResolutionStricterType:     "stricter_type",
	ResolutionDeclarationOrder: "declaration_order",
	ResolutionUnresolved:       "unresolved",
}

func (r Resolution) String() string {
	if name, ok := resolutionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Resolution(%d)", uint8(r))
}

// MarshalText encodes the resolution as its snake_case name.
func (r Resolution) MarshalText() ([]byte, error) {
	name, ok := resolutionNames[r]
	if !ok {
		return nil, fmt.Errorf("unknown resolution %d", uint8(r))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a snake_case resolution name.
func (r *Resolution) UnmarshalText(text []byte) error {
	for value, name := range resolutionNames {
		if name == string(text) {
			*r = value
			return nil
		}
	}
	return fmt.Errorf("unknown resolution %q", text)
}

// Section names the part of the composed object a collision is in.
type Section string

const (
	SectionSchema         Section = "schema"
	SectionSemantics      Section = "semantics"
	SectionTokens         Section = "tokens"
	SectionViewExtensions Section = "view_extensions"
)
