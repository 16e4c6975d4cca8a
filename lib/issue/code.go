// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package issue

import (
	"fmt"
	"strings"
)

// Code is one entry of the TE-XXYY error taxonomy. The zero value is
// not a registered code; [Code.Valid] reports whether a value is one
// of the 18 registered constants.
//
// The first two digits after "TE-" select the domain (01 structure,
// 02 parameters, 03 composition, 04 runtime). Code strings are a
// persisted, versioned contract: downstream tooling matches on them,
// so existing entries are never renumbered.
type Code uint8

const (
	// CodeInvalidTraitSchema (TE-0101): the trait's own parameter
	// schema is missing or malformed.
	CodeInvalidTraitSchema Code = iota + 1

	// CodeMissingRequiredField (TE-0102): a required top-level field
	// is absent from a trait definition.
	CodeMissingRequiredField

	// CodeInvalidFieldType (TE-0103): a trait definition field is
	// present with the wrong type or shape.
	CodeInvalidFieldType

	// CodeNoTraitFiles (TE-0104): no trait files could be resolved.
	CodeNoTraitFiles

	// CodeParameterTypeMismatch (TE-0201): a parameter value has the
	// wrong type.
	CodeParameterTypeMismatch

	// CodeParameterRequired (TE-0202): a required parameter was
	// omitted.
	CodeParameterRequired

	// CodeParameterOutOfRange (TE-0203): a parameter value violates a
	// range, length, enumeration or uniqueness constraint.
	CodeParameterOutOfRange

	// CodeParameterUnknown (TE-0204): a parameter is not declared by
	// the trait and the schema is closed.
	CodeParameterUnknown

	// CodePropertyCollision (TE-0301): two traits define the same
	// field. The compositor already picked a winner.
	CodePropertyCollision

	// CodeCircularDependency (TE-0302): trait dependencies form a
	// cycle.
	CodeCircularDependency

	// CodeMissingDependency (TE-0303): a declared dependency is absent
	// from the composed set.
	CodeMissingDependency

	// CodeIncompatibleTraits (TE-0304): two traits that declare a
	// conflict were composed together.
	CodeIncompatibleTraits

	// CodeStateOwnershipConflict (TE-0305): more than one trait
	// defines a state machine.
	CodeStateOwnershipConflict

	// CodeTokenMappingMissing (TE-0306): a semantic token mapping
	// references a token namespace that is not composed.
	CodeTokenMappingMissing

	// CodeViewExtensionInvalid (TE-0307): a view extension targets an
	// unsupported context or is malformed.
	CodeViewExtensionInvalid

	// CodeSemanticMappingIncomplete (TE-0308): a semantic entry names
	// a field that is not in the composed schema.
	CodeSemanticMappingIncomplete

	// CodeInvalidStateTransition (TE-0401): a runtime transition is not
	// declared by the state machine. Reserved for runtime use.
	CodeInvalidStateTransition

	// CodeUndefinedState (TE-0402): a runtime state is not declared by
	// the state machine. Reserved for runtime use.
	CodeUndefinedState

	codeSentinel
)

// codeInfo is the fixed registry entry for a Code.
type codeInfo struct {
	id       string
	name     string
	domain   Domain
	severity Severity
	fixHint  string
}

// codeTable is indexed by Code. Index 0 is the unregistered zero
// value. The table is never written after initialization.
var codeTable = [codeSentinel]codeInfo{
	CodeInvalidTraitSchema: {
		id: "TE-0101", name: "INVALID_TRAIT_SCHEMA", domain: DomainStructure, severity: SeverityError,
		fixHint: "Declare a valid 'parameters' schema on the trait definition",
	},
	CodeMissingRequiredField: {
		id: "TE-0102", name: "MISSING_REQUIRED_FIELD", domain: DomainStructure, severity: SeverityError,
		fixHint: "Add the missing field to the trait definition",
	},
	CodeInvalidFieldType: {
		id: "TE-0103", name: "INVALID_FIELD_TYPE", domain: DomainStructure, severity: SeverityError,
		fixHint: "Correct the field so it matches the trait definition format",
	},
	CodeNoTraitFiles: {
		id: "TE-0104", name: "NO_TRAIT_FILES", domain: DomainStructure, severity: SeverityError,
		fixHint: "Point the loader at a directory containing .yaml, .yml, .json or .jsonc trait files",
	},
	CodeParameterTypeMismatch: {
		id: "TE-0201", name: "PARAMETER_TYPE_MISMATCH", domain: DomainParameters, severity: SeverityError,
		fixHint: "Change the parameter to the type the trait declares",
	},
	CodeParameterRequired: {
		id: "TE-0202", name: "PARAMETER_REQUIRED", domain: DomainParameters, severity: SeverityError,
		fixHint: "Add the required parameter",
	},
	CodeParameterOutOfRange: {
		id: "TE-0203", name: "PARAMETER_OUT_OF_RANGE", domain: DomainParameters, severity: SeverityError,
		fixHint: "Adjust the parameter to satisfy the declared constraint",
	},
	CodeParameterUnknown: {
		id: "TE-0204", name: "PARAMETER_UNKNOWN", domain: DomainParameters, severity: SeverityError,
		fixHint: "Remove the parameter or declare it in the trait's parameter schema",
	},
	CodePropertyCollision: {
		id: "TE-0301", name: "PROPERTY_COLLISION", domain: DomainComposition, severity: SeverityWarning,
		fixHint: "Rename one of the fields or align the definitions so one refines the other",
	},
	CodeCircularDependency: {
		id: "TE-0302", name: "CIRCULAR_DEPENDENCY", domain: DomainComposition, severity: SeverityError,
		fixHint: "Remove one dependency from the cycle",
	},
	CodeMissingDependency: {
		id: "TE-0303", name: "MISSING_DEPENDENCY", domain: DomainComposition, severity: SeverityError,
		fixHint: "Add the required trait to the composition",
	},
	CodeIncompatibleTraits: {
		id: "TE-0304", name: "INCOMPATIBLE_TRAITS", domain: DomainComposition, severity: SeverityError,
		fixHint: "Remove one of the conflicting traits from the composition",
	},
	CodeStateOwnershipConflict: {
		id: "TE-0305", name: "STATE_OWNERSHIP_CONFLICT", domain: DomainComposition, severity: SeverityError,
		fixHint: "Keep the state machine on exactly one trait",
	},
	CodeTokenMappingMissing: {
		id: "TE-0306", name: "TOKEN_MAPPING_MISSING", domain: DomainComposition, severity: SeverityError,
		fixHint: "Add the token namespace to a composed trait's tokens or fix the mapping",
	},
	CodeViewExtensionInvalid: {
		id: "TE-0307", name: "VIEW_EXTENSION_INVALID", domain: DomainComposition, severity: SeverityError,
		fixHint: "Use a supported view context",
	},
	CodeSemanticMappingIncomplete: {
		id: "TE-0308", name: "SEMANTIC_MAPPING_INCOMPLETE", domain: DomainComposition, severity: SeverityError,
		fixHint: "Add the field to the schema or remove the semantic entry",
	},
	CodeInvalidStateTransition: {
		id: "TE-0401", name: "INVALID_STATE_TRANSITION", domain: DomainRuntime, severity: SeverityError,
		fixHint: "Use a transition declared by the state machine",
	},
	CodeUndefinedState: {
		id: "TE-0402", name: "UNDEFINED_STATE", domain: DomainRuntime, severity: SeverityError,
		fixHint: "Use a state declared by the state machine",
	},
}

// Registry returns every registered code in taxonomy order. The
// returned slice is a fresh copy.
func Registry() []Code {
	codes := make([]Code, 0, len(codeTable)-1)
	for code := CodeInvalidTraitSchema; code < codeSentinel; code++ {
		codes = append(codes, code)
	}
	return codes
}

// Valid reports whether c is one of the registered codes.
func (c Code) Valid() bool {
	return c > 0 && c < codeSentinel
}

// String returns the "TE-XXYY" form, or "TE-????" for an
// unregistered value.
func (c Code) String() string {
	if !c.Valid() {
		return "TE-????"
	}
	return codeTable[c].id
}

// Name returns the symbolic name, e.g. "MISSING_DEPENDENCY".
func (c Code) Name() string {
	if !c.Valid() {
		return ""
	}
	return codeTable[c].name
}

// Domain returns the domain the code belongs to.
func (c Code) Domain() Domain {
	if !c.Valid() {
		return ""
	}
	return codeTable[c].domain
}

// DefaultSeverity returns the severity an issue with this code carries
// unless the producer overrides it.
func (c Code) DefaultSeverity() Severity {
	if !c.Valid() {
		return SeverityError
	}
	return codeTable[c].severity
}

// DefaultFixHint returns the generic remediation hint for the code.
func (c Code) DefaultFixHint() string {
	if !c.Valid() {
		return ""
	}
	return codeTable[c].fixHint
}

// MarshalText encodes the code as its "TE-XXYY" string.
func (c Code) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("issue: cannot marshal unregistered code %d", uint8(c))
	}
	return []byte(codeTable[c].id), nil
}

// UnmarshalText decodes a "TE-XXYY" string.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := ParseCode(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCode resolves either the "TE-XXYY" identifier or the symbolic
// name to a registered code.
func ParseCode(value string) (Code, error) {
	trimmed := strings.TrimSpace(value)
	for code := CodeInvalidTraitSchema; code < codeSentinel; code++ {
		if codeTable[code].id == trimmed || codeTable[code].name == trimmed {
			return code, nil
		}
	}
	return 0, fmt.Errorf("issue: unknown code %q", value)
}
