// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package trait

import (
	"fmt"
	"sort"

	"github.com/tiendc/go-deepcopy"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitschema"
)

// Definition is one parsed trait. Field names in the JSON form are
// the snake_case keys used by trait files.
type Definition struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`

	// Schema maps field name to its definition.
	Schema map[string]FieldSchema `json:"schema"`

	// Semantics maps field name to semantic metadata. Every key
	// should name a field in the composed schema.
	Semantics map[string]SemanticEntry `json:"semantics,omitempty"`

	// Tokens maps a token namespace to its (usually nested) values.
	Tokens map[string]any `json:"tokens,omitempty"`

	// ViewExtensions maps a rendering context ("list", "detail", ...)
	// to the placements this trait contributes there.
	ViewExtensions map[string][]Placement `json:"view_extensions,omitempty"`

	Dependencies []string      `json:"dependencies,omitempty"`
	Conflicts    []string      `json:"conflicts,omitempty"`
	StateMachine *StateMachine `json:"state_machine,omitempty"`
	Actions      []string      `json:"actions,omitempty"`

	// Parameters is the schema for the configuration object used to
	// instantiate the trait. Nil when the trait takes no parameters.
	Parameters *traitschema.Schema `json:"parameters,omitempty"`
}

// FieldSchema is one schema field contributed by a trait.
type FieldSchema struct {
	Type        string      `json:"type"`
	Required    bool        `json:"required,omitempty"`
	Description string      `json:"description,omitempty"`
	Constraints Constraints `json:"constraints,omitempty"`
}

// Constraints narrow a field's type. The zero value adds nothing.
type Constraints struct {
	Enum      []string `json:"enum,omitempty"`
	Format    string   `json:"format,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinLength *int     `json:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
}

// IsZero reports whether no constraint is set.
func (c Constraints) IsZero() bool {
	return len(c.Enum) == 0 && c.Format == "" && c.Pattern == "" &&
		c.Minimum == nil && c.Maximum == nil && c.MinLength == nil && c.MaxLength == nil
}

// SemanticEntry attaches semantic meaning to a field. TokenMapping,
// when set, is a dotted token reference whose first segment names a
// token namespace (an optional leading "tokens." is ignored).
type SemanticEntry struct {
	SemanticType string `json:"semantic_type"`
	TokenMapping string `json:"token_mapping,omitempty"`
}

// Placement is a trait's contribution to one rendering context.
type Placement struct {
	ID        string         `json:"id,omitempty"`
	Component string         `json:"component"`
	Region    string         `json:"region,omitempty"`
	Priority  int            `json:"priority,omitempty"`
	Props     map[string]any `json:"props,omitempty"`
}

// Key identifies the placement within its context: the explicit ID
// when set, otherwise the component name.
func (p Placement) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.Component
}

// StateMachine is a trait's declared lifecycle.
type StateMachine struct {
	States      []string     `json:"states"`
	Initial     string       `json:"initial"`
	Transitions []Transition `json:"transitions,omitempty"`
}

// Transition is one declared edge of a state machine.
type Transition struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Action string `json:"action,omitempty"`
}

// HasState reports whether state is declared.
func (m *StateMachine) HasState(state string) bool {
	if m == nil {
		return false
	}
	for _, declared := range m.States {
		if declared == state {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the definition. Nothing in the copy
// aliases d.
func (d *Definition) Clone() (*Definition, error) {
	if d == nil {
		return nil, nil
	}
	var clone Definition
	if err := deepcopy.Copy(&clone, d); err != nil {
		return nil, fmt.Errorf("cloning trait %q: %w", d.Name, err)
	}
	return &clone, nil
}

// FieldNames returns the schema field names in sorted order.
func (d *Definition) FieldNames() []string {
	return sortedKeys(d.Schema)
}

// SemanticFieldNames returns the semantic entry keys in sorted order.
func (d *Definition) SemanticFieldNames() []string {
	return sortedKeys(d.Semantics)
}

// TokenNamespaces returns the token namespaces in sorted order.
func (d *Definition) TokenNamespaces() []string {
	return sortedKeys(d.Tokens)
}

// ViewContexts returns the view extension contexts in sorted order.
func (d *Definition) ViewContexts() []string {
	return sortedKeys(d.ViewExtensions)
}

// Names returns the names of definitions in input order.
func Names(definitions []*Definition) []string {
	names := make([]string, len(definitions))
	for index, definition := range definitions {
		names[index] = definition.Name
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
