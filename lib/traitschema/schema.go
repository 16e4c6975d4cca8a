// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package traitschema

import (
	"errors"
	"fmt"
	"sort"
)

// Type names accepted in [Schema.Type].
const (
	TypeAny     = "any"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

var knownTypes = map[string]bool{
	TypeAny:     true,
	TypeObject:  true,
	TypeArray:   true,
	TypeString:  true,
	TypeNumber:  true,
	TypeInteger: true,
	TypeBoolean: true,
}

// draft is the JSON Schema dialect every rendered document declares.
const draft = "https://json-schema.org/draft/2020-12/schema"

// Schema describes the shape of a value. An empty Type is treated as
// TypeAny.
type Schema struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`

	// Object keywords.
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`

	// Values, when set, validates every object key not named in
	// Properties. A schema with Values never reports unrecognized
	// keys.
	Values *Schema `json:"values,omitempty"`

	// Array keywords.
	Items       *Schema `json:"items,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	// Scalar keywords.
	Enum      []any    `json:"enum,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
}

// Validate checks that the schema itself is well formed. Type names
// and bound ordering are checked here; everything else (patterns,
// keyword shapes) is left to the JSON Schema compiler. All problems
// are returned joined.
func (s *Schema) Validate() error {
	if s == nil {
		return errors.New("schema is nil")
	}
	var problems []error
	s.lint("(root)", &problems)
	if _, err := Compile(s, Options{}); err != nil {
		problems = append(problems, err)
	}
	return errors.Join(problems...)
}

func (s *Schema) lint(where string, problems *[]error) {
	add := func(format string, args ...any) {
		*problems = append(*problems, fmt.Errorf("%s: %s", where, fmt.Sprintf(format, args...)))
	}
	if s.Type != "" && !knownTypes[s.Type] {
		add("unknown type %q", s.Type)
	}
	if s.Minimum != nil && s.Maximum != nil && *s.Minimum > *s.Maximum {
		add("minimum %v exceeds maximum %v", *s.Minimum, *s.Maximum)
	}
	if s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength {
		add("minLength %d exceeds maxLength %d", *s.MinLength, *s.MaxLength)
	}
	if s.MinItems != nil && s.MaxItems != nil && *s.MinItems > *s.MaxItems {
		add("minItems %d exceeds maxItems %d", *s.MinItems, *s.MaxItems)
	}
	for _, name := range sortedKeys(s.Properties) {
		child := s.Properties[name]
		if child == nil {
			add("property %q has a null schema", name)
			continue
		}
		child.lint(where+".properties."+name, problems)
	}
	if s.Items != nil {
		s.Items.lint(where+".items", problems)
	}
	if s.Values != nil {
		s.Values.lint(where+".values", problems)
	}
}

// PropertyNames returns the declared property names in sorted order.
func (s *Schema) PropertyNames() []string {
	if s == nil {
		return nil
	}
	return sortedKeys(s.Properties)
}

// Document renders the schema as a draft 2020-12 JSON Schema document.
// When closed is set, object schemas that leave additionalProperties
// and Values unset reject undeclared keys.
func (s *Schema) Document(closed bool) map[string]any {
	document := s.render(closed)
	document["$schema"] = draft
	return document
}

func (s *Schema) render(closed bool) map[string]any {
	out := map[string]any{}
	if s.Type != "" && s.Type != TypeAny {
		out["type"] = s.Type
	}

	if len(s.Properties) > 0 {
		properties := make(map[string]any, len(s.Properties))
		for name, child := range s.Properties {
			if child == nil {
				properties[name] = true
				continue
			}
			properties[name] = child.render(closed)
		}
		out["properties"] = properties
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	switch {
	case s.Values != nil:
		out["additionalProperties"] = s.Values.render(closed)
	case s.AdditionalProperties != nil:
		out["additionalProperties"] = *s.AdditionalProperties
	case closed && s.Type == TypeObject:
		out["additionalProperties"] = false
	}

	if s.Items != nil {
		out["items"] = s.Items.render(closed)
	}
	if s.MinItems != nil {
		out["minItems"] = *s.MinItems
	}
	if s.MaxItems != nil {
		out["maxItems"] = *s.MaxItems
	}
	if s.UniqueItems {
		out["uniqueItems"] = true
	}

	if len(s.Enum) > 0 {
		values := make([]any, len(s.Enum))
		for index, value := range s.Enum {
			values[index] = Normalize(value)
		}
		out["enum"] = values
	}
	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}
	if s.MinLength != nil {
		out["minLength"] = *s.MinLength
	}
	if s.MaxLength != nil {
		out["maxLength"] = *s.MaxLength
	}
	if s.Pattern != "" {
		out["pattern"] = s.Pattern
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
