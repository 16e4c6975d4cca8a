// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package trait

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitschema"
)

func intPointer(value int) *int { return &value }

var (
	stringList = &traitschema.Schema{
		Type:  traitschema.TypeArray,
		Items: &traitschema.Schema{Type: traitschema.TypeString, MinLength: intPointer(1)},
	}

	fieldGrammar = &traitschema.Schema{
		Type:     traitschema.TypeObject,
		Required: []string{"type"},
		Properties: map[string]*traitschema.Schema{
			"type":        {Type: traitschema.TypeString, MinLength: intPointer(1)},
			"required":    {Type: traitschema.TypeBoolean},
			"description": {Type: traitschema.TypeString},
			"constraints": {
				Type: traitschema.TypeObject,
				Properties: map[string]*traitschema.Schema{
					"enum":       {Type: traitschema.TypeArray, Items: &traitschema.Schema{Type: traitschema.TypeString}, UniqueItems: true},
					"format":     {Type: traitschema.TypeString},
					"pattern":    {Type: traitschema.TypeString},
					"minimum":    {Type: traitschema.TypeNumber},
					"maximum":    {Type: traitschema.TypeNumber},
					"min_length": {Type: traitschema.TypeInteger},
					"max_length": {Type: traitschema.TypeInteger},
				},
			},
		},
	}

	semanticGrammar = &traitschema.Schema{
		Type:     traitschema.TypeObject,
		Required: []string{"semantic_type"},
		Properties: map[string]*traitschema.Schema{
			"semantic_type": {Type: traitschema.TypeString, MinLength: intPointer(1)},
			"token_mapping": {Type: traitschema.TypeString},
		},
	}

	placementGrammar = &traitschema.Schema{
		Type: traitschema.TypeObject,
		Properties: map[string]*traitschema.Schema{
			"id":        {Type: traitschema.TypeString},
			"component": {Type: traitschema.TypeString},
			"region":    {Type: traitschema.TypeString},
			"priority":  {Type: traitschema.TypeInteger},
			"props":     {Type: traitschema.TypeObject},
		},
	}

	stateMachineGrammar = &traitschema.Schema{
		Type:     traitschema.TypeObject,
		Required: []string{"states", "initial"},
		Properties: map[string]*traitschema.Schema{
			"states":  {Type: traitschema.TypeArray, Items: &traitschema.Schema{Type: traitschema.TypeString}, MinItems: intPointer(1), UniqueItems: true},
			"initial": {Type: traitschema.TypeString},
			"transitions": {
				Type: traitschema.TypeArray,
				Items: &traitschema.Schema{
					Type:     traitschema.TypeObject,
					Required: []string{"from", "to"},
					Properties: map[string]*traitschema.Schema{
						"from":   {Type: traitschema.TypeString},
						"to":     {Type: traitschema.TypeString},
						"action": {Type: traitschema.TypeString},
					},
				},
			},
		},
	}

	// definitionGrammar is the shape every trait document must have.
	// Unknown top-level keys are tolerated so trait files can carry
	// authoring metadata.
	definitionGrammar = &traitschema.Schema{
		Type:     traitschema.TypeObject,
		Required: []string{"name", "version", "schema"},
		Properties: map[string]*traitschema.Schema{
			"name":            {Type: traitschema.TypeString, MinLength: intPointer(1)},
			"version":         {Type: traitschema.TypeString},
			"description":     {Type: traitschema.TypeString},
			"schema":          {Type: traitschema.TypeObject, Values: fieldGrammar},
			"semantics":       {Type: traitschema.TypeObject, Values: semanticGrammar},
			"tokens":          {Type: traitschema.TypeObject},
			"view_extensions": {Type: traitschema.TypeObject, Values: &traitschema.Schema{Type: traitschema.TypeArray, Items: placementGrammar}},
			"dependencies":    stringList,
			"conflicts":       stringList,
			"state_machine":   stateMachineGrammar,
			"actions":         stringList,
			"parameters":      {Type: traitschema.TypeAny},
		},
	}

	definitionCheck = traitschema.MustCompile(definitionGrammar, traitschema.Options{Scope: issue.DomainStructure})
)

// ValidateStructure checks a decoded trait document and returns the
// TE-01XX issues it finds, sorted. Semantic refinements (version
// syntax, field types, state machine references, the parameter
// schema) run only when the document has the right shape.
func ValidateStructure(document map[string]any, sourceFile string) []issue.Issue {
	failures := definitionCheck.CheckWithRefinements(
		document,
		refineVersion,
		refineFieldTypes,
		refineStateMachine,
		refineParameters,
		refineActions,
		refinePlacements,
	)
	issues := issue.FormatSchemaFailures(failures, sourceFile)
	issue.Sort(issues)
	return issues
}

// Parse validates a decoded trait document and decodes it into a
// Definition. When the document has error-severity structure issues
// the returned definition is nil.
func Parse(document map[string]any, sourceFile string) (*Definition, []issue.Issue) {
	issues := ValidateStructure(document, sourceFile)
	if issue.HasErrors(issues) {
		return nil, issues
	}
	definition, err := Decode(document)
	if err != nil {
		issues = append(issues, issue.New(issue.CodeInvalidFieldType, "", "decoding trait: %v", err).
			WithFile(sourceFile))
		return nil, issues
	}
	return definition, issues
}

// Decode converts a decoded document into a Definition without
// structure validation. The document goes through JSON so the
// struct tags are the single source of truth for key names.
func Decode(document any) (*Definition, error) {
	data, err := json.Marshal(traitschema.Normalize(document))
	if err != nil {
		return nil, fmt.Errorf("encoding trait document: %w", err)
	}
	var definition Definition
	if err := json.Unmarshal(data, &definition); err != nil {
		return nil, fmt.Errorf("decoding trait document: %w", err)
	}
	return &definition, nil
}

func refineVersion(document map[string]any) []issue.SchemaFailure {
	version, _ := document["version"].(string)
	if _, err := semver.NewVersion(version); err != nil {
		return []issue.SchemaFailure{{
			Kind:    issue.FailureCustom,
			Code:    issue.CodeInvalidFieldType,
			Path:    []string{"version"},
			Message: fmt.Sprintf("Version %q is not a semantic version: %v", version, err),
			FixHint: "Use a semantic version such as \"1.0.0\"",
		}}
	}
	return nil
}

func refineFieldTypes(document map[string]any) []issue.SchemaFailure {
	schema, _ := document["schema"].(map[string]any)
	var failures []issue.SchemaFailure
	for _, name := range sortedKeys(schema) {
		field, _ := schema[name].(map[string]any)
		fieldType, _ := field["type"].(string)
		if !KnownFieldType(fieldType) {
			failures = append(failures, issue.SchemaFailure{
				Kind:    issue.FailureCustom,
				Code:    issue.CodeInvalidFieldType,
				Path:    []string{"schema", name, "type"},
				Message: fmt.Sprintf("Unknown field type %q", fieldType),
				FixHint: "Use one of: " + strings.Join(knownFieldTypeNames(), ", "),
			})
			continue
		}
		if fieldType == FieldEnum {
			constraints, _ := field["constraints"].(map[string]any)
			values, _ := constraints["enum"].([]any)
			if len(values) == 0 {
				failures = append(failures, issue.SchemaFailure{
					Kind:    issue.FailureCustom,
					Code:    issue.CodeInvalidFieldType,
					Path:    []string{"schema", name, "constraints", "enum"},
					Message: fmt.Sprintf("Enum field %q declares no values", name),
					FixHint: "List the allowed values under constraints.enum",
				})
			}
		}
	}
	return failures
}

func refineStateMachine(document map[string]any) []issue.SchemaFailure {
	machine, ok := document["state_machine"].(map[string]any)
	if !ok {
		return nil
	}
	declared := make(map[string]bool)
	states, _ := machine["states"].([]any)
	for _, state := range states {
		if name, ok := state.(string); ok {
			declared[name] = true
		}
	}

	var failures []issue.SchemaFailure
	undeclared := func(path []string, state string) {
		failures = append(failures, issue.SchemaFailure{
			Kind:    issue.FailureCustom,
			Code:    issue.CodeInvalidFieldType,
			Path:    path,
			Message: fmt.Sprintf("State %q is not declared in state_machine.states", state),
			FixHint: "Add the state to state_machine.states or correct the reference",
		})
	}

	if initial, _ := machine["initial"].(string); !declared[initial] {
		undeclared([]string{"state_machine", "initial"}, initial)
	}
	transitions, _ := machine["transitions"].([]any)
	for index, raw := range transitions {
		transition, _ := raw.(map[string]any)
		for _, end := range []string{"from", "to"} {
			if state, _ := transition[end].(string); !declared[state] {
				undeclared([]string{"state_machine", "transitions", issue.IndexSegment(index), end}, state)
			}
		}
	}
	return failures
}

func refineParameters(document map[string]any) []issue.SchemaFailure {
	raw, present := document["parameters"]
	if !present {
		return nil
	}
	malformed := func(message string) []issue.SchemaFailure {
		return []issue.SchemaFailure{{
			Kind:    issue.FailureCustom,
			Code:    issue.CodeInvalidTraitSchema,
			Path:    []string{"parameters"},
			Message: message,
		}}
	}
	if _, ok := raw.(map[string]any); !ok {
		return malformed(fmt.Sprintf("Parameter schema must be an object, got %s", traitschema.KindOf(raw)))
	}
	schema, err := DecodeParameterSchema(raw)
	if err != nil {
		return malformed(err.Error())
	}
	if err := schema.Validate(); err != nil {
		return malformed("Parameter schema is invalid: " + err.Error())
	}
	return nil
}

func refineActions(document map[string]any) []issue.SchemaFailure {
	actions, _ := document["actions"].([]any)
	seen := make(map[string]bool)
	var failures []issue.SchemaFailure
	for index, raw := range actions {
		action, _ := raw.(string)
		if seen[action] {
			failures = append(failures, issue.SchemaFailure{
				Kind:     issue.FailureCustom,
				Code:     issue.CodeInvalidFieldType,
				Severity: issue.SeverityWarning,
				Path:     []string{"actions", issue.IndexSegment(index)},
				Message:  fmt.Sprintf("Action %q is listed more than once", action),
				FixHint:  "Remove the duplicate action",
			})
		}
		seen[action] = true
	}
	return failures
}

func refinePlacements(document map[string]any) []issue.SchemaFailure {
	extensions, _ := document["view_extensions"].(map[string]any)
	var failures []issue.SchemaFailure
	for _, context := range sortedKeys(extensions) {
		placements, _ := extensions[context].([]any)
		seen := make(map[string]bool)
		for index, raw := range placements {
			placement, _ := raw.(map[string]any)
			key, _ := placement["id"].(string)
			if key == "" {
				key, _ = placement["component"].(string)
			}
			if key == "" {
				continue
			}
			if seen[key] {
				failures = append(failures, issue.SchemaFailure{
					Kind:     issue.FailureCustom,
					Code:     issue.CodeInvalidFieldType,
					Severity: issue.SeverityWarning,
					Path:     []string{"view_extensions", context, issue.IndexSegment(index)},
					Message:  fmt.Sprintf("Placement %q appears more than once in view context %q", key, context),
					FixHint:  "Give each placement a distinct id",
				})
			}
			seen[key] = true
		}
	}
	return failures
}

// DecodeParameterSchema decodes a raw parameter schema block.
func DecodeParameterSchema(raw any) (*traitschema.Schema, error) {
	data, err := json.Marshal(traitschema.Normalize(raw))
	if err != nil {
		return nil, fmt.Errorf("encoding parameter schema: %w", err)
	}
	var schema traitschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decoding parameter schema: %w", err)
	}
	return &schema, nil
}

func knownFieldTypeNames() []string {
	names := make([]string, 0, len(fieldTypes))
	for name := range fieldTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
