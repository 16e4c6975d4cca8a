// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package params

import (
	"fmt"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitschema"
)

// StatefulTrait is the name of the built-in lifecycle trait.
const StatefulTrait = "Stateful"

// StatefulSchema returns the parameter schema of the Stateful trait:
// a non-empty list of distinct state names and the initial state.
func StatefulSchema() *traitschema.Schema {
	minimumStates := 1
	minimumLength := 1
	return &traitschema.Schema{
		Type:     traitschema.TypeObject,
		Required: []string{"states", "initialState"},
		Properties: map[string]*traitschema.Schema{
			"states": {
				Type:        traitschema.TypeArray,
				Description: "Lifecycle states in display order",
				Items:       &traitschema.Schema{Type: traitschema.TypeString, MinLength: &minimumLength},
				MinItems:    &minimumStates,
				UniqueItems: true,
			},
			"initialState": {
				Type:        traitschema.TypeString,
				Description: "State a new object starts in",
			},
		},
	}
}

// StatefulRefinement requires initialState to be one of states.
// Duplicate states are caught by the schema's uniqueItems.
func StatefulRefinement(value map[string]any) []issue.SchemaFailure {
	states, _ := value["states"].([]any)
	initial, _ := value["initialState"].(string)
	for _, state := range states {
		if state == initial {
			return nil
		}
	}
	options := make([]string, 0, len(states))
	for _, state := range states {
		options = append(options, fmt.Sprint(state))
	}
	return []issue.SchemaFailure{{
		Kind:    issue.FailureInvalidEnum,
		Path:    []string{"initialState"},
		Message: fmt.Sprintf("Initial state '%s' is not one of the declared states", initial),
		Options: options,
	}}
}

// RegisterStateful registers the built-in Stateful schema and
// refinement unless a trait definition already supplied one.
func (v *Validator) RegisterStateful() {
	if _, ok := v.entries[StatefulTrait]; ok {
		v.entries[StatefulTrait].refinements = append(v.entries[StatefulTrait].refinements, StatefulRefinement)
		return
	}
	v.Register(StatefulTrait, StatefulSchema(), StatefulRefinement)
}
