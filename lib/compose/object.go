// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package compose

import (
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/trait"
)

// Object is the result of composing traits. It is fully built by
// [Compose] and never modified afterwards.
type Object struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Traits are private copies of the inputs, in application order.
	Traits []*trait.Definition `json:"traits"`

	Schema         map[string]trait.FieldSchema   `json:"schema"`
	Semantics      map[string]trait.SemanticEntry `json:"semantics"`
	ViewExtensions map[string][]trait.Placement   `json:"viewExtensions"`
	Tokens         map[string]any                 `json:"tokens"`
	StateMachine   *trait.StateMachine            `json:"stateMachine,omitempty"`
	Actions        []string                       `json:"actions"`

	Metadata Metadata `json:"metadata"`
}

// Metadata records how the object was assembled.
type Metadata struct {
	// TraitOrder is the application order. TraitCount always equals
	// len(TraitOrder) and len(Object.Traits).
	TraitOrder []string    `json:"traitOrder"`
	TraitCount int         `json:"traitCount"`
	Collisions []Collision `json:"collisions"`

	// StateOwner is the trait whose state machine was kept.
	// StateMachineTraits lists every trait that declared one, in
	// application order.
	StateOwner         string   `json:"stateOwner,omitempty"`
	StateMachineTraits []string `json:"stateMachineTraits,omitempty"`

	// Provenance maps "<section>.<key>" to the trait whose definition
	// is in the composed object.
	Provenance map[string]string `json:"provenance"`
}

// Collision is one recorded conflict between two traits over the same
// key. Winner is always one of ConflictingTraits.
type Collision struct {
	FieldName         string     `json:"fieldName"`
	Section           Section    `json:"section"`
	ConflictingTraits []string   `json:"conflictingTraits"`
	Resolution        Resolution `json:"resolution"`
	Winner            string     `json:"winner"`
	Details           string     `json:"details"`
}

// Path returns the collision's location in the composed object, e.g.
// "schema.status".
func (c Collision) Path() string {
	return string(c.Section) + "." + c.FieldName
}

// Trait returns the composed trait with the given name.
func (o *Object) Trait(name string) (*trait.Definition, bool) {
	for _, definition := range o.Traits {
		if definition.Name == name {
			return definition, true
		}
	}
	return nil, false
}

// CollisionsFor returns the collisions recorded for a section and key.
func (o *Object) CollisionsFor(section Section, fieldName string) []Collision {
	var matches []Collision
	for _, collision := range o.Metadata.Collisions {
		if collision.Section == section && collision.FieldName == fieldName {
			matches = append(matches, collision)
		}
	}
	return matches
}
