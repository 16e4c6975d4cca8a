// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package compose

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/trait"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitgraph"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitschema"
)

// Option configures [Compose].
type Option func(*options)

type options struct {
	id   string
	name string
}

// WithID sets the composed object's ID instead of deriving it from the
// trait names and versions.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithName sets the composed object's name. The default joins the
// trait names in application order with "+".
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Compose merges traits into one object. The input order is the
// tie-breaker for traits with no dependency relationship, so callers
// that want reproducible output must pass a stable order.
//
// Merge conflicts are recorded as collisions, never returned as
// errors. The returned error is non-nil only when the traits cannot
// be ordered: a dependency cycle ([traitgraph.ErrCycle]), a duplicate
// name ([traitgraph.ErrDuplicateTrait]) or an empty name
// ([traitgraph.ErrEmptyName]). The inputs are never modified.
func Compose(traits []*trait.Definition, opts ...Option) (*Object, error) {
	var config options
	for _, opt := range opts {
		opt(&config)
	}

	graph, err := traitgraph.Build(traits)
	if err != nil {
		return nil, fmt.Errorf("building trait graph: %w", err)
	}
	order, err := graph.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("ordering traits: %w", err)
	}

	byName := make(map[string]*trait.Definition, len(traits))
	for _, definition := range traits {
		byName[definition.Name] = definition
	}

	merger := newMerger(len(order))
	for _, name := range order {
		clone, err := byName[name].Clone()
		if err != nil {
			return nil, err
		}
		merger.apply(clone)
	}

	object := merger.object
	object.Metadata.TraitOrder = order
	object.Metadata.TraitCount = len(object.Traits)

	object.Name = config.name
	if object.Name == "" {
		object.Name = defaultName(order)
	}
	object.ID = config.id
	if object.ID == "" {
		object.ID, err = DeriveID(object.Traits)
		if err != nil {
			return nil, err
		}
	}
	return object, nil
}

func defaultName(order []string) string {
	if len(order) == 0 {
		return "empty"
	}
	return strings.Join(order, "+")
}

// merger accumulates one composition. It is created per call and never
// shared.
type merger struct {
	object *Object

	// owner maps a provenance key ("schema.status") to the trait whose
	// definition currently holds it.
	owner map[string]string

	// placementIndex maps "<context>/<key>" to the placement's index
	// within object.ViewExtensions[context].
	placementIndex map[string]int

	actions map[string]bool
}

func newMerger(traitCount int) *merger {
	return &merger{
		object: &Object{
			Traits:         make([]*trait.Definition, 0, traitCount),
			Schema:         make(map[string]trait.FieldSchema),
			Semantics:      make(map[string]trait.SemanticEntry),
			ViewExtensions: make(map[string][]trait.Placement),
			Tokens:         make(map[string]any),
			Actions:        []string{},
			Metadata: Metadata{
				Collisions: []Collision{},
				Provenance: make(map[string]string),
			},
		},
		owner:          make(map[string]string),
		placementIndex: make(map[string]int),
		actions:        make(map[string]bool),
	}
}

func (m *merger) apply(definition *trait.Definition) {
	m.object.Traits = append(m.object.Traits, definition)
	m.mergeSchema(definition)
	m.mergeSemantics(definition)
	m.mergeTokens(definition)
	m.mergeViewExtensions(definition)
	m.mergeActions(definition)
	m.mergeStateMachine(definition)
}

// settle records the outcome of a challenger redefining key and
// reports whether the challenger's value replaces the incumbent's.
func (m *merger) settle(section Section, key string, challenger string, result relation, details string) bool {
	provenance := string(section) + "." + key
	holder := m.owner[provenance]

	var resolution Resolution
	winner := challenger
	switch result {
	case relationIdentical:
		return false
	case relationIncumbentStricter:
		resolution, winner = ResolutionStricterType, holder
	case relationChallengerStricter:
		resolution = ResolutionStricterType
	case relationCompatible:
		resolution = ResolutionDeclarationOrder
	case relationContradictory:
		resolution = ResolutionUnresolved
	}

	m.object.Metadata.Collisions = append(m.object.Metadata.Collisions, Collision{
		FieldName:         key,
		Section:           section,
		ConflictingTraits: []string{holder, challenger},
		Resolution:        resolution,
		Winner:            winner,
		Details:           details,
	})
	if winner == challenger {
		m.claim(section, key, challenger)
		return true
	}
	return false
}

func (m *merger) claim(section Section, key, traitName string) {
	provenance := string(section) + "." + key
	m.owner[provenance] = traitName
	m.object.Metadata.Provenance[provenance] = traitName
}

func (m *merger) mergeSchema(definition *trait.Definition) {
	for _, field := range definition.FieldNames() {
		challenger := definition.Schema[field]
		incumbent, exists := m.object.Schema[field]
		if !exists {
			m.object.Schema[field] = challenger
			m.claim(SectionSchema, field, definition.Name)
			continue
		}
		result, details := compareFields(incumbent, challenger)
		if m.settle(SectionSchema, field, definition.Name, result, details) {
			m.object.Schema[field] = challenger
		}
	}
}

func (m *merger) mergeSemantics(definition *trait.Definition) {
	for _, field := range definition.SemanticFieldNames() {
		challenger := definition.Semantics[field]
		incumbent, exists := m.object.Semantics[field]
		if !exists {
			m.object.Semantics[field] = challenger
			m.claim(SectionSemantics, field, definition.Name)
			continue
		}
		result, details := compareSemantics(incumbent, challenger)
		if m.settle(SectionSemantics, field, definition.Name, result, details) {
			m.object.Semantics[field] = challenger
		}
	}
}

func compareSemantics(incumbent, challenger trait.SemanticEntry) (relation, string) {
	switch {
	case incumbent == challenger:
		return relationIdentical, ""
	case incumbent.SemanticType != challenger.SemanticType:
		return relationContradictory, fmt.Sprintf("semantic type %q conflicts with %q", incumbent.SemanticType, challenger.SemanticType)
	case incumbent.TokenMapping == "":
		return relationChallengerStricter, fmt.Sprintf("stricter definition adds token mapping %q", challenger.TokenMapping)
	case challenger.TokenMapping == "":
		return relationIncumbentStricter, fmt.Sprintf("stricter definition adds token mapping %q", incumbent.TokenMapping)
	default:
		return relationCompatible, fmt.Sprintf("token mapping %q redefined as %q", incumbent.TokenMapping, challenger.TokenMapping)
	}
}

func (m *merger) mergeTokens(definition *trait.Definition) {
	for _, namespace := range definition.TokenNamespaces() {
		incoming := definition.Tokens[namespace]
		existing, exists := m.object.Tokens[namespace]
		if !exists {
			m.object.Tokens[namespace] = copyTree(incoming)
			m.claim(SectionTokens, namespace, definition.Name)
			continue
		}

		merge := tokenMerge{}
		merged := merge.merge(existing, incoming, namespace)
		m.object.Tokens[namespace] = merged

		switch {
		case merge.unresolved:
			m.settle(SectionTokens, namespace, definition.Name, relationContradictory,
				"token value shapes differ at "+strings.Join(merge.conflicts, ", "))
		case len(merge.conflicts) > 0:
			m.settle(SectionTokens, namespace, definition.Name, relationCompatible,
				"token values redefined at "+strings.Join(merge.conflicts, ", "))
		default:
			// Purely additive merges have no conflict to record; the
			// namespace now carries the latest contributor.
			m.claim(SectionTokens, namespace, definition.Name)
		}
	}
}

// tokenMerge merges token trees with the later tree winning on every
// conflicting leaf.
type tokenMerge struct {
	conflicts  []string
	unresolved bool
}

func (t *tokenMerge) merge(existing, incoming any, path string) any {
	existingMap, existingIsMap := existing.(map[string]any)
	incomingMap, incomingIsMap := incoming.(map[string]any)

	switch {
	case existingIsMap && incomingIsMap:
		merged := copyTree(existingMap).(map[string]any)
		keys := make([]string, 0, len(incomingMap))
		for key := range incomingMap {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if current, ok := merged[key]; ok {
				merged[key] = t.merge(current, incomingMap[key], path+"."+key)
			} else {
				merged[key] = copyTree(incomingMap[key])
			}
		}
		return merged

	case existingIsMap != incomingIsMap:
		t.unresolved = true
		t.conflicts = append(t.conflicts, path)
		return copyTree(incoming)

	default:
		if !reflect.DeepEqual(traitschema.Normalize(existing), traitschema.Normalize(incoming)) {
			t.conflicts = append(t.conflicts, path)
		}
		return copyTree(incoming)
	}
}

// copyTree copies nested maps and slices so the composed object never
// shares mutable structure with a trait.
func copyTree(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, element := range typed {
			out[key] = copyTree(element)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for index, element := range typed {
			out[index] = copyTree(element)
		}
		return out
	}
	return value
}

func (m *merger) mergeViewExtensions(definition *trait.Definition) {
	for _, context := range definition.ViewContexts() {
		for _, placement := range definition.ViewExtensions[context] {
			key := placement.Key()
			if key == "" {
				m.object.ViewExtensions[context] = append(m.object.ViewExtensions[context], placement)
				continue
			}
			slot := context + "/" + key
			index, exists := m.placementIndex[slot]
			if !exists {
				m.placementIndex[slot] = len(m.object.ViewExtensions[context])
				m.object.ViewExtensions[context] = append(m.object.ViewExtensions[context], placement)
				m.claim(SectionViewExtensions, slot, definition.Name)
				continue
			}

			// A trait repeating its own key keeps both placements;
			// collisions are only between traits.
			if m.owner[string(SectionViewExtensions)+"."+slot] == definition.Name {
				m.object.ViewExtensions[context] = append(m.object.ViewExtensions[context], placement)
				continue
			}

			incumbent := m.object.ViewExtensions[context][index]
			result, details := relationIdentical, ""
			if !reflect.DeepEqual(incumbent, placement) {
				result, details = relationCompatible, fmt.Sprintf("placement %q in %s redefined", key, context)
			}
			if m.settle(SectionViewExtensions, slot, definition.Name, result, details) {
				m.object.ViewExtensions[context][index] = placement
			}
		}
	}
}

func (m *merger) mergeActions(definition *trait.Definition) {
	for _, action := range definition.Actions {
		if m.actions[action] {
			continue
		}
		m.actions[action] = true
		m.object.Actions = append(m.object.Actions, action)
	}
}

func (m *merger) mergeStateMachine(definition *trait.Definition) {
	if definition.StateMachine == nil {
		return
	}
	m.object.Metadata.StateMachineTraits = append(m.object.Metadata.StateMachineTraits, definition.Name)
	if m.object.StateMachine != nil {
		return
	}
	m.object.StateMachine = definition.StateMachine
	m.object.Metadata.StateOwner = definition.Name
}
