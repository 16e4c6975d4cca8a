// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package compose

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/trait"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitgraph"
)

// DefaultViewContexts returns the rendering contexts accepted when
// [ValidateOptions.ViewContexts] is empty.
func DefaultViewContexts() []string {
	return []string{"list", "detail", "form", "timeline", "card", "inline"}
}

// ValidateOptions tunes [Validate]. The zero value is the default
// policy.
type ValidateOptions struct {
	// ViewContexts is the supported context set for view extensions.
	// Empty means DefaultViewContexts.
	ViewContexts []string

	// CollisionSeverity is the severity of TE-0301 issues for resolved
	// collisions. Empty means warning. Unresolved collisions are
	// always errors.
	CollisionSeverity issue.Severity

	// GraphChecks adds the dependency-graph cycle (TE-0302) and
	// declared conflict (TE-0304) checks.
	GraphChecks bool
}

// Result is the outcome of [Validate].
type Result struct {
	Issues []issue.Issue `json:"issues"`
}

// Valid reports whether no issue has error severity.
func (r Result) Valid() bool {
	return !issue.HasErrors(r.Issues)
}

type check func(*Object, ValidateOptions) []issue.Issue

// Validate runs every composition check against object and returns the
// union of their findings, sorted with [issue.Sort]. Checks are
// independent and run concurrently; none short-circuits another.
func Validate(object *Object, options ValidateOptions) Result {
	checks := []check{
		checkCollisions,
		checkDependencies,
		checkStateOwnership,
		checkTokenMappings,
		checkViewExtensions,
		checkSemanticMappings,
	}
	if options.GraphChecks {
		checks = append(checks, checkGraph)
	}

	findings := make([][]issue.Issue, len(checks))
	var group errgroup.Group
	for index, run := range checks {
		group.Go(func() error {
			findings[index] = run(object, options)
			return nil
		})
	}
	// Checks report through findings and never return an error.
	_ = group.Wait()

	issues := []issue.Issue{}
	for _, found := range findings {
		issues = append(issues, found...)
	}
	issue.Sort(issues)
	return Result{Issues: issues}
}

func checkCollisions(object *Object, options ValidateOptions) []issue.Issue {
	severity := options.CollisionSeverity
	if severity == "" {
		severity = issue.SeverityWarning
	}

	var issues []issue.Issue
	for _, collision := range object.Metadata.Collisions {
		item := issue.New(issue.CodePropertyCollision, collision.Path(),
			"%s '%s' is defined by %s; resolved by %s, kept the definition from '%s'",
			collisionNoun(collision.Section), collision.FieldName,
			quoteList(collision.ConflictingTraits), collision.Resolution, collision.Winner)
		if collision.Details != "" {
			item.Message += " (" + collision.Details + ")"
		}
		if collision.Resolution == ResolutionUnresolved {
			item = item.WithSeverity(issue.SeverityError).
				WithFixHint("Make the definitions compatible or remove the field from one trait")
		} else {
			item = item.WithSeverity(severity)
		}
		issues = append(issues, item)
	}
	return issues
}

func collisionNoun(section Section) string {
	switch section {
	case SectionSemantics:
		return "Semantic entry"
	case SectionTokens:
		return "Token namespace"
	case SectionViewExtensions:
		return "View placement"
	}
	return "Field"
}

func checkDependencies(object *Object, _ ValidateOptions) []issue.Issue {
	graph, err := traitgraph.Build(object.Traits)
	if err != nil {
		// Compose never produces a trait set that fails to build.
		return nil
	}
	var issues []issue.Issue
	for _, missing := range graph.MissingDependencies(graph.Names()) {
		issues = append(issues, issue.New(issue.CodeMissingDependency,
			"traits."+missing.Trait+".dependencies",
			"Trait '%s' requires '%s', which is not part of the composition", missing.Trait, missing.Requires).
			WithFixHint(fmt.Sprintf("Add the '%s' trait to the composition", missing.Requires)))
	}
	return issues
}

func checkStateOwnership(object *Object, _ ValidateOptions) []issue.Issue {
	owners := object.Metadata.StateMachineTraits
	if len(owners) < 2 {
		return nil
	}
	var issues []issue.Issue
	for _, dropped := range owners[1:] {
		issues = append(issues, issue.New(issue.CodeStateOwnershipConflict,
			"traits."+dropped+".state_machine",
			"Trait '%s' defines a state machine, but '%s' already owns the object's state (state machines: %s)",
			dropped, owners[0], quoteList(owners)))
	}
	return issues
}

// TokenNamespace returns the namespace a token mapping refers to: the
// first dotted segment after an optional "tokens." prefix.
func TokenNamespace(mapping string) string {
	reference := strings.TrimPrefix(strings.TrimSpace(mapping), "tokens.")
	namespace, _, _ := strings.Cut(reference, ".")
	return namespace
}

func checkTokenMappings(object *Object, _ ValidateOptions) []issue.Issue {
	var issues []issue.Issue
	for _, field := range sortedKeys(object.Semantics) {
		mapping := object.Semantics[field].TokenMapping
		if mapping == "" {
			continue
		}
		namespace := TokenNamespace(mapping)
		if _, ok := object.Tokens[namespace]; ok && namespace != "" {
			continue
		}
		issues = append(issues, issue.New(issue.CodeTokenMappingMissing,
			"semantics."+field+".token_mapping",
			"Token mapping '%s' for '%s' references namespace '%s', which no composed trait provides",
			mapping, field, namespace).
			WithFixHint(fmt.Sprintf("Add a '%s' token namespace to a composed trait or correct the mapping", namespace)))
	}
	return issues
}

func checkViewExtensions(object *Object, options ValidateOptions) []issue.Issue {
	supported := options.ViewContexts
	if len(supported) == 0 {
		supported = DefaultViewContexts()
	}

	var issues []issue.Issue
	for _, context := range sortedKeys(object.ViewExtensions) {
		path := string(SectionViewExtensions) + "." + context
		if !slices.Contains(supported, context) {
			issues = append(issues, issue.New(issue.CodeViewExtensionInvalid, path,
				"View context '%s' is not supported", context).
				WithFixHint("Use one of: "+strings.Join(supported, ", ")))
		}
		for index, placement := range object.ViewExtensions[context] {
			if placement.Component == "" {
				issues = append(issues, issue.New(issue.CodeViewExtensionInvalid,
					path+issue.IndexSegment(index),
					"Placement in view context '%s' names no component", context).
					WithFixHint("Set the placement's component"))
			}
		}
	}
	return issues
}

func checkSemanticMappings(object *Object, _ ValidateOptions) []issue.Issue {
	var issues []issue.Issue
	for _, field := range sortedKeys(object.Semantics) {
		if _, ok := object.Schema[field]; ok {
			continue
		}
		issues = append(issues, issue.New(issue.CodeSemanticMappingIncomplete,
			"semantics."+field,
			"Semantic entry '%s' has no matching schema field", field).
			WithFixHint(fmt.Sprintf("Add '%s' to a composed trait's schema or remove the semantic entry", field)))
	}
	return issues
}

func checkGraph(object *Object, _ ValidateOptions) []issue.Issue {
	issues, err := GraphIssues(object.Traits)
	if err != nil {
		return nil
	}
	return issues
}

// GraphIssues reports the dependency graph's structural problems for a
// trait set: a cycle as TE-0302 and each pair of present traits that
// declare a conflict as TE-0304. It can run before composition, which
// is where a cycle is found; a composed object never has one. The
// error is non-nil only when the graph cannot be built (duplicate or
// empty names).
func GraphIssues(traits []*trait.Definition) ([]issue.Issue, error) {
	graph, err := traitgraph.Build(traits)
	if err != nil {
		return nil, err
	}

	var issues []issue.Issue
	if _, err := graph.TopologicalOrder(); err != nil {
		var cycle *traitgraph.CycleError
		if !errors.As(err, &cycle) {
			return nil, err
		}
		issues = append(issues, issue.New(issue.CodeCircularDependency,
			"traits."+cycle.Path[0]+".dependencies",
			"Circular dependency: %s", strings.Join(cycle.Path, " -> ")))
	}
	for _, pair := range graph.ActiveConflicts(graph.Names()) {
		issues = append(issues, issue.New(issue.CodeIncompatibleTraits,
			"traits."+pair.A+".conflicts",
			"Traits '%s' and '%s' are declared incompatible", pair.A, pair.B).
			WithFixHint(fmt.Sprintf("Remove '%s' or '%s' from the composition", pair.A, pair.B)))
	}
	issue.Sort(issues)
	return issues, nil
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for index, name := range names {
		quoted[index] = "'" + name + "'"
	}
	return strings.Join(quoted, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
