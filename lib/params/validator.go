// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package params

import (
	"fmt"
	"sort"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/trait"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitschema"
)

// Options configures a [Validator].
type Options struct {
	// Open accepts parameters a schema does not declare. The default
	// closed policy reports them as TE-0204.
	Open bool

	// Refinements adds cross-field rules per trait name, on top of any
	// passed to Register.
	Refinements map[string][]traitschema.Refinement
}

// Result is the outcome of validating one parameter object.
type Result struct {
	Valid  bool          `json:"valid"`
	Issues []issue.Issue `json:"issues"`
}

type entry struct {
	schema      *traitschema.Schema
	compiled    *traitschema.Compiled
	schemaErr   error
	refinements []traitschema.Refinement
	sourceFile  string
}

// Validator validates trait parameters against registered schemas.
type Validator struct {
	options Options
	entries map[string]*entry
}

// NewValidator registers the parameter schema of every definition that
// declares one. Definitions without a Parameters block are skipped; a
// later Validate call for them reports TE-0101.
func NewValidator(definitions []*trait.Definition, options Options) *Validator {
	validator := &Validator{
		options: options,
		entries: make(map[string]*entry),
	}
	for _, definition := range definitions {
		if definition == nil || definition.Parameters == nil {
			continue
		}
		validator.Register(definition.Name, definition.Parameters)
	}
	return validator
}

// Register sets the parameter schema for a trait, replacing any
// previous registration. The schema is checked and compiled here; a
// malformed schema is remembered and reported as TE-0101 on every
// Validate.
func (v *Validator) Register(traitName string, schema *traitschema.Schema, refinements ...traitschema.Refinement) {
	registered := &entry{schema: schema, refinements: refinements}
	switch {
	case schema == nil:
		registered.schemaErr = fmt.Errorf("parameter schema is nil")
	default:
		if err := schema.Validate(); err != nil {
			registered.schemaErr = err
			break
		}
		compiled, err := traitschema.Compile(schema, traitschema.Options{
			Scope:  issue.DomainParameters,
			Closed: !v.options.Open,
		})
		if err != nil {
			registered.schemaErr = err
			break
		}
		registered.compiled = compiled
	}
	v.entries[traitName] = registered
}

// SetSourceFile records the file a trait's schema came from so issues
// carry it in their location.
func (v *Validator) SetSourceFile(traitName, sourceFile string) {
	if registered, ok := v.entries[traitName]; ok {
		registered.sourceFile = sourceFile
	}
}

// Traits returns the names with a registered schema, sorted.
func (v *Validator) Traits() []string {
	names := make([]string, 0, len(v.entries))
	for name := range v.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns the registered schema for a trait.
func (v *Validator) Schema(traitName string) (*traitschema.Schema, bool) {
	registered, ok := v.entries[traitName]
	if !ok {
		return nil, false
	}
	return registered.schema, true
}

// Validate checks parameters for traitName. Result.Valid is true when
// no issue has error severity.
func (v *Validator) Validate(traitName string, parameters any) Result {
	registered, ok := v.entries[traitName]
	if !ok {
		return result([]issue.Issue{
			issue.New(issue.CodeInvalidTraitSchema, "parameters",
				"Trait '%s' has no parameter schema", traitName),
		})
	}
	if registered.schemaErr != nil {
		return result([]issue.Issue{
			issue.New(issue.CodeInvalidTraitSchema, "parameters",
				"Parameter schema for trait '%s' is malformed: %v", traitName, registered.schemaErr).
				WithFile(registered.sourceFile),
		})
	}

	refinements := append([]traitschema.Refinement(nil), registered.refinements...)
	refinements = append(refinements, v.options.Refinements[traitName]...)

	failures := registered.compiled.CheckWithRefinements(parameters, refinements...)
	issues := issue.FormatSchemaFailures(failures, registered.sourceFile)
	issue.Sort(issues)
	return result(issues)
}

func result(issues []issue.Issue) Result {
	if issues == nil {
		issues = []issue.Issue{}
	}
	return Result{Valid: !issue.HasErrors(issues), Issues: issues}
}
