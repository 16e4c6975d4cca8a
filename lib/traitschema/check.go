// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package traitschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
)

// Options controls compilation and checking.
type Options struct {
	// Scope is recorded on every failure and selects the code family
	// when the failure is formatted.
	Scope issue.Domain

	// Closed rejects object keys that are not declared in Properties
	// for every object schema that does not set additionalProperties
	// or Values explicitly.
	Closed bool
}

// Refinement is a cross-field rule run after the declarative check
// passes. It receives the normalized top-level object.
type Refinement func(value map[string]any) []issue.SchemaFailure

// resource is the name every schema document is registered under.
// Each compilation uses its own compiler, so the name never clashes.
const resource = "traitschema.json"

var printer = message.NewPrinter(language.English)

// Compiled is a schema compiled for repeated checks. It is safe for
// concurrent use.
type Compiled struct {
	schema  *jsonschema.Schema
	options Options
}

// Compile renders schema as a JSON Schema document and compiles it.
func Compile(schema *Schema, options Options) (*Compiled, error) {
	if schema == nil {
		return nil, errors.New("schema is nil")
	}
	document, err := reparse(schema.Document(options.Closed))
	if err != nil {
		return nil, fmt.Errorf("encoding schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft2020)
	if err := compiler.AddResource(resource, document); err != nil {
		return nil, fmt.Errorf("adding schema: %w", err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &Compiled{schema: compiled, options: options}, nil
}

// MustCompile is [Compile] for schemas fixed at build time.
func MustCompile(schema *Schema, options Options) *Compiled {
	compiled, err := Compile(schema, options)
	if err != nil {
		panic(err)
	}
	return compiled
}

// Check validates value and returns the raw failures. Values are
// normalized first (see [Normalize]), so the input may come from any
// of the JSON, YAML or CBOR decoders.
func (c *Compiled) Check(value any) []issue.SchemaFailure {
	normalized := Normalize(value)
	instance, err := reparse(normalized)
	if err != nil {
		return []issue.SchemaFailure{{
			Kind:    issue.FailureCustom,
			Scope:   c.options.Scope,
			Message: fmt.Sprintf("Value cannot be checked: %v", err),
		}}
	}

	err = c.schema.Validate(instance)
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []issue.SchemaFailure{{
			Kind:    issue.FailureCustom,
			Scope:   c.options.Scope,
			Message: err.Error(),
		}}
	}
	return translate(validationErr, normalized, c.options.Scope)
}

// CheckWithRefinements runs [Compiled.Check] and, only when it
// reports nothing and the value is an object, each refinement in
// order.
func (c *Compiled) CheckWithRefinements(value any, refinements ...Refinement) []issue.SchemaFailure {
	failures := c.Check(value)
	if len(failures) > 0 || len(refinements) == 0 {
		return failures
	}
	object, ok := Normalize(value).(map[string]any)
	if !ok {
		return nil
	}
	for _, refine := range refinements {
		for _, failure := range refine(object) {
			if failure.Scope == "" {
				failure.Scope = c.options.Scope
			}
			failures = append(failures, failure)
		}
	}
	return failures
}

// Check compiles schema and checks value against it. A schema that
// does not compile is reported as a single custom failure.
func Check(schema *Schema, value any, options Options) []issue.SchemaFailure {
	return CheckWithRefinements(schema, value, options)
}

// CheckWithRefinements compiles schema and runs
// [Compiled.CheckWithRefinements].
func CheckWithRefinements(schema *Schema, value any, options Options, refinements ...Refinement) []issue.SchemaFailure {
	if schema == nil {
		return nil
	}
	compiled, err := Compile(schema, options)
	if err != nil {
		return []issue.SchemaFailure{{
			Kind:    issue.FailureCustom,
			Code:    issue.CodeInvalidTraitSchema,
			Scope:   options.Scope,
			Message: fmt.Sprintf("Schema is invalid: %v", err),
		}}
	}
	return compiled.CheckWithRefinements(value, refinements...)
}

// reparse round-trips a value through JSON so numbers reach the
// validator as json.Number.
func reparse(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// translate flattens a validation error tree into raw failures. Leaves
// are ordered by instance location and keyword so the result does not
// depend on the validator's traversal order. A type mismatch hides
// every other failure at the same location.
func translate(root *jsonschema.ValidationError, value any, scope issue.Domain) []issue.SchemaFailure {
	var leaves []*jsonschema.ValidationError
	var collect func(*jsonschema.ValidationError)
	collect = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			leaves = append(leaves, node)
			return
		}
		for _, cause := range node.Causes {
			collect(cause)
		}
	}
	collect(root)

	sort.SliceStable(leaves, func(a, b int) bool {
		left, right := strings.Join(leaves[a].InstanceLocation, "\x00"), strings.Join(leaves[b].InstanceLocation, "\x00")
		if left != right {
			return left < right
		}
		return strings.Join(leaves[a].ErrorKind.KeywordPath(), "/") < strings.Join(leaves[b].ErrorKind.KeywordPath(), "/")
	})

	mistyped := make(map[string]bool)
	for _, leaf := range leaves {
		if _, ok := leaf.ErrorKind.(*kind.Type); ok {
			mistyped[strings.Join(leaf.InstanceLocation, "\x00")] = true
		}
	}

	var failures []issue.SchemaFailure
	for _, leaf := range leaves {
		location := strings.Join(leaf.InstanceLocation, "\x00")
		if _, isType := leaf.ErrorKind.(*kind.Type); mistyped[location] && !isType {
			continue
		}
		path, current := segments(value, leaf.InstanceLocation)
		for _, failure := range failuresFor(leaf.ErrorKind, path, current) {
			failure.Scope = scope
			failures = append(failures, failure)
		}
	}
	return failures
}

// failuresFor maps one error kind onto the failure shapes the issue
// formatter understands.
func failuresFor(errorKind jsonschema.ErrorKind, path []string, value any) []issue.SchemaFailure {
	at := func(failure issue.SchemaFailure) []issue.SchemaFailure {
		failure.Path = path
		return []issue.SchemaFailure{failure}
	}
	bound := func(n int) *float64 {
		converted := float64(n)
		return &converted
	}

	switch typed := errorKind.(type) {
	case *kind.Required:
		failures := make([]issue.SchemaFailure, 0, len(typed.Missing))
		for _, name := range typed.Missing {
			failures = append(failures, issue.SchemaFailure{
				Kind: issue.FailureRequired,
				Path: append(slices.Clone(path), name),
			})
		}
		return failures
	case *kind.Type:
		return at(issue.SchemaFailure{
			Kind:     issue.FailureInvalidType,
			Expected: strings.Join(typed.Want, " or "),
			Received: KindOf(value),
		})
	case *kind.Enum:
		options := make([]string, 0, len(typed.Want))
		for _, option := range typed.Want {
			options = append(options, render(Normalize(option)))
		}
		return at(issue.SchemaFailure{Kind: issue.FailureInvalidEnum, Options: options, Received: render(value)})
	case *kind.AdditionalProperties:
		keys := slices.Clone(typed.Properties)
		sort.Strings(keys)
		return at(issue.SchemaFailure{Kind: issue.FailureUnrecognizedKeys, Keys: keys})
	case *kind.UniqueItems:
		return at(issue.SchemaFailure{Kind: issue.FailureNotUnique})
	case *kind.Pattern:
		return at(issue.SchemaFailure{Kind: issue.FailureInvalidString, Expected: typed.Want, Received: typed.Got})
	case *kind.MinItems:
		return at(issue.SchemaFailure{Kind: issue.FailureTooSmall, Minimum: bound(typed.Want), Subject: issue.SubjectArray})
	case *kind.MaxItems:
		return at(issue.SchemaFailure{Kind: issue.FailureTooBig, Maximum: bound(typed.Want), Subject: issue.SubjectArray})
	case *kind.MinLength:
		return at(issue.SchemaFailure{Kind: issue.FailureTooSmall, Minimum: bound(typed.Want), Subject: issue.SubjectString})
	case *kind.MaxLength:
		return at(issue.SchemaFailure{Kind: issue.FailureTooBig, Maximum: bound(typed.Want), Subject: issue.SubjectString})
	case *kind.Minimum:
		minimum, _ := typed.Want.Float64()
		return at(issue.SchemaFailure{Kind: issue.FailureTooSmall, Minimum: &minimum, Subject: issue.SubjectNumber, Received: render(value)})
	case *kind.Maximum:
		maximum, _ := typed.Want.Float64()
		return at(issue.SchemaFailure{Kind: issue.FailureTooBig, Maximum: &maximum, Subject: issue.SubjectNumber, Received: render(value)})
	}
	return at(issue.SchemaFailure{Kind: issue.FailureCustom, Message: errorKind.LocalizedString(printer)})
}

// segments converts a JSON pointer location into failure path
// segments, rendering array indices as "[n]", and returns the value
// found there.
func segments(value any, location []string) ([]string, any) {
	path := make([]string, 0, len(location))
	current := value
	for _, token := range location {
		switch container := current.(type) {
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(container) {
				path = append(path, token)
				current = nil
				continue
			}
			path = append(path, issue.IndexSegment(index))
			current = container[index]
		case map[string]any:
			path = append(path, token)
			current = container[token]
		default:
			path = append(path, token)
			current = nil
		}
	}
	return path, current
}
