// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package params

import (
	"strings"
	"sync"
	"testing"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/trait"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitschema"
)

func statefulValidator(options Options) *Validator {
	validator := NewValidator(nil, options)
	validator.RegisterStateful()
	return validator
}

func TestValidateStateful(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		parameters any
		open       bool
		wantValid  bool
		wantCodes  []issue.Code
		wantPaths  []string
		wantHint   string
	}{
		{
			name:       "valid",
			parameters: map[string]any{"states": []any{"draft", "active"}, "initialState": "draft"},
			wantValid:  true,
		},
		{
			name:       "missing required",
			parameters: map[string]any{"states": []any{"draft"}},
			wantCodes:  []issue.Code{issue.CodeParameterRequired},
			wantPaths:  []string{"initialState"},
			wantHint:   "Add the required 'initialState'",
		},
		{
			name:       "wrong type",
			parameters: map[string]any{"states": "draft", "initialState": "draft"},
			wantCodes:  []issue.Code{issue.CodeParameterTypeMismatch},
			wantPaths:  []string{"states"},
		},
		{
			name:       "wrong element type",
			parameters: map[string]any{"states": []any{"draft", 2}, "initialState": "draft"},
			wantCodes:  []issue.Code{issue.CodeParameterTypeMismatch},
			wantPaths:  []string{"states[1]"},
		},
		{
			name:       "duplicate states",
			parameters: map[string]any{"states": []any{"draft", "draft"}, "initialState": "draft"},
			wantCodes:  []issue.Code{issue.CodeParameterOutOfRange},
			wantPaths:  []string{"states"},
			wantHint:   "Remove duplicate items",
		},
		{
			name:       "empty states",
			parameters: map[string]any{"states": []any{}, "initialState": "draft"},
			wantCodes:  []issue.Code{issue.CodeParameterOutOfRange},
			wantPaths:  []string{"states"},
			wantHint:   "Add more items",
		},
		{
			name:       "initial state not declared",
			parameters: map[string]any{"states": []any{"draft", "active"}, "initialState": "archived"},
			wantCodes:  []issue.Code{issue.CodeParameterOutOfRange},
			wantPaths:  []string{"initialState"},
			wantHint:   "Use one of: draft, active",
		},
		{
			name:       "unknown parameter under closed policy",
			parameters: map[string]any{"states": []any{"draft"}, "initialState": "draft", "color": "red"},
			wantCodes:  []issue.Code{issue.CodeParameterUnknown},
			wantPaths:  []string{""},
		},
		{
			name:       "unknown parameter under open policy",
			parameters: map[string]any{"states": []any{"draft"}, "initialState": "draft", "color": "red"},
			open:       true,
			wantValid:  true,
		},
		{
			name:       "not an object",
			parameters: []any{"draft"},
			wantCodes:  []issue.Code{issue.CodeParameterTypeMismatch},
			wantPaths:  []string{""},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			result := statefulValidator(Options{Open: test.open}).Validate(StatefulTrait, test.parameters)
			if result.Valid != test.wantValid {
				t.Errorf("Valid = %v, want %v (issues: %v)", result.Valid, test.wantValid, result.Issues)
			}
			if len(result.Issues) != len(test.wantCodes) {
				t.Fatalf("issues = %v, want codes %v", result.Issues, test.wantCodes)
			}
			for index, item := range result.Issues {
				if item.Code != test.wantCodes[index] {
					t.Errorf("issue[%d].Code = %s, want %s", index, item.Code, test.wantCodes[index])
				}
				if item.Location.Path != test.wantPaths[index] {
					t.Errorf("issue[%d].Path = %q, want %q", index, item.Location.Path, test.wantPaths[index])
				}
				if item.Domain != issue.DomainParameters {
					t.Errorf("issue[%d].Domain = %q, want parameters", index, item.Domain)
				}
				if item.Source != issue.SourceSchemaValidator {
					t.Errorf("issue[%d].Source = %q, want schema-validator", index, item.Source)
				}
			}
			if test.wantHint != "" && result.Issues[0].FixHint != test.wantHint {
				t.Errorf("FixHint = %q, want %q", result.Issues[0].FixHint, test.wantHint)
			}
		})
	}
}

func TestValidateUnknownTrait(t *testing.T) {
	t.Parallel()

	result := NewValidator(nil, Options{}).Validate("Ghost", map[string]any{})
	if result.Valid {
		t.Error("unknown trait validated")
	}
	if len(result.Issues) != 1 || result.Issues[0].Code != issue.CodeInvalidTraitSchema {
		t.Errorf("issues = %v, want one TE-0101", result.Issues)
	}
}

func TestValidateMalformedSchema(t *testing.T) {
	t.Parallel()

	validator := NewValidator(nil, Options{})
	validator.Register("Broken", &traitschema.Schema{Type: "tuple"})
	validator.Register("Nil", nil)
	validator.SetSourceFile("Broken", "traits/broken.yaml")

	broken := validator.Validate("Broken", map[string]any{})
	if len(broken.Issues) != 1 || broken.Issues[0].Code != issue.CodeInvalidTraitSchema {
		t.Fatalf("issues = %v, want one TE-0101", broken.Issues)
	}
	if broken.Issues[0].Location.File != "traits/broken.yaml" {
		t.Errorf("File = %q", broken.Issues[0].Location.File)
	}
	if !strings.Contains(broken.Issues[0].Message, "tuple") {
		t.Errorf("Message = %q", broken.Issues[0].Message)
	}

	if result := validator.Validate("Nil", map[string]any{}); result.Valid || result.Issues[0].Code != issue.CodeInvalidTraitSchema {
		t.Errorf("nil schema result = %+v", result)
	}
}

func TestNewValidatorUsesDefinitionSchemas(t *testing.T) {
	t.Parallel()

	minimum := 1.0
	definitions := []*trait.Definition{
		{Name: "Paginated", Parameters: &traitschema.Schema{
			Type:       traitschema.TypeObject,
			Required:   []string{"pageSize"},
			Properties: map[string]*traitschema.Schema{"pageSize": {Type: traitschema.TypeInteger, Minimum: &minimum}},
		}},
		{Name: "Plain"},
	}
	validator := NewValidator(definitions, Options{})

	if got := validator.Traits(); len(got) != 1 || got[0] != "Paginated" {
		t.Errorf("Traits() = %v, want [Paginated]", got)
	}
	if _, ok := validator.Schema("Paginated"); !ok {
		t.Error("Schema(Paginated) missing")
	}

	result := validator.Validate("Paginated", map[string]any{"pageSize": 0})
	if result.Valid || len(result.Issues) != 1 || result.Issues[0].Code != issue.CodeParameterOutOfRange {
		t.Fatalf("result = %+v, want one TE-0203", result)
	}
	if result.Issues[0].FixHint != "Increase the value to at least 1" {
		t.Errorf("FixHint = %q", result.Issues[0].FixHint)
	}

	if ok := validator.Validate("Paginated", map[string]any{"pageSize": 25}); !ok.Valid {
		t.Errorf("valid parameters rejected: %v", ok.Issues)
	}
	if plain := validator.Validate("Plain", map[string]any{}); plain.Valid {
		t.Error("trait without parameter schema validated")
	}
}

func TestRefinementSeverityOverride(t *testing.T) {
	t.Parallel()

	advisory := func(value map[string]any) []issue.SchemaFailure {
		states, _ := value["states"].([]any)
		if len(states) > 3 {
			return []issue.SchemaFailure{{
				Kind:     issue.FailureCustom,
				Path:     []string{"states"},
				Message:  "More than three states makes the lifecycle hard to follow",
				Severity: issue.SeverityWarning,
			}}
		}
		return nil
	}
	validator := statefulValidator(Options{
		Refinements: map[string][]traitschema.Refinement{StatefulTrait: {advisory}},
	})

	result := validator.Validate(StatefulTrait, map[string]any{
		"states": []any{"a", "b", "c", "d"}, "initialState": "a",
	})
	if !result.Valid {
		t.Errorf("warning-only result reported invalid: %v", result.Issues)
	}
	if len(result.Issues) != 1 || result.Issues[0].Severity != issue.SeverityWarning {
		t.Errorf("issues = %v, want one warning", result.Issues)
	}
}

func TestRegisterStatefulKeepsDefinitionSchema(t *testing.T) {
	t.Parallel()

	custom := StatefulSchema()
	custom.Properties["states"].MinItems = nil
	validator := NewValidator([]*trait.Definition{{Name: StatefulTrait, Parameters: custom}}, Options{})
	validator.RegisterStateful()

	schema, _ := validator.Schema(StatefulTrait)
	if schema != custom {
		t.Error("RegisterStateful replaced the definition's schema")
	}
	result := validator.Validate(StatefulTrait, map[string]any{"states": []any{"a"}, "initialState": "b"})
	if len(result.Issues) != 1 || result.Issues[0].Code != issue.CodeParameterOutOfRange {
		t.Errorf("issues = %v, want the refinement's TE-0203", result.Issues)
	}
}

func TestValidateIsSafeConcurrently(t *testing.T) {
	t.Parallel()

	validator := statefulValidator(Options{})
	var wait sync.WaitGroup
	for run := range 8 {
		wait.Add(1)
		go func() {
			defer wait.Done()
			initial := "draft"
			if run%2 == 1 {
				initial = "missing"
			}
			result := validator.Validate(StatefulTrait, map[string]any{"states": []any{"draft"}, "initialState": initial})
			if result.Valid != (run%2 == 0) {
				t.Errorf("run %d: Valid = %v", run, result.Valid)
			}
		}()
	}
	wait.Wait()
}
