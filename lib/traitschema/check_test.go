// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package traitschema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
)

func intPointer(value int) *int           { return &value }
func floatPointer(value float64) *float64 { return &value }
func boolPointer(value bool) *bool        { return &value }

func statefulSchema() *Schema {
	return &Schema{
		Type:     TypeObject,
		Required: []string{"states", "initialState"},
		Properties: map[string]*Schema{
			"states": {
				Type:        TypeArray,
				Items:       &Schema{Type: TypeString, MinLength: intPointer(1)},
				MinItems:    intPointer(1),
				UniqueItems: true,
			},
			"initialState": {Type: TypeString},
			"limit":        {Type: TypeInteger, Minimum: floatPointer(1), Maximum: floatPointer(100)},
			"tone":         {Type: TypeString, Enum: []any{"info", "warn"}},
			"slug":         {Type: TypeString, Pattern: `^[a-z-]+$`},
		},
	}
}

func kinds(failures []issue.SchemaFailure) []string {
	var out []string
	for _, failure := range failures {
		out = append(out, string(failure.Kind)+"@"+issue.JoinPath(failure.Path))
	}
	return out
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  any
		closed bool
		want   []string
	}{
		{
			name:  "valid",
			value: map[string]any{"states": []any{"draft", "live"}, "initialState": "draft"},
		},
		{
			name:  "missing required in declared order",
			value: map[string]any{},
			want:  []string{"required@states", "required@initialState"},
		},
		{
			name:  "wrong root type",
			value: []any{"x"},
			want:  []string{"invalid_type@"},
		},
		{
			name:  "duplicate states",
			value: map[string]any{"states": []any{"a", "a"}, "initialState": "a"},
			want:  []string{"not_unique@states"},
		},
		{
			name:  "empty states",
			value: map[string]any{"states": []any{}, "initialState": "a"},
			want:  []string{"too_small@states"},
		},
		{
			name:  "nested item type",
			value: map[string]any{"states": []any{"a", 3}, "initialState": "a"},
			want:  []string{"invalid_type@states[1]"},
		},
		{
			name:  "integer bound and integrality",
			value: map[string]any{"states": []any{"a"}, "initialState": "a", "limit": 0},
			want:  []string{"too_small@limit"},
		},
		{
			name:  "non integer",
			value: map[string]any{"states": []any{"a"}, "initialState": "a", "limit": 1.5},
			want:  []string{"invalid_type@limit"},
		},
		{
			name:  "enum",
			value: map[string]any{"states": []any{"a"}, "initialState": "a", "tone": "loud"},
			want:  []string{"invalid_enum@tone"},
		},
		{
			name:  "pattern",
			value: map[string]any{"states": []any{"a"}, "initialState": "a", "slug": "Bad Slug"},
			want:  []string{"invalid_string@slug"},
		},
		{
			name:  "open schema ignores unknown",
			value: map[string]any{"states": []any{"a"}, "initialState": "a", "extra": true},
		},
		{
			name:   "closed schema reports unknown sorted",
			value:  map[string]any{"states": []any{"a"}, "initialState": "a", "zeta": 1, "alpha": 2},
			closed: true,
			want:   []string{"unrecognized_keys@"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			failures := Check(statefulSchema(), test.value, Options{Scope: issue.DomainParameters, Closed: test.closed})
			got := kinds(failures)
			if len(got) != len(test.want) {
				t.Fatalf("failures = %v, want %v", got, test.want)
			}
			for index := range got {
				if got[index] != test.want[index] {
					t.Errorf("failure[%d] = %q, want %q", index, got[index], test.want[index])
				}
			}
			for _, failure := range failures {
				if failure.Scope != issue.DomainParameters {
					t.Errorf("failure scope = %q, want parameters", failure.Scope)
				}
			}
		})
	}
}

func TestCheckUnknownKeysSorted(t *testing.T) {
	t.Parallel()

	failures := Check(statefulSchema(), map[string]any{
		"states": []any{"a"}, "initialState": "a", "zeta": 1, "alpha": 2,
	}, Options{Closed: true})
	if len(failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(failures))
	}
	keys := failures[0].Keys
	if len(keys) != 2 || keys[0] != "alpha" || keys[1] != "zeta" {
		t.Errorf("Keys = %v, want [alpha zeta]", keys)
	}
}

func TestCheckAdditionalPropertiesOverridesOption(t *testing.T) {
	t.Parallel()

	schema := &Schema{
		Type:                 TypeObject,
		Properties:           map[string]*Schema{"a": {Type: TypeString}},
		AdditionalProperties: boolPointer(true),
	}
	if failures := Check(schema, map[string]any{"b": 1}, Options{Closed: true}); len(failures) != 0 {
		t.Errorf("explicit additionalProperties=true still failed: %v", kinds(failures))
	}

	schema.AdditionalProperties = boolPointer(false)
	if failures := Check(schema, map[string]any{"b": 1}, Options{}); len(failures) != 1 {
		t.Errorf("explicit additionalProperties=false: got %v, want one failure", kinds(failures))
	}
}

func TestCheckValuesSchema(t *testing.T) {
	t.Parallel()

	schema := &Schema{Type: TypeObject, Values: &Schema{Type: TypeNumber}}
	failures := Check(schema, map[string]any{"a": 1, "b": "two"}, Options{Closed: true})
	got := kinds(failures)
	if len(got) != 1 || got[0] != "invalid_type@b" {
		t.Errorf("failures = %v, want [invalid_type@b]", got)
	}
}

func TestCheckAcceptsDecoderShapes(t *testing.T) {
	t.Parallel()

	var decoded any
	if err := json.Unmarshal([]byte(`{"states":["a","b"],"initialState":"a","limit":10}`), &decoded); err != nil {
		t.Fatal(err)
	}
	if failures := Check(statefulSchema(), decoded, Options{}); len(failures) != 0 {
		t.Errorf("json-decoded value failed: %v", kinds(failures))
	}

	typed := map[string]any{
		"states":       []string{"a", "b"},
		"initialState": "a",
		"limit":        uint64(10),
	}
	if failures := Check(statefulSchema(), typed, Options{}); len(failures) != 0 {
		t.Errorf("typed value failed: %v", kinds(failures))
	}
}

func TestCheckWithRefinements(t *testing.T) {
	t.Parallel()

	calls := 0
	refinement := func(value map[string]any) []issue.SchemaFailure {
		calls++
		if value["initialState"] != "draft" {
			return []issue.SchemaFailure{{Kind: issue.FailureCustom, Path: []string{"initialState"}}}
		}
		return nil
	}

	failures := CheckWithRefinements(statefulSchema(), map[string]any{}, Options{Scope: issue.DomainParameters}, refinement)
	if calls != 0 {
		t.Error("refinement ran although the declarative check failed")
	}
	if len(failures) != 2 {
		t.Errorf("got %d failures, want 2", len(failures))
	}

	failures = CheckWithRefinements(statefulSchema(), map[string]any{
		"states": []any{"a"}, "initialState": "a",
	}, Options{Scope: issue.DomainParameters}, refinement)
	if calls != 1 {
		t.Errorf("refinement ran %d times, want 1", calls)
	}
	if len(failures) != 1 || failures[0].Scope != issue.DomainParameters {
		t.Errorf("failures = %+v, want one parameters-scoped failure", failures)
	}
}

func TestSchemaValidate(t *testing.T) {
	t.Parallel()

	if err := statefulSchema().Validate(); err != nil {
		t.Errorf("valid schema: %v", err)
	}

	bad := &Schema{
		Type: "tuple",
		Properties: map[string]*Schema{
			"range": {Type: TypeNumber, Minimum: floatPointer(5), Maximum: floatPointer(1)},
		},
	}
	err := bad.Validate()
	if err == nil {
		t.Fatal("Validate should fail")
	}
	for _, want := range []string{`unknown type "tuple"`, "minimum 5 exceeds maximum 1"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}

	pattern := &Schema{Type: TypeString, Pattern: "("}
	if pattern.Validate() == nil {
		t.Error("schema with an invalid pattern should fail Validate")
	}

	var nilSchema *Schema
	if nilSchema.Validate() == nil {
		t.Error("nil schema should fail Validate")
	}
}

func TestDocument(t *testing.T) {
	t.Parallel()

	schema := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"tags":  {Type: TypeArray, Items: &Schema{Type: TypeAny}},
			"props": {Type: TypeObject, Values: &Schema{Type: TypeString}},
		},
	}

	open := schema.Document(false)
	if open["$schema"] != draft {
		t.Errorf("$schema = %v, want %s", open["$schema"], draft)
	}
	if _, ok := open["additionalProperties"]; ok {
		t.Error("open document should not restrict additional properties")
	}

	closed := schema.Document(true)
	if closed["additionalProperties"] != false {
		t.Errorf("closed root additionalProperties = %v, want false", closed["additionalProperties"])
	}
	properties := closed["properties"].(map[string]any)
	props := properties["props"].(map[string]any)
	if values, ok := props["additionalProperties"].(map[string]any); !ok || values["type"] != TypeString {
		t.Errorf("values schema rendered as %v", props["additionalProperties"])
	}
	items := properties["tags"].(map[string]any)["items"].(map[string]any)
	if _, ok := items["type"]; ok {
		t.Errorf("any type rendered a type keyword: %v", items)
	}
}

func TestCompiledIsReusable(t *testing.T) {
	t.Parallel()

	compiled, err := Compile(statefulSchema(), Options{Scope: issue.DomainParameters, Closed: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if failures := compiled.Check(map[string]any{"states": []any{"a"}, "initialState": "a"}); len(failures) != 0 {
		t.Errorf("valid value failed: %v", kinds(failures))
	}
	got := kinds(compiled.Check(map[string]any{"states": []any{"a"}, "initialState": "a", "extra": 1}))
	if len(got) != 1 || got[0] != "unrecognized_keys@" {
		t.Errorf("failures = %v, want [unrecognized_keys@]", got)
	}

	if _, err := Compile(nil, Options{}); err == nil {
		t.Error("Compile(nil) should fail")
	}
}

func TestCheckReportsUncompilableSchema(t *testing.T) {
	t.Parallel()

	failures := Check(&Schema{Type: TypeString, Pattern: "("}, "x", Options{Scope: issue.DomainParameters})
	if len(failures) != 1 || failures[0].Code != issue.CodeInvalidTraitSchema {
		t.Errorf("failures = %+v, want one TE-0101 failure", failures)
	}
}

func TestCheckBoundsCarryLimits(t *testing.T) {
	t.Parallel()

	failures := Check(statefulSchema(), map[string]any{
		"states": []any{"a"}, "initialState": "a", "limit": 250,
	}, Options{})
	if len(failures) != 1 {
		t.Fatalf("got %v, want one failure", kinds(failures))
	}
	failure := failures[0]
	if failure.Kind != issue.FailureTooBig || failure.Maximum == nil || *failure.Maximum != 100 {
		t.Errorf("failure = %+v, want too_big with maximum 100", failure)
	}
	if failure.Subject != issue.SubjectNumber || failure.Received != "250" {
		t.Errorf("subject = %q received = %q", failure.Subject, failure.Received)
	}
}

func TestSchemaDecodesFromJSON(t *testing.T) {
	t.Parallel()

	var schema Schema
	err := json.Unmarshal([]byte(`{
		"type": "object",
		"required": ["states"],
		"properties": {"states": {"type": "array", "items": {"type": "string"}, "minItems": 1, "uniqueItems": true}}
	}`), &schema)
	if err != nil {
		t.Fatal(err)
	}
	if schema.Properties["states"].MinItems == nil || *schema.Properties["states"].MinItems != 1 {
		t.Error("minItems did not decode")
	}
	if !schema.Properties["states"].UniqueItems {
		t.Error("uniqueItems did not decode")
	}
}
