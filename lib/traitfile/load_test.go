// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package traitfile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/trait"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitschema"
)

const taggableYAML = `# Taggable adds a tag list.
name: Taggable
version: 1.0.0
schema:
  tags:
    type: array
    description: Free-form tags
actions: [tag, untag]
`

const statusJSONC = `{
  // Status lifecycle
  "name": "Statusable",
  "version": "2.0.0",
  "schema": {
    "status": {"type": "enum", "required": true, "constraints": {"enum": ["draft", "live"]}},
  },
  "state_machine": {
    "states": ["draft", "live"],
    "initial": "draft",
    "transitions": [{"from": "draft", "to": "live", "action": "publish"}],
  },
}
`

const brokenVersionYAML = `name: Broken
version: not-a-version
schema: {}
`

func writeFile(t *testing.T, directory, name, content string) string {
	t.Helper()
	path := filepath.Join(directory, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func codes(issues []issue.Issue) []issue.Code {
	var result []issue.Code
	for _, each := range issues {
		result = append(result, each.Code)
	}
	return result
}

func TestLoadDirectory(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	writeFile(t, directory, "b-status.jsonc", statusJSONC)
	writeFile(t, directory, "a-taggable.yaml", taggableYAML)
	writeFile(t, directory, "README.md", "not a trait")
	if err := os.Mkdir(filepath.Join(directory, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(directory, "nested"), "ignored.yaml", taggableYAML)

	result, err := Load(Options{}, directory)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("Issues = %v, want none", result.Issues)
	}
	if names := trait.Names(result.Definitions); !slices.Equal(names, []string{"Taggable", "Statusable"}) {
		t.Errorf("loaded %v, want [Taggable Statusable]", names)
	}
	if len(result.Files) != 2 {
		t.Errorf("Files = %v, want 2 entries", result.Files)
	}

	status := result.Definitions[1]
	if status.StateMachine == nil || status.StateMachine.Initial != "draft" {
		t.Errorf("state machine = %+v", status.StateMachine)
	}
	if got := status.Schema["status"].Constraints.Enum; !slices.Equal(got, []string{"draft", "live"}) {
		t.Errorf("status enum = %v", got)
	}
	if result.Sources["Statusable"] != filepath.Join(directory, "b-status.jsonc") {
		t.Errorf("Sources = %v", result.Sources)
	}
}

func TestLoadReportsInvalidFiles(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	good := writeFile(t, directory, "good.yml", taggableYAML)
	broken := writeFile(t, directory, "broken.yaml", brokenVersionYAML)
	syntax := writeFile(t, directory, "syntax.json", `{"name": `)
	list := writeFile(t, directory, "list.yaml", "- one\n- two\n")

	result, err := Load(Options{}, good, broken, syntax, list)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if names := trait.Names(result.Definitions); !slices.Equal(names, []string{"Taggable"}) {
		t.Errorf("loaded %v, want [Taggable]", names)
	}

	files := make(map[string]issue.Code)
	for _, each := range result.Issues {
		files[each.Location.File] = each.Code
	}
	if files[broken] != issue.CodeInvalidFieldType {
		t.Errorf("broken version issue = %v, want TE-0103", files[broken])
	}
	if files[syntax] != issue.CodeInvalidTraitSchema {
		t.Errorf("syntax issue = %v, want TE-0101", files[syntax])
	}
	if files[list] != issue.CodeInvalidTraitSchema {
		t.Errorf("list issue = %v, want TE-0101", files[list])
	}
}

func TestLoadDuplicateTrait(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	first := writeFile(t, directory, "first.yaml", taggableYAML)
	second := writeFile(t, directory, "second.yaml", taggableYAML)

	result, err := Load(Options{}, first, second)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Definitions) != 1 {
		t.Errorf("loaded %d definitions, want 1", len(result.Definitions))
	}
	if len(result.Issues) != 1 || result.Issues[0].Location.File != second {
		t.Errorf("Issues = %v, want one duplicate issue on %s", result.Issues, second)
	}
}

func TestLoadNothingResolved(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		paths func(directory string) []string
	}{
		{"empty directory", func(directory string) []string { return []string{directory} }},
		{"missing path", func(directory string) []string { return []string{filepath.Join(directory, "absent")} }},
		{"no paths", func(string) []string { return nil }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			result, err := Load(Options{}, test.paths(t.TempDir())...)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(result.Definitions) != 0 {
				t.Errorf("loaded %d definitions", len(result.Definitions))
			}
			if !slices.Contains(codes(result.Issues), issue.CodeNoTraitFiles) {
				t.Errorf("Issues = %v, want TE-0104", result.Issues)
			}
		})
	}
}

func TestIsTraitFile(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"a.yaml": true, "a.YML": true, "a.json": true, "a.jsonc": true,
		"a.toml": false, "yaml": false, "a.yaml.bak": false,
	} {
		if got := IsTraitFile(name); got != want {
			t.Errorf("IsTraitFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestDecodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file string
		data string
		kind string
	}{
		{"p.yaml", "states: [a, b]\ninitialState: a\n", "object"},
		{"p.jsonc", "[1, 2, /* three */ 3,]", "array"},
		{"p.yml", "42\n", "number"},
		{"p.json", `"text"`, "string"},
	}
	for _, test := range tests {
		value, err := DecodeValue(test.file, []byte(test.data))
		if err != nil {
			t.Errorf("DecodeValue(%s): %v", test.file, err)
			continue
		}
		if got := traitschema.KindOf(value); got != test.kind {
			t.Errorf("DecodeValue(%s) kind = %s, want %s", test.file, got, test.kind)
		}
	}

	if _, err := DecodeDocument("p.yaml", []byte("- a\n")); err == nil {
		t.Error("DecodeDocument accepted a sequence")
	}
}
