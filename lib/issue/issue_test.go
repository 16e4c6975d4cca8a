// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package issue

import (
	"strings"
	"testing"
)

func TestNewUsesCodeDefaults(t *testing.T) {
	t.Parallel()

	item := New(CodePropertyCollision, "schema.status", "field %q collides", "status")
	if item.Severity != SeverityWarning {
		t.Errorf("Severity = %q, want warning", item.Severity)
	}
	if item.Domain != DomainComposition {
		t.Errorf("Domain = %q, want composition", item.Domain)
	}
	if item.Source != SourceInternal {
		t.Errorf("Source = %q, want internal", item.Source)
	}
	if item.Message != `field "status" collides` {
		t.Errorf("Message = %q", item.Message)
	}
	if item.FixHint == "" {
		t.Error("FixHint is empty")
	}

	escalated := item.WithSeverity(SeverityError).WithFile("a.yaml")
	if !escalated.IsError() || escalated.Location.File != "a.yaml" {
		t.Errorf("escalated = %+v", escalated)
	}
	if item.IsError() {
		t.Error("WithSeverity mutated the original issue")
	}
}

func TestSortIsDeterministic(t *testing.T) {
	t.Parallel()

	issues := []Issue{
		New(CodeMissingDependency, "dependencies.B", "b"),
		New(CodeInvalidFieldType, "version", "v"),
		New(CodeMissingDependency, "dependencies.A", "a"),
		New(CodePropertyCollision, "schema.x", "x"),
		New(CodeParameterRequired, "states", "s"),
	}
	Sort(issues)

	var got []string
	for _, item := range issues {
		got = append(got, item.Code.String()+" "+item.Location.Path)
	}
	want := []string{
		"TE-0103 version",
		"TE-0202 states",
		"TE-0301 schema.x",
		"TE-0303 dependencies.A",
		"TE-0303 dependencies.B",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("sorted = %v, want %v", got, want)
	}
}

func TestCountAndHasErrors(t *testing.T) {
	t.Parallel()

	issues := []Issue{
		New(CodePropertyCollision, "a", "a"),
		New(CodePropertyCollision, "b", "b"),
	}
	if HasErrors(issues) {
		t.Error("HasErrors = true for warnings only")
	}
	issues = append(issues, New(CodeMissingDependency, "c", "c"))
	errors, warnings := Count(issues)
	if errors != 1 || warnings != 2 {
		t.Errorf("Count = %d errors, %d warnings; want 1, 2", errors, warnings)
	}
	if !HasErrors(issues) {
		t.Error("HasErrors = false with an error present")
	}
}

func TestIssueString(t *testing.T) {
	t.Parallel()

	item := New(CodeMissingDependency, "dependencies.Ghost", "missing Ghost").WithFile("a.yaml")
	want := "TE-0303 error at a.yaml:dependencies.Ghost: missing Ghost"
	if got := item.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
