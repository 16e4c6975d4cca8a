// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/compose"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
)

func TestReportIssues(t *testing.T) {
	var buffer bytes.Buffer
	report := NewReport(&buffer)

	report.Issues([]issue.Issue{
		issue.New(issue.CodeMissingDependency, "traits.Ghost.dependencies", "Trait 'Ghost' depends on 'Base'").
			WithFile("ghost.yaml"),
		issue.New(issue.CodePropertyCollision, "schema.status", "Field 'status' is defined by A and B"),
	})

	output := buffer.String()
	for _, want := range []string{
		"TE-0303 error ghost.yaml:traits.Ghost.dependencies: Trait 'Ghost' depends on 'Base'",
		"TE-0301 warning schema.status:",
		"hint: ",
		"1 error, 1 warning",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("report missing %q:\n%s", want, output)
		}
	}
	// A bytes.Buffer is not a terminal, so no escape sequences.
	if strings.Contains(output, "\x1b[") {
		t.Errorf("plain report contains ANSI escapes:\n%q", output)
	}
}

func TestReportCollisions(t *testing.T) {
	var buffer bytes.Buffer
	report := NewReport(&buffer)

	report.Collisions(nil)
	report.Collisions([]compose.Collision{{
		FieldName:         "status",
		Section:           compose.SectionSchema,
		ConflictingTraits: []string{"A", "B"},
		Resolution:        compose.ResolutionStricterType,
		Winner:            "B",
		Details:           "enum narrows string",
	}})

	output := buffer.String()
	for _, want := range []string{"none", "schema.status  stricter_type  A vs B -> B", "enum narrows string"} {
		if !strings.Contains(output, want) {
			t.Errorf("report missing %q:\n%s", want, output)
		}
	}
}

func TestIssueExit(t *testing.T) {
	warning := issue.New(issue.CodePropertyCollision, "schema.x", "collision")
	failure := issue.New(issue.CodeMissingDependency, "traits.A.dependencies", "missing")

	tests := []struct {
		name          string
		issues        []issue.Issue
		failOnWarning bool
		wantCode      int
	}{
		{"clean", nil, false, 0},
		{"warning only", []issue.Issue{warning}, false, 0},
		{"warning escalated", []issue.Issue{warning}, true, 1},
		{"error", []issue.Issue{failure}, false, 1},
	}
	for _, test := range tests {
		err := IssueExit(test.issues, test.failOnWarning)
		if test.wantCode == 0 {
			if err != nil {
				t.Errorf("%s: IssueExit = %v, want nil", test.name, err)
			}
			continue
		}
		var exitError *ExitError
		if !errors.As(err, &exitError) || exitError.ExitCode() != test.wantCode {
			t.Errorf("%s: IssueExit = %v, want exit code %d", test.name, err, test.wantCode)
		}
	}
}
