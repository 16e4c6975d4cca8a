// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/cmd/traitc/cli"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
)

type validateParams struct {
	loadParams
	GraphChecks   bool `json:"graph_checks"    flag:"graph-checks" desc:"report dependency cycles and declared conflicts"`
	FailOnWarning bool `json:"fail_on_warning" flag:"fail-on-warning" desc:"exit 1 when any warning is reported"`
}

// validationResult is the JSON output for validate.
type validationResult struct {
	Files    []string      `json:"files"`
	Traits   []string      `json:"traits"`
	Valid    bool          `json:"valid"`
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
	Issues   []issue.Issue `json:"issues"`
}

func validateCommand() *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Report every issue in a trait set",
		Description: `Load, compose and validate trait files, printing only the issues.
Exits 1 when any error-severity issue is found, or any issue at all
with --fail-on-warning.`,
		Usage: "traitc validate [path...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Fail on collisions as well as errors",
				Command:     "traitc validate --fail-on-warning traits/",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.LoadConfig()
			if err != nil {
				return err
			}
			composed, err := composeTraits(cfg, args, params.GraphChecks, nil, logger)
			if err != nil {
				return err
			}

			errors, warnings := issue.Count(composed.issues)
			output := validationResult{
				Files:    composed.loaded.Files,
				Traits:   namesOf(composed),
				Valid:    errors == 0,
				Errors:   errors,
				Warnings: warnings,
				Issues:   composed.issues,
			}
			if done, err := params.EmitJSON(output); done {
				if err != nil {
					return err
				}
				return cli.IssueExit(composed.issues, params.FailOnWarning)
			}

			report := cli.NewReport(os.Stdout)
			report.Line("%d %s in %d %s", len(output.Traits), plural("trait", len(output.Traits)),
				len(output.Files), plural("file", len(output.Files)))
			report.Issues(composed.issues)
			return cli.IssueExit(composed.issues, params.FailOnWarning)
		},
	}
}

func namesOf(composed *composition) []string {
	names := make([]string, 0, len(composed.loaded.Definitions))
	for _, definition := range composed.loaded.Definitions {
		names = append(names, definition.Name)
	}
	return names
}

func plural(noun string, count int) string {
	if count == 1 {
		return noun
	}
	return fmt.Sprintf("%ss", noun)
}
