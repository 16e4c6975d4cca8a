// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/cmd/traitc/cli"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitfile"
)

// structureResult is the JSON output for structure.
type structureResult struct {
	File   string        `json:"file"`
	Trait  string        `json:"trait,omitempty"`
	Valid  bool          `json:"valid"`
	Issues []issue.Issue `json:"issues"`
}

func structureCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
		cli.Verbosity
	}

	return &cli.Command{
		Name:    "structure",
		Summary: "Check trait files against the definition grammar",
		Description: `Validate the structure of individual trait files without composing
them: required keys, value types, semantic versions, known field types
and state machine references. Reports TE-01XX issues per file.`,
		Usage: "traitc structure <file>... [flags]",
		Examples: []cli.Example{
			{
				Description: "Check one trait file",
				Command:     "traitc structure traits/statusable.yaml",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("usage: traitc structure <file>...")
			}
			loaded, err := traitfile.Load(traitfile.Options{Logger: logger}, args...)
			if err != nil {
				return cli.Internal("loading traits: %w", err)
			}

			traitOf := make(map[string]string, len(loaded.Sources))
			for name, file := range loaded.Sources {
				traitOf[file] = name
			}
			byFile := make(map[string][]issue.Issue)
			for _, each := range loaded.Issues {
				byFile[each.Location.File] = append(byFile[each.Location.File], each)
			}

			results := make([]structureResult, 0, len(loaded.Files))
			resolved := make(map[string]bool, len(loaded.Files))
			for _, file := range loaded.Files {
				resolved[file] = true
				fileIssues := byFile[file]
				if fileIssues == nil {
					fileIssues = []issue.Issue{}
				}
				results = append(results, structureResult{
					File:   file,
					Trait:  traitOf[file],
					Valid:  !issue.HasErrors(fileIssues),
					Issues: fileIssues,
				})
			}

			// Issues not tied to a resolved file: missing paths and
			// the empty-set TE-0104.
			var unresolved []issue.Issue
			for _, each := range loaded.Issues {
				if !resolved[each.Location.File] {
					unresolved = append(unresolved, each)
				}
			}

			if done, err := params.EmitJSON(results); done {
				if err != nil {
					return err
				}
				return cli.IssueExit(loaded.Issues, false)
			}

			report := cli.NewReport(os.Stdout)
			for _, result := range results {
				if len(result.Issues) == 0 {
					report.Line("%s: valid (%s)", result.File, result.Trait)
					continue
				}
				report.Heading(result.File)
				report.Issues(result.Issues)
			}
			if len(unresolved) > 0 {
				report.Issues(unresolved)
			}
			return cli.IssueExit(loaded.Issues, false)
		},
	}
}
