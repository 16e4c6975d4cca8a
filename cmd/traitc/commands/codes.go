// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/cmd/traitc/cli"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
)

// codeEntry is one row of the JSON output for codes.
type codeEntry struct {
	Code     issue.Code     `json:"code"`
	Name     string         `json:"name"`
	Domain   issue.Domain   `json:"domain"`
	Severity issue.Severity `json:"severity"`
	FixHint  string         `json:"fixHint"`
}

func codesCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
		Domain string `json:"domain" flag:"domain" desc:"only list codes in this domain (structure, parameters, composition, runtime)"`
	}

	return &cli.Command{
		Name:    "codes",
		Summary: "List the issue code taxonomy",
		Usage:   "traitc codes [flags]",
		Examples: []cli.Example{
			{
				Description: "Composition codes only",
				Command:     "traitc codes --domain composition",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("usage: traitc codes [--domain <domain>]")
			}

			var entries []codeEntry
			for _, code := range issue.Registry() {
				if params.Domain != "" && !strings.EqualFold(string(code.Domain()), params.Domain) {
					continue
				}
				entries = append(entries, codeEntry{
					Code:     code,
					Name:     code.Name(),
					Domain:   code.Domain(),
					Severity: code.DefaultSeverity(),
					FixHint:  code.DefaultFixHint(),
				})
			}
			if len(entries) == 0 {
				return cli.NotFound("no issue codes in domain %q", params.Domain)
			}

			if done, err := params.EmitJSON(entries); done {
				return err
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.Code.String(), entry.Name, string(entry.Domain), string(entry.Severity)})
			}
			cli.NewReport(os.Stdout).Table(rows)
			return nil
		},
	}
}
