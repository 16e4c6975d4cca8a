// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/cmd/traitc/cli"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitgraph"
)

// graphResult is the JSON output for graph.
type graphResult struct {
	Order     []string                  `json:"order"`
	Cycle     []string                  `json:"cycle,omitempty"`
	Missing   []traitgraph.Dependency   `json:"missing"`
	Conflicts []traitgraph.ConflictPair `json:"conflicts"`
}

func graphCommand() *cli.Command {
	var params loadParams

	return &cli.Command{
		Name:    "graph",
		Summary: "Show the trait dependency graph",
		Description: `Print the order traits would be applied in, dependencies that are not
in the set, declared conflicts between present traits, and the cycle
that makes ordering impossible if there is one. Exits 1 on a cycle.`,
		Usage:  "traitc graph [path...] [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.LoadConfig()
			if err != nil {
				return err
			}
			loaded, err := loadTraits(cfg, args, logger)
			if err != nil {
				return err
			}
			graph, err := traitgraph.Build(loaded.Definitions)
			if err != nil {
				return cli.Validation("building trait graph: %w", err)
			}

			names := graph.Names()
			output := graphResult{
				Missing:   graph.MissingDependencies(names),
				Conflicts: graph.ActiveConflicts(names),
			}
			order, err := graph.TopologicalOrder()
			var cycle *traitgraph.CycleError
			switch {
			case errors.As(err, &cycle):
				output.Cycle = cycle.Path
			case err != nil:
				return cli.Internal("ordering traits: %w", err)
			default:
				output.Order = order
			}

			if done, err := params.EmitJSON(output); done {
				if err != nil {
					return err
				}
				return graphExit(output)
			}

			report := cli.NewReport(os.Stdout)
			report.Heading("Application order")
			if output.Cycle != nil {
				report.Line("  cycle: %s", strings.Join(output.Cycle, " -> "))
			} else {
				report.Line("  %s", joinOrNone(output.Order, " -> "))
			}

			report.Heading("Missing dependencies")
			var rows [][]string
			for _, missing := range output.Missing {
				rows = append(rows, []string{missing.Trait, "requires", missing.Requires})
			}
			if len(rows) == 0 {
				report.Line("  none")
			}
			report.Table(rows)

			report.Heading("Conflicts")
			rows = nil
			for _, pair := range output.Conflicts {
				rows = append(rows, []string{pair.A, "conflicts with", pair.B})
			}
			if len(rows) == 0 {
				report.Line("  none")
			}
			report.Table(rows)
			return graphExit(output)
		},
	}
}

func graphExit(output graphResult) error {
	if output.Cycle != nil {
		return &cli.ExitError{Code: 1}
	}
	return nil
}
