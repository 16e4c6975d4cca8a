// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the traitc command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/cmd/traitc/cli"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/config"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitfile"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/version"
)

// Root builds and returns the complete traitc command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "traitc",
		Description: `traitc: trait composition compiler.

Load trait definitions, compose them into a single object with a
deterministic collision log, and validate the result against the
TE-XXYY issue taxonomy.`,
		Subcommands: []*cli.Command{
			composeCommand(),
			validateCommand(),
			paramsCommand(),
			graphCommand(),
			structureCommand(),
			codesCommand(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Compose every trait in a directory",
				Command:     "traitc compose traits/",
			},
			{
				Description: "Gate a change in CI",
				Command:     "traitc validate --fail-on-warning traits/",
			},
			{
				Description: "Check a Stateful parameter file",
				Command:     "traitc params Stateful order-states.yaml --traits traits/",
			},
		},
	}
}

// loadParams holds the flags shared by commands that load trait files.
type loadParams struct {
	cli.JSONOutput
	cli.Verbosity
	cli.ConfigFile
}

// loadTraits resolves paths (falling back to the configured
// trait_paths) and loads the trait files.
func loadTraits(cfg *config.Config, paths []string, logger *slog.Logger) (*traitfile.Result, error) {
	if len(paths) == 0 {
		paths = cfg.TraitPaths
	}
	if len(paths) == 0 {
		return nil, cli.Validation("no trait paths given and trait_paths is not configured")
	}

	loaded, err := traitfile.Load(traitfile.Options{Logger: logger}, paths...)
	if err != nil {
		return nil, cli.Internal("loading traits: %w", err)
	}
	logger.Debug("traits loaded",
		"files", len(loaded.Files),
		"traits", len(loaded.Definitions),
		"issues", len(loaded.Issues),
	)
	return loaded, nil
}

func versionCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Params:  func() any { return &params },
		Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
			if done, err := params.EmitJSON(version.Current()); done {
				return err
			}
			fmt.Fprintf(os.Stdout, "traitc %s\n", version.Full())
			return nil
		},
	}
}
