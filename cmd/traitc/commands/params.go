// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/cmd/traitc/cli"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/params"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitfile"
)

type paramsParams struct {
	loadParams
	Traits []string `json:"traits" flag:"traits" desc:"trait files or directories declaring parameter schemas (default: config trait_paths)"`
	Open   bool     `json:"open"   flag:"open" desc:"accept parameters the schema does not declare"`
}

// paramsResult is the JSON output for params.
type paramsResult struct {
	Trait string `json:"trait"`
	File  string `json:"file"`
	params.Result
}

func paramsCommand() *cli.Command {
	var flags paramsParams

	return &cli.Command{
		Name:    "params",
		Summary: "Validate a trait's instantiation parameters",
		Description: `Validate a parameter file (YAML or JSON) against the parameter schema
of a trait. Schemas come from the "parameters" block of loaded trait
files; the built-in Stateful schema is always available. Unknown keys
are rejected (TE-0204) unless --open is set or closed_parameters is
false in the config.`,
		Usage: "traitc params <trait> <parameters-file> [flags]",
		Examples: []cli.Example{
			{
				Description: "Check a Stateful configuration",
				Command:     "traitc params Stateful order-states.yaml",
			},
			{
				Description: "Check against schemas from a trait directory",
				Command:     "traitc params Priced pricing.json --traits traits/",
			},
		},
		Params: func() any { return &flags },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("usage: traitc params <trait> <parameters-file>")
			}
			traitName, file := args[0], args[1]

			cfg, err := flags.LoadConfig()
			if err != nil {
				return err
			}
			options := cfg.ParamsOptions()
			options.Open = options.Open || flags.Open

			validator := params.NewValidator(nil, options)
			paths := flags.Traits
			if len(paths) == 0 {
				paths = cfg.TraitPaths
			}
			if len(paths) > 0 {
				loaded, err := loadTraits(cfg, paths, logger)
				if err != nil {
					return err
				}
				validator = params.NewValidator(loaded.Definitions, options)
				for name, source := range loaded.Sources {
					validator.SetSourceFile(name, source)
				}
			}
			validator.RegisterStateful()

			data, err := os.ReadFile(file)
			if err != nil {
				return cli.NotFound("reading parameters: %w", err)
			}
			value, err := traitfile.DecodeValue(file, data)
			if err != nil {
				return cli.Validation("%s: %w", file, err)
			}

			result := validator.Validate(traitName, value)
			logger.Debug("parameters validated", "trait", traitName, "file", file, "issues", len(result.Issues))

			if done, err := flags.EmitJSON(paramsResult{Trait: traitName, File: file, Result: result}); done {
				if err != nil {
					return err
				}
				return cli.IssueExit(result.Issues, false)
			}

			report := cli.NewReport(os.Stdout)
			if result.Valid && len(result.Issues) == 0 {
				report.Line("%s: valid %s parameters", file, traitName)
				return nil
			}
			report.Issues(result.Issues)
			return cli.IssueExit(result.Issues, false)
		},
	}
}
