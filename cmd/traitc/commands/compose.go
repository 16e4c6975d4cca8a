// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/cmd/traitc/cli"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/compose"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/config"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/digest"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/issue"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/snapshot"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitfile"
	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/traitgraph"
)

type composeParams struct {
	loadParams
	Name          string `json:"name"            flag:"name" desc:"name of the composed object (default: trait names joined by +)"`
	ID            string `json:"id"              flag:"id" desc:"identifier of the composed object (default: derived from trait names and versions)"`
	Snapshot      string `json:"snapshot"        flag:"snapshot" desc:"write a snapshot of the composed object to this path"`
	Compression   string `json:"compression"     flag:"compression" desc:"snapshot compression: zstd, lz4 or none (default: from config)"`
	GraphChecks   bool   `json:"graph_checks"    flag:"graph-checks" desc:"report dependency cycles and declared conflicts"`
	FailOnWarning bool   `json:"fail_on_warning" flag:"fail-on-warning" desc:"exit 1 when any warning is reported"`
}

// composeResult is the JSON output for compose.
type composeResult struct {
	Object      *compose.Object `json:"object,omitempty"`
	Fingerprint *digest.Hash    `json:"fingerprint,omitempty"`
	Snapshot    *snapshotOutput `json:"snapshot,omitempty"`
	Files       []string        `json:"files"`
	Valid       bool            `json:"valid"`
	Issues      []issue.Issue   `json:"issues"`
}

type snapshotOutput struct {
	Path   string          `json:"path"`
	Header snapshot.Header `json:"header"`
}

// composition is the shared outcome of loading, composing and
// validating a trait set.
type composition struct {
	loaded *traitfile.Result
	object *compose.Object
	issues []issue.Issue
}

// composeTraits loads traits and composes and validates them. A cycle
// does not fail the command: it becomes a TE-0302 issue and the
// returned object is nil.
func composeTraits(cfg *config.Config, paths []string, graphChecks bool, opts []compose.Option, logger *slog.Logger) (*composition, error) {
	loaded, err := loadTraits(cfg, paths, logger)
	if err != nil {
		return nil, err
	}
	result := &composition{loaded: loaded, issues: slices.Clone(loaded.Issues)}
	if len(loaded.Definitions) == 0 {
		return result, nil
	}

	object, err := compose.Compose(loaded.Definitions, opts...)
	if errors.Is(err, traitgraph.ErrCycle) {
		graphIssues, graphErr := compose.GraphIssues(loaded.Definitions)
		if graphErr != nil {
			return nil, cli.Internal("checking trait graph: %w", graphErr)
		}
		result.issues = append(result.issues, graphIssues...)
		issue.Sort(result.issues)
		return result, nil
	}
	if err != nil {
		return nil, cli.Validation("composing traits: %w", err)
	}

	options := cfg.ValidateOptions()
	options.GraphChecks = options.GraphChecks || graphChecks
	validation := compose.Validate(object, options)
	logger.Debug("composition validated",
		"object", object.ID,
		"collisions", len(object.Metadata.Collisions),
		"issues", len(validation.Issues),
	)

	result.object = object
	result.issues = append(result.issues, validation.Issues...)
	issue.Sort(result.issues)
	return result, nil
}

func composeCommand() *cli.Command {
	var params composeParams

	return &cli.Command{
		Name:    "compose",
		Summary: "Compose traits into a single object",
		Description: `Load trait files, compose them in dependency order and validate the
composed object. Prints the object's fields, the collision log and
every issue found. With --snapshot, the composed object is also
written as a snapshot file for renderers.

Paths may be files or directories; directories are scanned one level
deep. With no paths, the config's trait_paths are used.`,
		Usage: "traitc compose [path...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Compose and print the result",
				Command:     "traitc compose traits/",
			},
			{
				Description: "Write an lz4 snapshot",
				Command:     "traitc compose traits/ --snapshot build/order.trsn --compression lz4",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.LoadConfig()
			if err != nil {
				return err
			}

			var opts []compose.Option
			if params.Name != "" {
				opts = append(opts, compose.WithName(params.Name))
			}
			if params.ID != "" {
				opts = append(opts, compose.WithID(params.ID))
			}
			composed, err := composeTraits(cfg, args, params.GraphChecks, opts, logger)
			if err != nil {
				return err
			}

			output := composeResult{
				Object: composed.object,
				Files:  composed.loaded.Files,
				Valid:  !issue.HasErrors(composed.issues),
				Issues: composed.issues,
			}
			if composed.object != nil {
				fingerprint, err := compose.Fingerprint(composed.object)
				if err != nil {
					return cli.Internal("fingerprinting composed object: %w", err)
				}
				output.Fingerprint = &fingerprint

				if params.Snapshot != "" {
					written, err := writeSnapshot(cfg, params.Snapshot, params.Compression, composed.object)
					if err != nil {
						return err
					}
					logger.Info("snapshot written",
						"path", params.Snapshot,
						"compression", written.Compression.String(),
						"size", written.StoredSize,
					)
					output.Snapshot = &snapshotOutput{Path: params.Snapshot, Header: written}
				}
			}

			if done, err := params.EmitJSON(output); done {
				if err != nil {
					return err
				}
				return cli.IssueExit(composed.issues, params.FailOnWarning)
			}

			report := cli.NewReport(os.Stdout)
			if composed.object != nil {
				printObject(report, composed.object, *output.Fingerprint)
				report.Line("")
			}
			report.Heading("Issues")
			report.Issues(composed.issues)
			return cli.IssueExit(composed.issues, params.FailOnWarning)
		},
	}
}

// writeSnapshot writes object to path, creating the parent directory.
// A relative path with no directory component lands in the configured
// snapshot directory when there is one.
func writeSnapshot(cfg *config.Config, path, compressionName string, object *compose.Object) (snapshot.Header, error) {
	compression, err := cfg.SnapshotCompression()
	if compressionName != "" {
		compression, err = snapshot.ParseCompression(compressionName)
	}
	if err != nil {
		return snapshot.Header{}, cli.Validation("%w", err)
	}

	if cfg.Snapshot.Directory != "" && filepath.Base(path) == path {
		if err := cfg.EnsurePaths(); err != nil {
			return snapshot.Header{}, cli.Internal("%w", err)
		}
		path = filepath.Join(cfg.Snapshot.Directory, path)
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return snapshot.Header{}, cli.Internal("creating snapshot directory: %w", err)
	}

	written, err := snapshot.WriteFile(path, object, compression)
	if err != nil {
		return snapshot.Header{}, cli.Internal("%w", err)
	}
	return written, nil
}

func printObject(report *cli.Report, object *compose.Object, fingerprint digest.Hash) {
	report.Heading(object.Name)
	report.Table([][]string{
		{"id", object.ID},
		{"fingerprint", fingerprint.Short()},
		{"traits", joinOrNone(object.Metadata.TraitOrder, " -> ")},
		{"actions", joinOrNone(object.Actions, ", ")},
		{"state owner", orNone(object.Metadata.StateOwner)},
	})

	report.Line("")
	report.Heading("Fields")
	var rows [][]string
	for _, name := range sortedKeys(object.Schema) {
		field := object.Schema[name]
		required := ""
		if field.Required {
			required = "required"
		}
		rows = append(rows, []string{name, field.Type, required, object.Metadata.Provenance["schema."+name]})
	}
	if len(rows) == 0 {
		report.Line("  none")
	}
	report.Table(rows)

	report.Line("")
	report.Heading("Collisions")
	report.Collisions(object.Metadata.Collisions)
}
